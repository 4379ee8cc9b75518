/*
Copyright © 2025 The ykneobtc Authors

getpub.go implements the 'get-pub' command.

The command asks the applet to derive the sub key at a BIP32 path and
prints its public key. The applet returns the uncompressed SEC1 form;
--compressed re-encodes it and --fingerprint adds the BIP32-style
HASH160 fingerprint, which is handy for cross-checking a derived key
against wallet software.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ykneobtc/keyfmt"
	"ykneobtc/ykneo"
)

// getPubCmd represents the 'get-pub' command.
var getPubCmd = &cobra.Command{
	Use:     "get-pub <path>",
	Aliases: []string{"get_pub"},
	Short:   "Print the public key of the sub key at a BIP32 path",
	Long: `Derive the sub key at a BIP32 path on the card and print its public key.

Requires the user PIN. Hardened derivation is selected with the '
(or h) suffix on a path element.`,
	Example: `  # Uncompressed public key of m/0/7
  ykneobtc get-pub m/0/7

  # Compressed form with fingerprint
  ykneobtc get-pub -c --fingerprint m/44'/0'/0/1`,
	Args: cobra.ExactArgs(1),
	Run:  runGetPub,
}

// init registers the 'get-pub' command and configures its flags.
func init() {
	rootCmd.AddCommand(getPubCmd)

	getPubCmd.Flags().BoolP("compressed", "c", false, "Print the SEC1 compressed form")
	getPubCmd.Flags().Bool("fingerprint", false, "Also print the BIP32 fingerprint")
}

// runGetPub handles the 'get-pub' command execution.
func runGetPub(cmd *cobra.Command, args []string) {
	compressed, _ := cmd.Flags().GetBool("compressed")
	fingerprint, _ := cmd.Flags().GetBool("fingerprint")

	k, closeFn, err := OpenKey(cmd)
	if err != nil {
		ExitWithClassifiedError(err)
	}
	defer closeFn()

	if err := doGetPub(k, args[0], compressed, fingerprint); err != nil {
		ExitWithClassifiedError(err)
	}
}

// doGetPub derives the sub key and prints its public key. Shared with
// the interactive shell.
func doGetPub(k *ykneo.Key, pathArg string, compressed, fingerprint bool) error {
	path, err := ykneo.ParsePath(pathArg)
	if err != nil {
		return ErrInvalidPath(pathArg, err)
	}

	var pub []byte
	err = WithUnlock(k, func() error {
		var opErr error
		pub, opErr = k.GetPublicKey(path)
		return opErr
	})
	if err != nil {
		return err
	}

	out := pub
	if compressed {
		if out, err = keyfmt.Compress(pub); err != nil {
			return err
		}
	}
	fmt.Printf("%x\n", out)

	if fingerprint {
		fp, err := keyfmt.Fingerprint(pub)
		if err != nil {
			return err
		}
		fmt.Printf("fingerprint: %s\n", fp)
	}
	return nil
}
