/*
Copyright © 2025 The ykneobtc Authors

sign.go implements the 'sign' command.

The applet signs a single 32-byte digest with the sub key at the given
BIP32 path and returns a DER encoded ECDSA signature. The digest is
validated host-side before any card I/O so a typo never costs a PIN
prompt. With --verify the signature is checked locally against the
derived public key before being printed.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ykneobtc/keyfmt"
	"ykneobtc/ykneo"
)

// signCmd represents the 'sign' command.
var signCmd = &cobra.Command{
	Use:   "sign <path> <digest-hex>",
	Short: "Sign a 32-byte digest with the sub key at a BIP32 path",
	Long: `Sign a 32-byte digest with the sub key at a BIP32 path.

Requires the user PIN. The digest is given as 64 hex digits; hash your
message (e.g. the transaction sighash) before calling sign. The DER
encoded ECDSA signature is printed as hex.`,
	Example: `  # Sign a sighash with m/0/7
  ykneobtc sign m/0/7 9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08

  # Sign and verify the result locally
  ykneobtc sign --verify m/1/4711' 9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08`,
	Args: cobra.ExactArgs(2),
	Run:  runSign,
}

// init registers the 'sign' command and configures its flags.
func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().Bool("verify", false, "Verify the signature against the derived public key")
}

// runSign handles the 'sign' command execution.
func runSign(cmd *cobra.Command, args []string) {
	verify, _ := cmd.Flags().GetBool("verify")

	k, closeFn, err := OpenKey(cmd)
	if err != nil {
		ExitWithClassifiedError(err)
	}
	defer closeFn()

	if err := doSign(k, args[0], args[1], verify); err != nil {
		ExitWithClassifiedError(err)
	}
}

// doSign signs a digest and prints the DER signature. Shared with the
// interactive shell.
func doSign(k *ykneo.Key, pathArg, digestArg string, verify bool) error {
	path, err := ykneo.ParsePath(pathArg)
	if err != nil {
		return ErrInvalidPath(pathArg, err)
	}
	digest, err := DecodeHex("digest", digestArg)
	if err != nil {
		return err
	}
	if len(digest) != 32 {
		return ErrInvalidDigest(len(digest))
	}

	var sig []byte
	err = WithUnlock(k, func() error {
		var opErr error
		sig, opErr = k.Sign(path, digest)
		return opErr
	})
	if err != nil {
		return err
	}

	if verify {
		// User mode is unlocked at this point, so the derivation
		// cannot trip another PIN prompt.
		pub, err := k.GetPublicKey(path)
		if err != nil {
			return err
		}
		if err := keyfmt.VerifySignature(pub, digest, sig); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "signature verified")
	}

	fmt.Printf("%x\n", sig)
	return nil
}
