/*
Copyright © 2025 The ykneobtc Authors

generate.go implements the 'generate' command for creating the master
key pair on-card.

The key pair is generated inside the secure element. By default the
private key never leaves the card and later export of the extended
public key is refused; both behaviors are opt-in at generation time
and cannot be changed afterwards.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ykneobtc/ykneo"
)

// generateCmd represents the 'generate' command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new BIP32 master key pair on the card",
	Long: `Generate a new BIP32 extended master key pair inside the secure element.

Requires the admin PIN. Generating replaces any key pair already on the
card. The response (serialized public key, plus the private key with
-p) is printed as hex.

Options chosen here are permanent for the generated key:
  -e allows 'export' to read the extended public key later
  -p returns the serialized private key once, for backup
  -t serializes with testnet version bytes`,
	Example: `  # Generate, keeping the private key on-card, export allowed
  ykneobtc generate -e

  # Generate a testnet key and back up the private part
  ykneobtc generate -t -p`,
	Args: cobra.NoArgs,
	Run:  runGenerate,
}

// init registers the 'generate' command and configures its flags.
func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolP("allow-export", "e", false, "Allow exporting the extended public key later")
	generateCmd.Flags().BoolP("return-private", "p", false, "Return the serialized private key in the response")
	generateCmd.Flags().BoolP("testnet", "t", false, "Use testnet version bytes")
}

// runGenerate handles the 'generate' command execution.
func runGenerate(cmd *cobra.Command, args []string) {
	allowExport, _ := cmd.Flags().GetBool("allow-export")
	returnPrivate, _ := cmd.Flags().GetBool("return-private")
	testnet, _ := cmd.Flags().GetBool("testnet")

	k, closeFn, err := OpenKey(cmd)
	if err != nil {
		ExitWithClassifiedError(err)
	}
	defer closeFn()

	if err := doGenerate(k, allowExport, returnPrivate, testnet); err != nil {
		ExitWithClassifiedError(err)
	}
}

// doGenerate creates the master key pair and prints the card's
// response. Shared with the interactive shell.
func doGenerate(k *ykneo.Key, allowExport, returnPrivate, testnet bool) error {
	if k.KeyLoaded() {
		fmt.Fprintln(os.Stderr, "note: the card already holds a master key pair; generating replaces it")
	}

	var resp []byte
	err := WithUnlock(k, func() error {
		var opErr error
		resp, opErr = k.GenerateMasterKeyPair(allowExport, returnPrivate, testnet)
		return opErr
	})
	if err != nil {
		return err
	}

	if returnPrivate {
		fmt.Fprintln(os.Stderr, "warning: the output below contains the private key; store it offline")
	}
	fmt.Printf("%x\n", resp)
	return nil
}
