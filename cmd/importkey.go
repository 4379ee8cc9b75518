/*
Copyright © 2025 The ykneobtc Authors

importkey.go implements the 'import' command for loading an existing
master key pair onto the card.

The key is given as the hex of a BIP32 serialized extended private
key. As with 'generate', whether the extended public key may later be
exported is fixed at load time.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ykneobtc/ykneo"
)

// importCmd represents the 'import' command.
var importCmd = &cobra.Command{
	Use:   "import <serialized-key-hex>",
	Short: "Load a BIP32 extended private key onto the card",
	Long: `Load a BIP32 serialized extended private key onto the card.

Requires the admin PIN. Importing replaces any key pair already on the
card. The argument is the hex encoding of the 78-byte serialized
extended private key (the binary form of an xprv string).`,
	Example: `  # Import a master key, allowing later export of the public part
  ykneobtc import -e 0488ade4000000000000000000873dff...`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

// init registers the 'import' command and configures its flags.
func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolP("allow-export", "e", false, "Allow exporting the extended public key later")
}

// runImport handles the 'import' command execution.
func runImport(cmd *cobra.Command, args []string) {
	allowExport, _ := cmd.Flags().GetBool("allow-export")

	k, closeFn, err := OpenKey(cmd)
	if err != nil {
		ExitWithClassifiedError(err)
	}
	defer closeFn()

	if err := doImport(k, args[0], allowExport); err != nil {
		ExitWithClassifiedError(err)
	}
}

// doImport decodes and loads the serialized key. Shared with the
// interactive shell.
func doImport(k *ykneo.Key, keyHex string, allowExport bool) error {
	serialized, err := DecodeHex("serialized key", keyHex)
	if err != nil {
		return err
	}

	if k.KeyLoaded() {
		fmt.Fprintln(os.Stderr, "note: the card already holds a master key pair; importing replaces it")
	}

	err = WithUnlock(k, func() error {
		return k.ImportExtendedKeyPair(serialized, allowExport)
	})
	if err != nil {
		return err
	}

	fmt.Println("key pair imported")
	return nil
}
