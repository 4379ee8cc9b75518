/*
Copyright © 2025 The ykneobtc Authors

export.go implements the 'export' command for reading the extended
public key off the card.

Export only works for key pairs that were generated or imported with
export allowed. The raw 78-byte serialization is printed as hex along
with its Base58Check rendering (the familiar xpub/tpub string); -o
writes the hex to a file atomically instead.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ykneobtc/keyfmt"
	"ykneobtc/ykneo"
)

// exportCmd represents the 'export' command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the extended public key of the master key pair",
	Long: `Export the BIP32 serialized extended public key of the master key pair.

Requires the admin PIN and a key pair created with export allowed.
Prints the 78-byte serialization as hex and, when it parses as a
standard extended key, the Base58Check xpub string.`,
	Example: `  # Print the extended public key
  ykneobtc export

  # Save the hex serialization to a file
  ykneobtc export -o master.xpub.hex`,
	Args: cobra.NoArgs,
	Run:  runExport,
}

// init registers the 'export' command and configures its flags.
func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "Write the hex serialization to this file (atomic)")
	exportCmd.Flags().BoolP("force", "F", false, "Overwrite the output file if it exists")
}

// runExport handles the 'export' command execution.
func runExport(cmd *cobra.Command, args []string) {
	output, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")

	k, closeFn, err := OpenKey(cmd)
	if err != nil {
		ExitWithClassifiedError(err)
	}
	defer closeFn()

	if err := doExport(k, output, force); err != nil {
		ExitWithClassifiedError(err)
	}
}

// doExport reads and renders the extended public key. Shared with the
// interactive shell (which passes an empty output path).
func doExport(k *ykneo.Key, output string, force bool) error {
	var xpub []byte
	err := WithUnlock(k, func() error {
		var opErr error
		xpub, opErr = k.ExportExtendedPublicKey()
		return opErr
	})
	if err != nil {
		return err
	}

	hexStr := fmt.Sprintf("%x", xpub)

	if output != "" {
		if err := WriteFileAtomic(output, []byte(hexStr+"\n"), force); err != nil {
			return err
		}
		fmt.Printf("extended public key written to %s\n", output)
		return nil
	}

	fmt.Println(hexStr)
	if encoded, err := keyfmt.EncodeExtendedKey(xpub); err == nil {
		fmt.Println(encoded)
	}
	return nil
}
