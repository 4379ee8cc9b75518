/*
Copyright © 2025 The ykneobtc Authors

header.go implements the 'header' command.

The applet exposes the BIP32 serialization header of the stored key
(version bytes, depth, parent fingerprint, child number and chain
code context), which wallet software needs to reconstruct extended
keys from derived public keys.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ykneobtc/ykneo"
)

// headerCmd represents the 'header' command.
var headerCmd = &cobra.Command{
	Use:   "header",
	Short: "Print the card's BIP32 serialization header",
	Long: `Print the BIP32 serialization header data for the stored key.

Requires the user PIN and a loaded master key.`,
	Args: cobra.NoArgs,
	Run:  runHeader,
}

// init registers the 'header' command.
func init() {
	rootCmd.AddCommand(headerCmd)
}

// runHeader handles the 'header' command execution.
func runHeader(cmd *cobra.Command, args []string) {
	k, closeFn, err := OpenKey(cmd)
	if err != nil {
		ExitWithClassifiedError(err)
	}
	defer closeFn()

	if err := doHeader(k); err != nil {
		ExitWithClassifiedError(err)
	}
}

// doHeader fetches and prints the header. Shared with the interactive
// shell.
func doHeader(k *ykneo.Key) error {
	var header []byte
	err := WithUnlock(k, func() error {
		var opErr error
		header, opErr = k.GetHeader()
		return opErr
	})
	if err != nil {
		return err
	}
	fmt.Printf("%x\n", header)
	return nil
}
