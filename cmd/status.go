/*
Copyright © 2025 The ykneobtc Authors

status.go implements the 'status' command.

Everything printed here comes from the SELECT response, so the command
works without any PIN.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ykneobtc/ykneo"
)

// statusCmd represents the 'status' command.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applet version and key state",
	Long:  `Show the ykneo-bitcoin applet version and whether a master key pair is loaded.`,
	Args:  cobra.NoArgs,
	Run:   runStatus,
}

// init registers the 'status' command.
func init() {
	rootCmd.AddCommand(statusCmd)
}

// runStatus handles the 'status' command execution.
func runStatus(cmd *cobra.Command, args []string) {
	k, closeFn, err := OpenKey(cmd)
	if err != nil {
		ExitWithClassifiedError(err)
	}
	defer closeFn()

	if err := doStatus(k); err != nil {
		ExitWithClassifiedError(err)
	}
}

// doStatus prints the applet state. Shared with the interactive shell,
// where it also reflects the session's unlock state.
func doStatus(k *ykneo.Key) error {
	fmt.Printf("applet version: %s\n", k.Version())
	fmt.Printf("master key loaded: %v\n", k.KeyLoaded())
	fmt.Printf("user mode unlocked: %v\n", k.UserUnlocked())
	fmt.Printf("admin mode unlocked: %v\n", k.AdminUnlocked())
	return nil
}
