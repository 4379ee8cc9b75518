/*
Copyright © 2025 The ykneobtc Authors

resetpin.go implements the 'reset-user-pin' command.

This is the recovery path for a blocked user PIN: with admin mode
unlocked, the applet sets a new user PIN and resets its retry counter.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ykneobtc/ykneo"
)

// resetUserPinCmd represents the 'reset-user-pin' command.
var resetUserPinCmd = &cobra.Command{
	Use:     "reset-user-pin",
	Aliases: []string{"reset_user_pin"},
	Short:   "Set a new user PIN and reset its retry counter",
	Long: `Set a new user PIN and reset its retry counter.

Requires the admin PIN. Use this to recover from a blocked user PIN.`,
	Args: cobra.NoArgs,
	Run:  runResetUserPin,
}

// init registers the 'reset-user-pin' command.
func init() {
	rootCmd.AddCommand(resetUserPinCmd)
}

// runResetUserPin handles the 'reset-user-pin' command execution.
func runResetUserPin(cmd *cobra.Command, args []string) {
	k, closeFn, err := OpenKey(cmd)
	if err != nil {
		ExitWithClassifiedError(err)
	}
	defer closeFn()

	if err := doResetUserPin(k); err != nil {
		ExitWithClassifiedError(err)
	}
}

// doResetUserPin prompts for the new user PIN and resets it. Shared
// with the interactive shell.
func doResetUserPin(k *ykneo.Key) error {
	newPIN, err := PromptNewPIN("user PIN")
	if err != nil {
		return err
	}
	err = WithUnlock(k, func() error {
		return k.ResetUserPIN(newPIN)
	})
	if err != nil {
		return err
	}
	fmt.Println("user PIN reset")
	return nil
}
