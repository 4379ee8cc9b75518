/*
Copyright © 2025 The ykneobtc Authors

setpin.go implements the 'set-pin' command.

Changing a PIN verifies the current one in the same applet command, so
a wrong current PIN decrements the retry counter exactly like a failed
unlock. The command re-prompts for the current PIN while attempts
remain and keeps the already-confirmed new PIN.
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ykneobtc/ykneo"
)

// setPinCmd represents the 'set-pin' command.
var setPinCmd = &cobra.Command{
	Use:     "set-pin",
	Aliases: []string{"set_pin"},
	Short:   "Change the user PIN (or the admin PIN with -a)",
	Long: `Change the user PIN, or the admin PIN with -a/--admin.

You are prompted for the current PIN and twice for the new one. A
successful change also unlocks the corresponding mode for the rest of
the session.`,
	Example: `  # Change the user PIN
  ykneobtc set-pin

  # Change the admin PIN
  ykneobtc set-pin -a`,
	Args: cobra.NoArgs,
	Run:  runSetPin,
}

// init registers the 'set-pin' command and configures its flags.
func init() {
	rootCmd.AddCommand(setPinCmd)

	setPinCmd.Flags().BoolP("admin", "a", false, "Change the admin PIN instead of the user PIN")
}

// runSetPin handles the 'set-pin' command execution.
func runSetPin(cmd *cobra.Command, args []string) {
	admin, _ := cmd.Flags().GetBool("admin")

	k, closeFn, err := OpenKey(cmd)
	if err != nil {
		ExitWithClassifiedError(err)
	}
	defer closeFn()

	if err := doSetPin(k, admin); err != nil {
		ExitWithClassifiedError(err)
	}
}

// doSetPin prompts for the current and new PIN and changes it,
// re-prompting for the current PIN on a wrong-PIN status. Shared with
// the interactive shell.
func doSetPin(k *ykneo.Key, admin bool) error {
	mode := "user"
	if admin {
		mode = "admin"
	}

	newPIN, err := PromptNewPIN(mode + " PIN")
	if err != nil {
		return err
	}

	for {
		oldPIN, err := PromptHidden(fmt.Sprintf("Enter current %s PIN: ", mode))
		if err != nil {
			return err
		}

		if admin {
			err = k.SetAdminPIN(oldPIN, newPIN)
		} else {
			err = k.SetUserPIN(oldPIN, newPIN)
		}
		if err == nil {
			fmt.Printf("%s PIN changed\n", mode)
			return nil
		}

		var pinErr *ykneo.IncorrectPINError
		if !errors.As(err, &pinErr) {
			return err
		}
		if pinErr.TriesRemaining == 0 {
			return ErrPINBlocked(admin, err)
		}
		fmt.Fprintln(os.Stderr, "error:", ErrWrongPIN(admin, pinErr.TriesRemaining, nil).Error())
	}
}
