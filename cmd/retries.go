/*
Copyright © 2025 The ykneobtc Authors

retries.go implements the 'retries' command for configuring the PIN
retry counters.

The applet accepts counters between 1 and 15; the range is checked
host-side so an out-of-range value never reaches the card.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ykneobtc/ykneo"
)

// retriesCmd represents the 'retries' command.
var retriesCmd = &cobra.Command{
	Use:   "retries",
	Short: "Configure PIN retry counters",
	Long: `Configure the maximum number of PIN attempts before lockout.

Requires the admin PIN. Counters are per-mode and must be between 1
and 15. Setting a counter also resets the remaining-attempt count for
that PIN.`,
	Example: `  # Allow five user PIN attempts
  ykneobtc retries --user 5

  # Tighten both counters
  ykneobtc retries --user 3 --admin 3`,
	Args: cobra.NoArgs,
	Run:  runRetries,
}

// init registers the 'retries' command and configures its flags.
func init() {
	rootCmd.AddCommand(retriesCmd)

	retriesCmd.Flags().Int("user", 0, "New user PIN retry counter (1-15)")
	retriesCmd.Flags().Int("admin", 0, "New admin PIN retry counter (1-15)")
}

// runRetries handles the 'retries' command execution.
func runRetries(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetInt("user")
	admin, _ := cmd.Flags().GetInt("admin")

	k, closeFn, err := OpenKey(cmd)
	if err != nil {
		ExitWithClassifiedError(err)
	}
	defer closeFn()

	if err := doRetries(k, user, admin); err != nil {
		ExitWithClassifiedError(err)
	}
}

// doRetries applies the requested retry counters. A zero value leaves
// that counter unchanged. Shared with the interactive shell.
func doRetries(k *ykneo.Key, user, admin int) error {
	if user == 0 && admin == 0 {
		return &ToolError{
			Category: ErrCategoryInput,
			Message:  "nothing to do",
			Hint:     "Pass --user and/or --admin with the new retry counter (1-15).",
		}
	}

	return WithUnlock(k, func() error {
		if user != 0 {
			if err := k.SetUserRetryCount(user); err != nil {
				return err
			}
			fmt.Printf("user PIN retry counter set to %d\n", user)
		}
		if admin != 0 {
			if err := k.SetAdminRetryCount(admin); err != nil {
				return err
			}
			fmt.Printf("admin PIN retry counter set to %d\n", admin)
		}
		return nil
	})
}
