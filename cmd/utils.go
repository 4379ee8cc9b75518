/*
Copyright © 2025 The ykneobtc Authors

utils.go provides shared helpers for the ykneobtc commands.

This file contains:
  - Version information variables (set via ldflags)
  - Masked PIN prompting and the unlock/retry loop
  - Card session opening with reader selection
  - Hex argument decoding
*/
package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"ykneobtc/ykneo"
)

// Version information variables.
// These are set via ldflags during the build process:
//
//	go build -ldflags "-X ykneobtc/cmd.Version=1.0.0 -X ykneobtc/cmd.GitCommit=abc123 ..."
var (
	Version   = "dev"     // Semantic version (e.g., "1.0.0")
	BuildTime = "unknown" // Build timestamp
	GitCommit = "unknown" // Git commit hash
	GoVersion = "unknown" // Go compiler version
)

// PromptHidden prompts the user for input without echoing to the terminal.
// This is used for PIN entry.
//
// If stdin is a terminal, uses term.ReadPassword for secure input.
// Falls back to normal reading if not a terminal (e.g., piped input).
//
// Returns the trimmed input string or error.
func PromptHidden(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		// Secure terminal input (no echo)
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr) // Newline after hidden input
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	// Fallback for non-terminal input
	var s string
	_, err := fmt.Fscanln(os.Stdin, &s)
	return strings.TrimSpace(s), err
}

// PromptPIN prompts for the PIN of the given mode with a masked prompt.
func PromptPIN(admin bool) (string, error) {
	mode := "user"
	if admin {
		mode = "admin"
	}
	return PromptHidden(fmt.Sprintf("Enter %s PIN: ", mode))
}

// PromptNewPIN prompts twice for a new PIN and checks the confirmation.
// An empty PIN is rejected before asking for confirmation.
func PromptNewPIN(label string) (string, error) {
	pin, err := PromptHidden(fmt.Sprintf("Enter new %s: ", label))
	if err != nil {
		return "", err
	}
	if pin == "" {
		return "", &ToolError{
			Category: ErrCategoryInput,
			Message:  "empty PIN not allowed",
			Hint:     "Press Ctrl+C to cancel if you did not mean to change the PIN.",
		}
	}
	confirm, err := PromptHidden(fmt.Sprintf("Repeat new %s: ", label))
	if err != nil {
		return "", err
	}
	if pin != confirm {
		return "", ErrPINMismatch()
	}
	return pin, nil
}

// ReaderPattern returns the reader selection regexp, preferring the
// command-line flag over the config file / environment (viper), with
// the library default as fallback.
func ReaderPattern(cmd *cobra.Command) string {
	if reader, _ := cmd.Flags().GetString("reader"); reader != "" {
		return reader
	}
	if reader := viper.GetString("reader"); reader != "" {
		return reader
	}
	return ykneo.DefaultReaderPattern
}

// OpenKey opens a session with the ykneo-bitcoin applet using the
// reader selected for this invocation.
//
// Returns:
//   - key: the applet session
//   - closeFn: a function to close the connection (call with defer)
//   - err: error if no reader matched or the applet is missing
func OpenKey(cmd *cobra.Command) (*ykneo.Key, func(), error) {
	return ykneo.Open(ReaderPattern(cmd))
}

// EnsureUnlocked prompts for the PIN of the given mode and verifies it,
// re-prompting while the card still reports attempts remaining. When
// the retry counter reaches zero the blocked-PIN error is returned and
// the caller is expected to abort.
func EnsureUnlocked(k *ykneo.Key, admin bool) error {
	if (admin && k.AdminUnlocked()) || (!admin && k.UserUnlocked()) {
		return nil
	}
	for {
		pin, err := PromptPIN(admin)
		if err != nil {
			return err
		}
		err = unlockMode(k, admin, pin)
		if err == nil {
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

// unlockMode dispatches to the mode-specific unlock call.
func unlockMode(k *ykneo.Key, admin bool, pin string) error {
	if admin {
		return k.UnlockAdmin(pin)
	}
	return k.UnlockUser(pin)
}

// WithUnlock runs fn, and whenever it fails because a PIN mode is
// still locked, prompts for that mode's PIN and retries. All other
// errors pass through unchanged.
//
// This gives every command the lazy-PIN behavior: the user is only
// asked for the PIN an operation actually needs.
func WithUnlock(k *ykneo.Key, fn func() error) error {
	for {
		err := fn()
		var lockErr *ykneo.PINLockedError
		if !errors.As(err, &lockErr) {
			return err
		}
		if err := EnsureUnlocked(k, lockErr.Admin); err != nil {
			return err
		}
	}
}

// DecodeHex decodes a hex argument, accepting an optional 0x prefix.
// The what parameter names the argument for error messages.
func DecodeHex(what, s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, ErrInvalidHex(what, err)
	}
	return b, nil
}
