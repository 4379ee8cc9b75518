/*
Copyright © 2025 The ykneobtc Authors

errors.go defines the typed errors surfaced by the applet client.

Callers are expected to inspect these with errors.As/errors.Is:
  - IncorrectPINError carries the remaining attempt count so the CLI
    can re-prompt until the card locks the PIN
  - PINLockedError signals a command was attempted without the
    required mode being unlocked, which the CLI turns into a
    prompt-unlock-retry cycle
  - APDUError wraps any other non-success status word
*/
package ykneo

import (
	"errors"
	"fmt"
)

// ErrNoKeyLoaded is returned when a key operation is attempted before
// a master key pair has been generated or imported.
var ErrNoKeyLoaded = errors.New("no master key has been loaded onto the device")

// modeName returns the PIN mode name used in error messages.
func modeName(admin bool) string {
	if admin {
		return "admin"
	}
	return "user"
}

// PINLockedError indicates an operation requiring an unlocked PIN mode
// was attempted while that mode was still locked.
type PINLockedError struct {
	// Admin is true when admin mode was required, false for user mode.
	Admin bool
}

// Error implements the error interface.
func (e *PINLockedError) Error() string {
	return fmt.Sprintf("the requested action requires %s mode to be unlocked", modeName(e.Admin))
}

// IncorrectPINError indicates a PIN verification failed on-card.
type IncorrectPINError struct {
	// Admin is true when the admin PIN was wrong, false for the user PIN.
	Admin bool
	// TriesRemaining is the attempt count reported by the card.
	// Zero means the PIN is now blocked.
	TriesRemaining int
}

// Error implements the error interface.
func (e *IncorrectPINError) Error() string {
	return fmt.Sprintf("incorrect PIN for %s, %d attempts remaining", modeName(e.Admin), e.TriesRemaining)
}

// APDUError wraps a non-success status word the client has no more
// specific interpretation for.
type APDUError struct {
	// SW is the ISO 7816 status word (SW1<<8 | SW2).
	SW uint16
}

// Error implements the error interface.
func (e *APDUError) Error() string {
	return fmt.Sprintf("APDU error: 0x%04x", e.SW)
}

// SelectError indicates the ykneo-bitcoin applet could not be selected
// on the connected card.
type SelectError struct {
	// SW is the status word returned by the SELECT command.
	SW uint16
}

// Error implements the error interface.
func (e *SelectError) Error() string {
	return fmt.Sprintf("unable to select the ykneo-bitcoin applet (status 0x%04x)", e.SW)
}

// NoReaderError indicates no connected smartcard reader matched the
// requested pattern.
type NoReaderError struct {
	// Pattern is the reader name regexp that failed to match.
	Pattern string
}

// Error implements the error interface.
func (e *NoReaderError) Error() string {
	return fmt.Sprintf("no smartcard reader found matching %q", e.Pattern)
}
