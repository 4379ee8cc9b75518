/*
Copyright © 2025 The ykneobtc Authors

errors.go implements structured error types for better UX.

This module provides:
  - Categorized error types (Card, PIN, Input, File)
  - User-friendly error messages with troubleshooting hints
  - Error wrapping with context preservation
  - Classification of ykneo and PC/SC errors into hinted messages
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"ykneobtc/ykneo"
)

// ErrorCategory represents the type of error for classification.
type ErrorCategory int

const (
	// ErrCategoryUnknown for unclassified errors.
	ErrCategoryUnknown ErrorCategory = iota
	// ErrCategoryCard for smartcard and applet errors.
	ErrCategoryCard
	// ErrCategoryPIN for PIN verification and lockout errors.
	ErrCategoryPIN
	// ErrCategoryInput for user input validation errors.
	ErrCategoryInput
	// ErrCategoryFile for file system errors.
	ErrCategoryFile
)

// String returns a human-readable category name.
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryCard:
		return "Card"
	case ErrCategoryPIN:
		return "PIN"
	case ErrCategoryInput:
		return "Input"
	case ErrCategoryFile:
		return "File"
	default:
		return "Unknown"
	}
}

// ToolError is a structured error with category, message, and hints.
type ToolError struct {
	Category ErrorCategory
	Message  string
	Hint     string
	Cause    error
	// Fatal marks errors that should end an interactive session,
	// such as a blocked PIN.
	Fatal bool
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *ToolError) Unwrap() error {
	return e.Cause
}

// FullError returns the error with hint if available.
func (e *ToolError) FullError() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if e.Hint != "" {
		b.WriteString("\n\nHint: ")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// Common error constructors for Card errors.

// ErrNoReaderFound indicates no reader matched the requested pattern.
func ErrNoReaderFound(pattern string, cause error) *ToolError {
	return &ToolError{
		Category: ErrCategoryCard,
		Message:  fmt.Sprintf("no smartcard reader matching %q", pattern),
		Hint:     "Make sure your YubiKey NEO is plugged in. On Linux, ensure pcscd is running: 'sudo systemctl start pcscd'. Use --reader to match a different reader name.",
		Cause:    cause,
	}
}

// ErrAppletSelect indicates the ykneo-bitcoin applet is not on the card.
func ErrAppletSelect(cause error) *ToolError {
	return &ToolError{
		Category: ErrCategoryCard,
		Message:  "could not select the ykneo-bitcoin applet",
		Hint:     "The card in the reader does not run the ykneo-bitcoin applet. Check that you inserted the right YubiKey NEO and that the applet is installed.",
		Cause:    cause,
	}
}

// ErrCardIO indicates a transmit-level failure.
func ErrCardIO(cause error) *ToolError {
	return &ToolError{
		Category: ErrCategoryCard,
		Message:  "card communication failed",
		Hint:     "The card stopped responding. Remove and re-insert the YubiKey, then try again.",
		Cause:    cause,
	}
}

// ErrNoKeyOnCard indicates no master key pair has been loaded yet.
func ErrNoKeyOnCard(cause error) *ToolError {
	return &ToolError{
		Category: ErrCategoryCard,
		Message:  "no master key on the card",
		Hint:     "Generate a key pair with 'generate' or load one with 'import' before deriving keys or signing.",
		Cause:    cause,
	}
}

// Common error constructors for PIN errors.

// ErrWrongPIN indicates incorrect PIN with remaining retries.
func ErrWrongPIN(admin bool, retries int, cause error) *ToolError {
	mode := "user"
	if admin {
		mode = "admin"
	}
	hint := fmt.Sprintf("Wrong %s PIN! You have %d attempts remaining before the PIN is blocked.", mode, retries)
	if retries == 1 {
		hint = fmt.Sprintf("Wrong %s PIN! This is your LAST attempt. One more failure blocks the PIN.", mode)
	}
	return &ToolError{
		Category: ErrCategoryPIN,
		Message:  fmt.Sprintf("%s PIN verification failed (%d retries remaining)", mode, retries),
		Hint:     hint,
		Cause:    cause,
	}
}

// ErrPINBlocked indicates the PIN retry counter reached zero.
func ErrPINBlocked(admin bool, cause error) *ToolError {
	mode := "user"
	hint := "The user PIN is blocked after too many wrong attempts. Unlock admin mode and run 'reset-user-pin' to set a new one."
	if admin {
		mode = "admin"
		hint = "The admin PIN is blocked after too many wrong attempts. There is no on-card recovery; the applet must be reinstalled, which erases the stored key."
	}
	return &ToolError{
		Category: ErrCategoryPIN,
		Message:  fmt.Sprintf("%s PIN is blocked", mode),
		Hint:     hint,
		Cause:    cause,
		Fatal:    true,
	}
}

// ErrModeLocked indicates an operation needed an unlocked mode.
func ErrModeLocked(admin bool, cause error) *ToolError {
	mode := "user"
	if admin {
		mode = "admin"
	}
	return &ToolError{
		Category: ErrCategoryPIN,
		Message:  fmt.Sprintf("%s mode is locked", mode),
		Hint:     fmt.Sprintf("This operation requires the %s PIN.", mode),
		Cause:    cause,
	}
}

// Common error constructors for Input errors.

// ErrInvalidPath indicates a malformed BIP32 derivation path.
func ErrInvalidPath(path string, cause error) *ToolError {
	return &ToolError{
		Category: ErrCategoryInput,
		Message:  fmt.Sprintf("invalid derivation path %q", path),
		Hint:     "Paths look like m/44'/0'/0/1: slash-separated indexes below 2^31, with ' (or h) marking hardened derivation.",
		Cause:    cause,
	}
}

// ErrInvalidHex indicates an argument that should have been hex.
func ErrInvalidHex(what string, cause error) *ToolError {
	return &ToolError{
		Category: ErrCategoryInput,
		Message:  fmt.Sprintf("invalid hex for %s", what),
		Hint:     "Provide an even number of hex digits, without spaces. A leading 0x is accepted.",
		Cause:    cause,
	}
}

// ErrInvalidDigest indicates a digest of the wrong length.
func ErrInvalidDigest(gotBytes int) *ToolError {
	return &ToolError{
		Category: ErrCategoryInput,
		Message:  fmt.Sprintf("digest must be 32 bytes, got %d", gotBytes),
		Hint:     "The applet signs a single SHA-256 sized digest. Hash your message first and pass the 64-hex-digit result.",
	}
}

// ErrPINMismatch indicates the new PIN confirmation did not match.
func ErrPINMismatch() *ToolError {
	return &ToolError{
		Category: ErrCategoryInput,
		Message:  "PINs do not match",
		Hint:     "The new PIN and its confirmation must be identical.",
	}
}

// Common error constructors for File errors.

// ErrFileAlreadyExists indicates the output file already exists.
func ErrFileAlreadyExists(path string) *ToolError {
	return &ToolError{
		Category: ErrCategoryFile,
		Message:  fmt.Sprintf("output file already exists: %s", path),
		Hint:     "Use a different output path or delete the existing file first.",
	}
}

// ErrFilePermission indicates permission denied.
func ErrFilePermission(path string, cause error) *ToolError {
	return &ToolError{
		Category: ErrCategoryFile,
		Message:  fmt.Sprintf("permission denied: %s", path),
		Hint:     "Check that you have read/write permissions for this file and its directory.",
		Cause:    cause,
	}
}

// ErrAtomicWriteFailed indicates atomic write operation failed.
func ErrAtomicWriteFailed(path string, cause error) *ToolError {
	return &ToolError{
		Category: ErrCategoryFile,
		Message:  fmt.Sprintf("atomic write failed for: %s", path),
		Hint:     "The temporary file could not be renamed to the final path. Check disk space and permissions.",
		Cause:    cause,
	}
}

// ClassifyError categorizes a generic error into a ToolError.
// Typed ykneo errors map directly; PC/SC failures are recognized by
// message patterns.
func ClassifyError(err error) *ToolError {
	if err == nil {
		return nil
	}

	// Already classified.
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}

	var pinErr *ykneo.IncorrectPINError
	if errors.As(err, &pinErr) {
		if pinErr.TriesRemaining == 0 {
			return ErrPINBlocked(pinErr.Admin, err)
		}
		return ErrWrongPIN(pinErr.Admin, pinErr.TriesRemaining, err)
	}

	var lockErr *ykneo.PINLockedError
	if errors.As(err, &lockErr) {
		return ErrModeLocked(lockErr.Admin, err)
	}

	if errors.Is(err, ykneo.ErrNoKeyLoaded) {
		return ErrNoKeyOnCard(err)
	}

	var selErr *ykneo.SelectError
	if errors.As(err, &selErr) {
		return ErrAppletSelect(err)
	}

	var readerErr *ykneo.NoReaderError
	if errors.As(err, &readerErr) {
		return ErrNoReaderFound(readerErr.Pattern, err)
	}

	var apduErr *ykneo.APDUError
	if errors.As(err, &apduErr) {
		return classifyStatusWord(apduErr, err)
	}

	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "scard") || strings.Contains(errLower, "transmit") {
		return ErrCardIO(err)
	}

	// Return a generic wrapped error.
	return &ToolError{
		Category: ErrCategoryUnknown,
		Message:  err.Error(),
		Cause:    err,
	}
}

// classifyStatusWord maps common ISO 7816 status words to hints.
func classifyStatusWord(apduErr *ykneo.APDUError, cause error) *ToolError {
	switch apduErr.SW {
	case 0x6982:
		return &ToolError{
			Category: ErrCategoryCard,
			Message:  "security status not satisfied",
			Hint:     "The applet refused the operation in the current PIN state. Unlock the required mode and try again.",
			Cause:    cause,
		}
	case 0x6985:
		return &ToolError{
			Category: ErrCategoryCard,
			Message:  "conditions of use not satisfied",
			Hint:     "The operation is not allowed for this key. Exporting requires a key pair that was generated or imported with export allowed.",
			Cause:    cause,
		}
	case 0x6a80:
		return &ToolError{
			Category: ErrCategoryCard,
			Message:  "wrong data",
			Hint:     "The applet rejected the request payload. For import, check the serialized key is a valid BIP32 extended private key.",
			Cause:    cause,
		}
	default:
		return &ToolError{
			Category: ErrCategoryCard,
			Message:  cause.Error(),
		}
	}
}

// ExitWithClassifiedError prints a classified error with hints and exits.
func ExitWithClassifiedError(err error) {
	if err == nil {
		return
	}
	te := ClassifyError(err)
	fmt.Fprintln(os.Stderr, "error:", te.FullError())
	os.Exit(1)
}

// ExitWithError prints an error message to stderr and exits with code 1.
// Does nothing if err is nil.
func ExitWithError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

// ExitWithErrorMsg formats and prints an error message to stderr, then
// exits with code 1.
func ExitWithErrorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
