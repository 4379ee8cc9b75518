/*
Copyright © 2025 The ykneobtc Authors

errors_test.go contains unit tests for error classification and handling.
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"ykneobtc/ykneo"
)

func TestToolError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ToolError
		wantMsg  string
		wantHint string
	}{
		{
			name:    "simple error",
			err:     &ToolError{Category: ErrCategoryCard, Message: "test error"},
			wantMsg: "test error",
		},
		{
			name: "error with cause",
			err: &ToolError{
				Category: ErrCategoryFile,
				Message:  "file error",
				Cause:    errors.New("underlying error"),
			},
			wantMsg: "file error: underlying error",
		},
		{
			name: "error with hint",
			err: &ToolError{
				Category: ErrCategoryPIN,
				Message:  "pin error",
				Hint:     "Try again",
			},
			wantMsg:  "pin error",
			wantHint: "Try again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if tt.wantHint != "" {
				full := tt.err.FullError()
				if !strings.Contains(full, tt.wantHint) {
					t.Errorf("FullError() = %q, want to contain %q", full, tt.wantHint)
				}
			}
		})
	}
}

func TestToolErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	te := &ToolError{Message: "wrapped", Cause: cause}
	if !errors.Is(te, cause) {
		t.Error("errors.Is failed to find the cause through ToolError")
	}
}

func TestErrorCategoryString(t *testing.T) {
	tests := []struct {
		cat  ErrorCategory
		want string
	}{
		{ErrCategoryCard, "Card"},
		{ErrCategoryPIN, "PIN"},
		{ErrCategoryInput, "Input"},
		{ErrCategoryFile, "File"},
		{ErrCategoryUnknown, "Unknown"},
		{ErrorCategory(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("ErrorCategory(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCategory ErrorCategory
		wantFatal    bool
		wantContains string
	}{
		{
			name:         "nil error",
			err:          nil,
			wantCategory: ErrCategoryUnknown,
		},
		{
			name:         "wrong user pin with retries",
			err:          &ykneo.IncorrectPINError{Admin: false, TriesRemaining: 2},
			wantCategory: ErrCategoryPIN,
			wantContains: "2 retries remaining",
		},
		{
			name:         "wrong admin pin exhausted",
			err:          &ykneo.IncorrectPINError{Admin: true, TriesRemaining: 0},
			wantCategory: ErrCategoryPIN,
			wantFatal:    true,
			wantContains: "admin PIN is blocked",
		},
		{
			name:         "mode locked",
			err:          &ykneo.PINLockedError{Admin: true},
			wantCategory: ErrCategoryPIN,
			wantContains: "admin mode is locked",
		},
		{
			name:         "no key loaded",
			err:          ykneo.ErrNoKeyLoaded,
			wantCategory: ErrCategoryCard,
			wantContains: "no master key",
		},
		{
			name:         "select failed",
			err:          &ykneo.SelectError{SW: 0x6a82},
			wantCategory: ErrCategoryCard,
			wantContains: "ykneo-bitcoin applet",
		},
		{
			name:         "no reader",
			err:          &ykneo.NoReaderError{Pattern: ".*Yubikey NEO.*"},
			wantCategory: ErrCategoryCard,
			wantContains: "no smartcard reader",
		},
		{
			name:         "security status not satisfied",
			err:          &ykneo.APDUError{SW: 0x6982},
			wantCategory: ErrCategoryCard,
			wantContains: "security status",
		},
		{
			name:         "conditions of use",
			err:          &ykneo.APDUError{SW: 0x6985},
			wantCategory: ErrCategoryCard,
			wantContains: "conditions of use",
		},
		{
			name:         "unmapped status word",
			err:          &ykneo.APDUError{SW: 0x6f00},
			wantCategory: ErrCategoryCard,
			wantContains: "0x6f00",
		},
		{
			name:         "already classified passes through",
			err:          ErrPINMismatch(),
			wantCategory: ErrCategoryInput,
			wantContains: "PINs do not match",
		},
		{
			name:         "generic error",
			err:          errors.New("something odd"),
			wantCategory: ErrCategoryUnknown,
			wantContains: "something odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Errorf("ClassifyError(nil) = %v, want nil", got)
				}
				return
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %v, want %v", got.Category, tt.wantCategory)
			}
			if got.Fatal != tt.wantFatal {
				t.Errorf("Fatal = %v, want %v", got.Fatal, tt.wantFatal)
			}
			if tt.wantContains != "" && !strings.Contains(got.Error(), tt.wantContains) {
				t.Errorf("Error() = %q, want to contain %q", got.Error(), tt.wantContains)
			}
		})
	}
}

// TestClassifyErrorWrapped tests that classification sees through
// fmt.Errorf wrapping.
func TestClassifyErrorWrapped(t *testing.T) {
	inner := &ykneo.IncorrectPINError{Admin: false, TriesRemaining: 1}
	wrapped := fmt.Errorf("unlock failed: %w", inner)
	got := ClassifyError(wrapped)
	if got.Category != ErrCategoryPIN {
		t.Errorf("Category = %v, want %v", got.Category, ErrCategoryPIN)
	}
	if !strings.Contains(got.Error(), "1 retries remaining") {
		t.Errorf("Error() = %q, want retry count", got.Error())
	}
}
