/*
Copyright © 2025 The ykneobtc Authors

atomic_test.go contains unit tests for atomic file writing.
*/
package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.hex")

	if err := WriteFileAtomic(path, []byte("0488b21e\n"), false); err != nil {
		t.Fatalf("WriteFileAtomic unexpected error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "0488b21e\n" {
		t.Errorf("file content = %q, want %q", got, "0488b21e\n")
	}

	// No temp file left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries after write, want 1", len(entries))
	}
}

func TestWriteFileAtomicExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.hex")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err := WriteFileAtomic(path, []byte("new"), false)
	var te *ToolError
	if !errors.As(err, &te) || te.Category != ErrCategoryFile {
		t.Fatalf("WriteFileAtomic error = %v, want file-category ToolError", err)
	}

	// Original preserved.
	got, _ := os.ReadFile(path)
	if string(got) != "old" {
		t.Errorf("existing file was modified: %q", got)
	}

	// Overwrite allowed with the flag.
	if err := WriteFileAtomic(path, []byte("new"), true); err != nil {
		t.Fatalf("WriteFileAtomic(overwrite) unexpected error: %v", err)
	}
	got, _ = os.ReadFile(path)
	if string(got) != "new" {
		t.Errorf("file content = %q, want %q", got, "new")
	}
}

func TestAtomicWriterAbort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.hex")

	w, err := NewAtomicWriter(path, false)
	if err != nil {
		t.Fatalf("NewAtomicWriter unexpected error: %v", err)
	}
	if _, err := w.Write([]byte("partial")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Abort()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("target file exists after Abort")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("temp files left after Abort: %d entries", len(entries))
	}
}

func TestAtomicWriterCloseWithoutWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.hex")

	w, err := NewAtomicWriter(path, false)
	if err != nil {
		t.Fatalf("NewAtomicWriter unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close unexpected error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("empty write created the target file")
	}
}
