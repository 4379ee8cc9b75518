/*
Copyright © 2025 The ykneobtc Authors

path_test.go contains unit tests for BIP32 path parsing and packing.
*/
package ykneo

import (
	"bytes"
	"testing"
)

// TestParsePath tests ParsePath with various path notations.
func TestParsePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []uint32
		wantErr bool
	}{
		{
			name:  "simple path",
			input: "0/7",
			want:  []uint32{0, 7},
		},
		{
			name:  "with m prefix",
			input: "m/0/7",
			want:  []uint32{0, 7},
		},
		{
			name:  "hardened apostrophe",
			input: "m/44'/0'/0/1",
			want:  []uint32{44 | 0x80000000, 0x80000000, 0, 1},
		},
		{
			name:  "hardened h suffix",
			input: "m/1h/2H",
			want:  []uint32{1 | 0x80000000, 2 | 0x80000000},
		},
		{
			name:  "max non-hardened index",
			input: "2147483647",
			want:  []uint32{0x7fffffff},
		},
		{
			name:  "max hardened index",
			input: "2147483647'",
			want:  []uint32{0xffffffff},
		},
		{
			name:    "bare m",
			input:   "m",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "empty element",
			input:   "0//1",
			wantErr: true,
		},
		{
			name:    "trailing slash",
			input:   "m/0/",
			wantErr: true,
		},
		{
			name:    "index with high bit set",
			input:   "2147483648",
			wantErr: true,
		},
		{
			name:    "negative index",
			input:   "-1",
			wantErr: true,
		},
		{
			name:    "junk element",
			input:   "0/abc",
			wantErr: true,
		},
		{
			name:    "lone hardened marker",
			input:   "'",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParsePath(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Errorf("ParsePath(%q) unexpected error: %v", tt.input, err)
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParsePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParsePath(%q)[%d] = %#x, want %#x", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestPackPath verifies the big-endian wire encoding of child indexes.
func TestPackPath(t *testing.T) {
	tests := []struct {
		name string
		path []uint32
		want []byte
	}{
		{
			name: "empty",
			path: nil,
			want: []byte{},
		},
		{
			name: "single index",
			path: []uint32{7},
			want: []byte{0x00, 0x00, 0x00, 0x07},
		},
		{
			name: "hardened index",
			path: []uint32{4711 | 0x80000000},
			want: []byte{0x80, 0x00, 0x12, 0x67},
		},
		{
			name: "two indexes",
			path: []uint32{1, 4711 | 0x80000000},
			want: []byte{0x00, 0x00, 0x00, 0x01, 0x80, 0x00, 0x12, 0x67},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PackPath(tt.path)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("PackPath(%v) = %x, want %x", tt.path, got, tt.want)
			}
		})
	}
}

// TestFormatPath verifies the round trip from parsed indexes back to text.
func TestFormatPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0/7", "m/0/7"},
		{"m/44'/0'/0/1", "m/44'/0'/0/1"},
		{"m/1h/2H", "m/1'/2'"},
	}

	for _, tt := range tests {
		path, err := ParsePath(tt.input)
		if err != nil {
			t.Fatalf("ParsePath(%q) unexpected error: %v", tt.input, err)
		}
		if got := FormatPath(path); got != tt.want {
			t.Errorf("FormatPath(ParsePath(%q)) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
