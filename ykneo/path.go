/*
Copyright © 2025 The ykneobtc Authors

path.go implements BIP32 derivation path parsing and wire packing.

A path is written as slash-separated child indexes, optionally
prefixed with "m/": "m/44'/0'/0/1". A trailing ', h or H marks a
hardened index (the index with its high bit set). On the wire each
index is a 4-byte big-endian unsigned integer; the applet walks the
sub-tree from the stored master key in that order.
*/
package ykneo

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// hardenedBit is OR-ed into a child index to request hardened derivation.
const hardenedBit uint32 = 0x80000000

// ParsePath parses a BIP32 derivation path into child indexes.
// Accepted forms: "0/7", "m/0/7", "m/44'/0h/1H". An empty path or a
// bare "m" is rejected since the applet derives from the master key
// implicitly and expects at least one child index.
func ParsePath(s string) ([]uint32, error) {
	trimmed := strings.TrimPrefix(s, "m/")
	if trimmed == "" || trimmed == "m" || s == "m" {
		return nil, fmt.Errorf("derivation path %q has no child indexes", s)
	}
	parts := strings.Split(trimmed, "/")
	path := make([]uint32, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("empty element in derivation path %q", s)
		}
		hardened := false
		switch part[len(part)-1] {
		case '\'', 'h', 'H':
			hardened = true
			part = part[:len(part)-1]
		}
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid path element %q: %w", part, err)
		}
		idx := uint32(n)
		if idx&hardenedBit != 0 {
			return nil, fmt.Errorf("path element %q out of range (use the ' suffix for hardened indexes)", part)
		}
		if hardened {
			idx |= hardenedBit
		}
		path = append(path, idx)
	}
	return path, nil
}

// PackPath serializes child indexes to the applet's wire form:
// one 4-byte big-endian unsigned integer per index.
func PackPath(path []uint32) []byte {
	packed := make([]byte, 4*len(path))
	for i, idx := range path {
		binary.BigEndian.PutUint32(packed[4*i:], idx)
	}
	return packed
}

// FormatPath renders child indexes back to the textual "m/..." form,
// using the ' suffix for hardened indexes.
func FormatPath(path []uint32) string {
	var b strings.Builder
	b.WriteString("m")
	for _, idx := range path {
		b.WriteString("/")
		if idx&hardenedBit != 0 {
			b.WriteString(strconv.FormatUint(uint64(idx&^hardenedBit), 10))
			b.WriteString("'")
		} else {
			b.WriteString(strconv.FormatUint(uint64(idx), 10))
		}
	}
	return b.String()
}
