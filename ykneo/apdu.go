/*
Copyright © 2025 The ykneobtc Authors

apdu.go implements short APDU encoding and response splitting for the
ykneo-bitcoin applet.

The applet uses the ISO/IEC 7816-4 short form exclusively: a 4-byte
header (CLA INS P1 P2) followed by an optional Lc byte and up to 255
bytes of data. Responses carry the payload followed by the two status
word bytes SW1 SW2.
*/
package ykneo

import (
	"errors"
	"fmt"
)

// Instruction bytes understood by the ykneo-bitcoin applet.
const (
	insGetPublicKey byte = 0x01
	insSign         byte = 0x02
	insGetHeader    byte = 0x03
	insGenerateKey  byte = 0x11
	insImportKey    byte = 0x12
	insExportKey    byte = 0x13
	insResetUserPIN byte = 0x14
	insSetRetries   byte = 0x15
	insVerifyPIN    byte = 0x21
	insSetPIN       byte = 0x22
	insSelect       byte = 0xa4
)

// Status words returned by the applet.
const (
	// swOK signals successful completion.
	swOK uint16 = 0x9000
	// swWrongPINBase is the base of the 0x63Cx family; the low nibble
	// carries the number of PIN attempts remaining.
	swWrongPINBase uint16 = 0x63c0
	swWrongPINMask uint16 = 0xfff0
)

// maxAPDUDataSize is the largest payload a short APDU can carry.
const maxAPDUDataSize = 0xff

// encodeAPDU builds a short-form command APDU.
// Returns an error if the payload exceeds the short APDU limit; the
// applet never needs command chaining (the largest command, key
// import, stays well under 255 bytes).
func encodeAPDU(cla, ins, p1, p2 byte, data []byte) ([]byte, error) {
	if len(data) > maxAPDUDataSize {
		return nil, fmt.Errorf("apdu payload too large: %d bytes (max %d)", len(data), maxAPDUDataSize)
	}
	apdu := make([]byte, 5+len(data))
	apdu[0] = cla
	apdu[1] = ins
	apdu[2] = p1
	apdu[3] = p2
	apdu[4] = byte(len(data))
	copy(apdu[5:], data)
	return apdu, nil
}

// splitResponse separates a raw card response into payload and status word.
// The status word is SW1<<8 | SW2, taken from the trailing two bytes.
func splitResponse(resp []byte) ([]byte, uint16, error) {
	if len(resp) < 2 {
		return nil, 0, errors.New("short response from card")
	}
	sw := uint16(resp[len(resp)-2])<<8 | uint16(resp[len(resp)-1])
	return resp[:len(resp)-2], sw, nil
}

// triesRemaining extracts the remaining attempt count from a 0x63Cx
// status word. Callers must check isWrongPIN first.
func triesRemaining(sw uint16) int {
	return int(sw & 0x000f)
}

// isWrongPIN reports whether the status word is in the 0x63Cx family.
func isWrongPIN(sw uint16) bool {
	return sw&swWrongPINMask == swWrongPINBase
}
