/*
Copyright © 2025 The ykneobtc Authors

keyfmt_test.go contains unit tests for key formatting helpers.
*/
package keyfmt

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// testKey generates a fresh secp256k1 key pair for tests.
func testKey(t *testing.T) *secp256k1.PrivateKey {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	return priv
}

// TestCompress tests SEC1 re-encoding of card public keys.
func TestCompress(t *testing.T) {
	priv := testKey(t)
	uncompressed := priv.PubKey().SerializeUncompressed()

	compressed, err := Compress(uncompressed)
	if err != nil {
		t.Fatalf("Compress unexpected error: %v", err)
	}
	if len(compressed) != 33 {
		t.Errorf("compressed key length = %d, want 33", len(compressed))
	}
	if !bytes.Equal(compressed, priv.PubKey().SerializeCompressed()) {
		t.Error("Compress output does not match direct serialization")
	}

	// Compressing an already compressed key is a no-op.
	again, err := Compress(compressed)
	if err != nil {
		t.Fatalf("Compress(compressed) unexpected error: %v", err)
	}
	if !bytes.Equal(again, compressed) {
		t.Error("Compress is not idempotent")
	}

	if _, err := Compress([]byte{0x04, 0x01, 0x02}); err == nil {
		t.Error("Compress accepted a truncated public key")
	}
}

// TestFingerprint tests the BIP32 fingerprint computation.
func TestFingerprint(t *testing.T) {
	priv := testKey(t)
	uncompressed := priv.PubKey().SerializeUncompressed()

	fp, err := Fingerprint(uncompressed)
	if err != nil {
		t.Fatalf("Fingerprint unexpected error: %v", err)
	}
	if len(fp) != 8 {
		t.Errorf("fingerprint length = %d hex chars, want 8", len(fp))
	}

	// The compressed form of the same key fingerprints identically.
	fp2, err := Fingerprint(priv.PubKey().SerializeCompressed())
	if err != nil {
		t.Fatalf("Fingerprint(compressed) unexpected error: %v", err)
	}
	if fp != fp2 {
		t.Errorf("fingerprint differs by encoding: %s vs %s", fp, fp2)
	}
}

// TestHash160 tests the SHA-256 + RIPEMD-160 chain against a known vector.
func TestHash160(t *testing.T) {
	// HASH160 of an empty input.
	got := Hash160(nil)
	want := "b472a266d0bd89c13706a4132ccfb16f7c3b9fcb"
	if gotHex := hex.EncodeToString(got); gotHex != want {
		t.Errorf("Hash160(nil) = %s, want %s", gotHex, want)
	}
	if len(got) != 20 {
		t.Errorf("Hash160 length = %d, want 20", len(got))
	}
}

// TestEncodeExtendedKey tests Base58Check rendering of extended keys.
func TestEncodeExtendedKey(t *testing.T) {
	raw := bytes.Repeat([]byte{0x42}, 78)
	encoded, err := EncodeExtendedKey(raw)
	if err != nil {
		t.Fatalf("EncodeExtendedKey unexpected error: %v", err)
	}

	decoded := base58.Decode(encoded)
	if len(decoded) != 82 {
		t.Fatalf("decoded length = %d, want 82", len(decoded))
	}
	if !bytes.Equal(decoded[:78], raw) {
		t.Error("decoded payload does not match input")
	}
	first := sha256.Sum256(raw)
	second := sha256.Sum256(first[:])
	if !bytes.Equal(decoded[78:], second[:4]) {
		t.Error("checksum mismatch in encoded extended key")
	}

	if _, err := EncodeExtendedKey(raw[:77]); err == nil {
		t.Error("EncodeExtendedKey accepted a 77-byte key")
	}
}

// TestVerifySignature tests local DER signature verification.
func TestVerifySignature(t *testing.T) {
	priv := testKey(t)
	pub := priv.PubKey().SerializeUncompressed()
	digest := sha256.Sum256([]byte("spend output 0"))

	sig := secpecdsa.Sign(priv, digest[:])
	der := sig.Serialize()

	if err := VerifySignature(pub, digest[:], der); err != nil {
		t.Errorf("VerifySignature unexpected error: %v", err)
	}

	// Wrong digest must fail.
	other := sha256.Sum256([]byte("spend output 1"))
	if err := VerifySignature(pub, other[:], der); err == nil {
		t.Error("VerifySignature accepted a signature over a different digest")
	}

	// Wrong key must fail.
	otherKey := testKey(t)
	if err := VerifySignature(otherKey.PubKey().SerializeUncompressed(), digest[:], der); err == nil {
		t.Error("VerifySignature accepted a signature from a different key")
	}

	// Not DER at all.
	if err := VerifySignature(pub, digest[:], []byte{0x01, 0x02}); err == nil {
		t.Error("VerifySignature accepted junk signature bytes")
	}

	// Bad digest length rejected before any parsing.
	if err := VerifySignature(pub, digest[:16], der); err == nil {
		t.Error("VerifySignature accepted a 16-byte digest")
	}
}
