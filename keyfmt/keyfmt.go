/*
Copyright © 2025 The ykneobtc Authors

Package keyfmt renders key material returned by the card into the
formats Bitcoin tooling expects.

The applet returns uncompressed secp256k1 public keys, DER encoded
ECDSA signatures, and BIP32 serialized extended public keys. This
package handles compression, BIP32-style fingerprints (HASH160 of the
compressed key), Base58Check rendering of extended keys, and local
signature verification.
*/
package keyfmt

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/ripemd160"
)

// extendedKeySize is the length of a BIP32 serialized extended key.
const extendedKeySize = 78

// ParsePublicKey parses a secp256k1 public key in SEC1 form
// (uncompressed or compressed) as returned by the applet.
func ParsePublicKey(raw []byte) (*secp256k1.PublicKey, error) {
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return pub, nil
}

// Compress re-encodes a public key in SEC1 compressed form.
func Compress(raw []byte) ([]byte, error) {
	pub, err := ParsePublicKey(raw)
	if err != nil {
		return nil, err
	}
	return pub.SerializeCompressed(), nil
}

// Hash160 computes RIPEMD-160 over the SHA-256 of b, the hash Bitcoin
// uses for addresses and BIP32 fingerprints.
func Hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sha[:])
	return h.Sum(nil)
}

// Fingerprint returns the BIP32 fingerprint of a public key: the
// first four bytes of the HASH160 of its compressed encoding, as hex.
func Fingerprint(raw []byte) (string, error) {
	compressed, err := Compress(raw)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", Hash160(compressed)[:4]), nil
}

// EncodeExtendedKey renders a 78-byte BIP32 serialized extended key in
// Base58Check, producing the familiar xpub/tpub string. The version
// bytes are part of the serialized key, so the checksum is appended to
// the payload as-is.
func EncodeExtendedKey(raw []byte) (string, error) {
	if len(raw) != extendedKeySize {
		return "", fmt.Errorf("extended key must be %d bytes, got %d", extendedKeySize, len(raw))
	}
	buf := make([]byte, 0, extendedKeySize+4)
	buf = append(buf, raw...)
	first := sha256.Sum256(raw)
	second := sha256.Sum256(first[:])
	buf = append(buf, second[:4]...)
	return base58.Encode(buf), nil
}

// VerifySignature checks a DER encoded ECDSA signature over a 32-byte
// digest against a public key. Used as a local sanity check after the
// card signs.
func VerifySignature(rawPub, digest, derSig []byte) error {
	if len(digest) != 32 {
		return fmt.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	pub, err := ParsePublicKey(rawPub)
	if err != nil {
		return err
	}
	sig, err := secpecdsa.ParseDERSignature(derSig)
	if err != nil {
		return fmt.Errorf("parse signature: %w", err)
	}
	if !sig.Verify(digest, pub) {
		return errors.New("signature does not verify against the derived public key")
	}
	return nil
}
