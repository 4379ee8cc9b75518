/*
Copyright © 2025 The ykneobtc Authors

Package ykneo is a host-side client for the ykneo-bitcoin applet
running on a YubiKey NEO.

The applet stores a single BIP32 extended key pair and derives sub
keys from it on demand for public key retrieval and signing. Hardened
derivation is requested by setting the high bit of a child index, as
per the BIP32 specification.

Operations are gated by two PINs with independent retry counters:
  - user PIN: public key derivation, signing, header retrieval
  - admin PIN: key pair generation/import/export, user PIN reset,
    retry counter configuration

The client mirrors the unlock state host-side so that a command
attempted in a locked mode fails fast with PINLockedError instead of
burning a card round trip.

Example:

	key, closeFn, err := ykneo.Open("")
	if err != nil { ... }
	defer closeFn()
	if err := key.UnlockUser(pin); err != nil { ... }
	path, _ := ykneo.ParsePath("m/0/7")
	pub, err := key.GetPublicKey(path)
*/
package ykneo

import "fmt"

// aid is the application identifier of the ykneo-bitcoin applet.
var aid = []byte{0xa0, 0x00, 0x00, 0x05, 0x27, 0x21, 0x02}

// Transport moves a single command APDU to the card and returns the
// raw response including the trailing status word bytes.
// ykneobtc uses a PC/SC card behind this interface; tests substitute
// a scripted fake.
type Transport interface {
	Transmit(apdu []byte) ([]byte, error)
}

// Key is a session with the ykneo-bitcoin applet.
// It is not safe for concurrent use; the underlying card channel is
// strictly request/response.
type Key struct {
	t Transport

	version   [3]byte
	keyLoaded bool

	userUnlocked  bool
	adminUnlocked bool
}

// NewKey selects the ykneo-bitcoin applet over the given transport and
// returns a session handle.
//
// The SELECT response carries the applet version in its first three
// bytes and a key-loaded flag in the fourth.
func NewKey(t Transport) (*Key, error) {
	k := &Key{t: t}
	data, sw, err := k.transmit(0x00, insSelect, 0x04, 0x00, aid)
	if err != nil {
		return nil, err
	}
	if sw != swOK {
		return nil, &SelectError{SW: sw}
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("short SELECT response: %d bytes", len(data))
	}
	copy(k.version[:], data[:3])
	k.keyLoaded = data[3] == 1
	return k, nil
}

// Version returns the applet version as "major.minor.patch".
func (k *Key) Version() string {
	return fmt.Sprintf("%d.%d.%d", k.version[0], k.version[1], k.version[2])
}

// KeyLoaded reports whether a master key pair is present on the card.
func (k *Key) KeyLoaded() bool { return k.keyLoaded }

// UserUnlocked reports whether user mode is unlocked in this session.
func (k *Key) UserUnlocked() bool { return k.userUnlocked }

// AdminUnlocked reports whether admin mode is unlocked in this session.
func (k *Key) AdminUnlocked() bool { return k.adminUnlocked }

// transmit sends one APDU and splits the response into payload and
// status word.
func (k *Key) transmit(cla, ins, p1, p2 byte, data []byte) ([]byte, uint16, error) {
	apdu, err := encodeAPDU(cla, ins, p1, p2, data)
	if err != nil {
		return nil, 0, err
	}
	resp, err := k.t.Transmit(apdu)
	if err != nil {
		return nil, 0, fmt.Errorf("card transmit: %w", err)
	}
	return splitResponse(resp)
}

// command sends one APDU and requires a success status word.
func (k *Key) command(ins, p1, p2 byte, data []byte) ([]byte, error) {
	resp, sw, err := k.transmit(0x00, ins, p1, p2, data)
	if err != nil {
		return nil, err
	}
	if sw != swOK {
		return nil, &APDUError{SW: sw}
	}
	return resp, nil
}

// requireUser gates user-mode operations host-side.
func (k *Key) requireUser() error {
	if !k.userUnlocked {
		return &PINLockedError{Admin: false}
	}
	return nil
}

// requireAdmin gates admin-mode operations host-side.
func (k *Key) requireAdmin() error {
	if !k.adminUnlocked {
		return &PINLockedError{Admin: true}
	}
	return nil
}

// requireKey gates operations that need a master key on the card.
func (k *Key) requireKey() error {
	if !k.keyLoaded {
		return ErrNoKeyLoaded
	}
	return nil
}

// unlock verifies a PIN for the given mode and updates the host-side
// unlock flag. A 0x63Cx status clears the flag and surfaces the
// remaining attempt count.
func (k *Key) unlock(admin bool, pin string) error {
	unlocked := &k.userUnlocked
	p2 := byte(0x00)
	if admin {
		unlocked = &k.adminUnlocked
		p2 = 0x01
	}
	_, sw, err := k.transmit(0x00, insVerifyPIN, 0x00, p2, []byte(pin))
	if err != nil {
		return err
	}
	switch {
	case sw == swOK:
		*unlocked = true
		return nil
	case isWrongPIN(sw):
		*unlocked = false
		return &IncorrectPINError{Admin: admin, TriesRemaining: triesRemaining(sw)}
	default:
		return &APDUError{SW: sw}
	}
}

// UnlockUser verifies the user PIN, unlocking signing and public key
// derivation for the rest of the session.
func (k *Key) UnlockUser(pin string) error {
	return k.unlock(false, pin)
}

// UnlockAdmin verifies the admin PIN, unlocking key management
// operations for the rest of the session.
func (k *Key) UnlockAdmin(pin string) error {
	return k.unlock(true, pin)
}

// setPIN changes a PIN. The payload frames both PINs with one-byte
// length prefixes. A successful change also counts as a verification,
// so the corresponding mode ends up unlocked.
func (k *Key) setPIN(admin bool, oldPIN, newPIN string) error {
	unlocked := &k.userUnlocked
	p2 := byte(0x00)
	if admin {
		unlocked = &k.adminUnlocked
		p2 = 0x01
	}
	data := make([]byte, 0, 2+len(oldPIN)+len(newPIN))
	data = append(data, byte(len(oldPIN)))
	data = append(data, oldPIN...)
	data = append(data, byte(len(newPIN)))
	data = append(data, newPIN...)

	_, sw, err := k.transmit(0x00, insSetPIN, 0x00, p2, data)
	if err != nil {
		return err
	}
	switch {
	case sw == swOK:
		*unlocked = true
		return nil
	case isWrongPIN(sw):
		*unlocked = false
		return &IncorrectPINError{Admin: admin, TriesRemaining: triesRemaining(sw)}
	default:
		return &APDUError{SW: sw}
	}
}

// SetUserPIN changes the user PIN after verifying the current one.
func (k *Key) SetUserPIN(oldPIN, newPIN string) error {
	return k.setPIN(false, oldPIN, newPIN)
}

// SetAdminPIN changes the admin PIN after verifying the current one.
func (k *Key) SetAdminPIN(oldPIN, newPIN string) error {
	return k.setPIN(true, oldPIN, newPIN)
}

// ResetUserPIN sets a new user PIN and resets its retry counter.
// Requires admin mode.
func (k *Key) ResetUserPIN(newPIN string) error {
	if err := k.requireAdmin(); err != nil {
		return err
	}
	_, err := k.command(insResetUserPIN, 0x00, 0x00, []byte(newPIN))
	return err
}

// setRetryCount configures the maximum attempt count for a PIN.
// Requires admin mode; the applet accepts 1 through 15.
func (k *Key) setRetryCount(admin bool, attempts int) error {
	if err := k.requireAdmin(); err != nil {
		return err
	}
	if attempts < 1 || attempts > 15 {
		return fmt.Errorf("retry count must be 1-15, got %d", attempts)
	}
	p2 := byte(0x00)
	if admin {
		p2 = 0x01
	}
	_, err := k.command(insSetRetries, 0x00, p2, []byte{byte(attempts)})
	return err
}

// SetUserRetryCount configures the user PIN retry counter (1-15).
func (k *Key) SetUserRetryCount(attempts int) error {
	return k.setRetryCount(false, attempts)
}

// SetAdminRetryCount configures the admin PIN retry counter (1-15).
func (k *Key) SetAdminRetryCount(attempts int) error {
	return k.setRetryCount(true, attempts)
}

// Generation option bits for the P2 parameter of the generate command.
const (
	genAllowExport   byte = 0x01
	genReturnPrivate byte = 0x02
	genTestnet       byte = 0x04
)

// GenerateMasterKeyPair creates a new extended master key pair on the
// card. Requires admin mode.
//
// allowExport permits later ExportExtendedPublicKey calls.
// returnPrivate makes the card include the serialized private key in
// the response; otherwise only the public part is returned.
// testnet selects testnet version bytes for the serialized key.
func (k *Key) GenerateMasterKeyPair(allowExport, returnPrivate, testnet bool) ([]byte, error) {
	if err := k.requireAdmin(); err != nil {
		return nil, err
	}
	var p2 byte
	if allowExport {
		p2 |= genAllowExport
	}
	if returnPrivate {
		p2 |= genReturnPrivate
	}
	if testnet {
		p2 |= genTestnet
	}
	resp, err := k.command(insGenerateKey, 0x00, p2, nil)
	if err != nil {
		return nil, err
	}
	k.keyLoaded = true
	return resp, nil
}

// ImportExtendedKeyPair loads a BIP32 serialized extended private key
// onto the card. Requires admin mode.
func (k *Key) ImportExtendedKeyPair(serialized []byte, allowExport bool) error {
	if err := k.requireAdmin(); err != nil {
		return err
	}
	p2 := byte(0x00)
	if allowExport {
		p2 = 0x01
	}
	if _, err := k.command(insImportKey, 0x00, p2, serialized); err != nil {
		return err
	}
	k.keyLoaded = true
	return nil
}

// ExportExtendedPublicKey returns the BIP32 serialized extended public
// key of the master key pair. Requires admin mode and a key pair that
// was created with export allowed.
func (k *Key) ExportExtendedPublicKey() ([]byte, error) {
	if err := k.requireAdmin(); err != nil {
		return nil, err
	}
	return k.command(insExportKey, 0x00, 0x00, nil)
}

// GetPublicKey derives the sub key at path and returns its
// uncompressed public key. Requires user mode and a loaded key.
func (k *Key) GetPublicKey(path []uint32) ([]byte, error) {
	if err := k.requireUser(); err != nil {
		return nil, err
	}
	if err := k.requireKey(); err != nil {
		return nil, err
	}
	return k.command(insGetPublicKey, 0x00, 0x00, PackPath(path))
}

// Sign signs a 32-byte digest with the sub key at path and returns the
// DER encoded ECDSA signature. Requires user mode and a loaded key.
func (k *Key) Sign(path []uint32, digest []byte) ([]byte, error) {
	if err := k.requireUser(); err != nil {
		return nil, err
	}
	if err := k.requireKey(); err != nil {
		return nil, err
	}
	if len(digest) != 32 {
		return nil, fmt.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	data := append(PackPath(path), digest...)
	return k.command(insSign, 0x00, 0x00, data)
}

// GetHeader returns the card's BIP32 serialization header data.
// Requires user mode and a loaded key.
func (k *Key) GetHeader() ([]byte, error) {
	if err := k.requireUser(); err != nil {
		return nil, err
	}
	if err := k.requireKey(); err != nil {
		return nil, err
	}
	return k.command(insGetHeader, 0x00, 0x00, nil)
}
