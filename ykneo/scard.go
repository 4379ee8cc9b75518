/*
Copyright © 2025 The ykneobtc Authors

scard.go implements reader discovery and the PC/SC transport.

Reader selection is by regular expression over the PC/SC reader name;
the default pattern matches any YubiKey NEO. Connection failures on
individual readers are skipped so a matching reader further down the
list still works.
*/
package ykneo

import (
	"fmt"
	"regexp"

	"github.com/ebfe/scard"
)

// DefaultReaderPattern matches the PC/SC reader name of a YubiKey NEO.
const DefaultReaderPattern = `.*Yubikey NEO.*`

// cardTransport is a Transport over a connected PC/SC card.
type cardTransport struct {
	ctx    *scard.Context
	card   *scard.Card
	reader string
}

// Transmit implements Transport.
func (t *cardTransport) Transmit(apdu []byte) ([]byte, error) {
	return t.card.Transmit(apdu)
}

// close disconnects the card and releases the PC/SC context.
func (t *cardTransport) close() {
	_ = t.card.Disconnect(scard.LeaveCard)
	_ = t.ctx.Release()
}

// Open connects to the first reader whose name matches pattern and
// selects the ykneo-bitcoin applet on the card in it.
//
// An empty pattern uses DefaultReaderPattern. The returned close
// function disconnects the card and releases the PC/SC context; call
// it with defer.
func Open(pattern string) (*Key, func(), error) {
	if pattern == "" {
		pattern = DefaultReaderPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid reader pattern %q: %w", pattern, err)
	}

	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, nil, fmt.Errorf("establish PC/SC context: %w", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil {
		_ = ctx.Release()
		return nil, nil, fmt.Errorf("list readers: %w", err)
	}

	for _, reader := range readers {
		if !re.MatchString(reader) {
			continue
		}
		card, err := ctx.Connect(reader, scard.ShareShared, scard.ProtocolAny)
		if err != nil {
			// Reader matched but has no usable card; keep scanning.
			continue
		}
		t := &cardTransport{ctx: ctx, card: card, reader: reader}
		key, err := NewKey(t)
		if err != nil {
			t.close()
			return nil, nil, err
		}
		return key, t.close, nil
	}

	_ = ctx.Release()
	return nil, nil, &NoReaderError{Pattern: re.String()}
}
