// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ss58 validates substrate-style SS58 account identifiers, the
// address format used for validator hotkeys on the target chain.
package ss58

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/blake2b"
)

const (
	// checksumPreimage is prepended to the payload before hashing, per the
	// SS58 specification.
	checksumPreimage = "SS58PRE"

	pubKeyLen   = 32
	checksumLen = 2
)

var (
	ErrInvalidBase58   = errors.New("not a valid base58 string")
	ErrInvalidLength   = errors.New("decoded address has wrong length")
	ErrInvalidChecksum = errors.New("address checksum mismatch")
)

// Decode parses an SS58 address with a single-byte network prefix and
// returns the prefix and the 32-byte public key.
func Decode(addr string) (byte, []byte, error) {
	data := base58.Decode(addr)
	if len(data) == 0 {
		return 0, nil, ErrInvalidBase58
	}
	if len(data) != 1+pubKeyLen+checksumLen {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(data))
	}
	payload := data[:1+pubKeyLen]

	h, err := blake2b.New512(nil)
	if err != nil {
		return 0, nil, err
	}
	h.Write([]byte(checksumPreimage))
	h.Write(payload)
	sum := h.Sum(nil)

	if !bytes.Equal(sum[:checksumLen], data[1+pubKeyLen:]) {
		return 0, nil, ErrInvalidChecksum
	}
	return data[0], payload[1:], nil
}

// Validate checks that addr is a well-formed SS58 account identifier. The
// network prefix is not pinned: validators on finney and test share the
// generic substrate prefix, but foreign-prefix addresses are still
// structurally valid keys.
func Validate(addr string) error {
	_, _, err := Decode(addr)
	return err
}
