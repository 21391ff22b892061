// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package ss58

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeValidAddresses(t *testing.T) {
	// Real validator hotkeys seen on finney.
	addrs := []string{
		"5E1nK3myeWNWrmffVaH76f2mCFCbe9VcHGwgkfdcD7k3E8D1",
		"5D7aRtpmVBKsQRzMA2ioUPL25onJPzBjiFVVt5uPZ3TDsn51",
		"5E2LP6EnZ54m3wS8s1yPvD5c3xo71kQroBw7aUVK32TKeZ5u",
	}
	for _, addr := range addrs {
		prefix, pubkey, err := Decode(addr)
		require.NoError(t, err, addr)
		require.EqualValues(t, 42, prefix)
		require.Len(t, pubkey, 32)
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	valid := "5E1nK3myeWNWrmffVaH76f2mCFCbe9VcHGwgkfdcD7k3E8D1"

	// Flip one character: checksum must fail.
	corrupted := "5F" + valid[2:]
	err := Validate(corrupted)
	require.Error(t, err)

	// Truncated address.
	require.ErrorIs(t, Validate(valid[:20]), ErrInvalidLength)

	// Characters outside the base58 alphabet.
	require.ErrorIs(t, Validate("0OIl"), ErrInvalidBase58)

	require.Error(t, Validate(""))
}
