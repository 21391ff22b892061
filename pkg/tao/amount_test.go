// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package tao

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTAO(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"0.05", 50_000_000, false},
		{"1", 1_000_000_000, false},
		{"0.7012", 701_200_000, false},
		{"0", 0, false},
		{"0.000000001", 1, false},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			a, err := ParseTAO(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, a.Rao())
		})
	}
}

func TestWithBuffer(t *testing.T) {
	// 0.05 TAO with a 5% buffer must require 0.0525 TAO.
	a := FromTAO(0.05)
	require.Equal(t, uint64(52_500_000), a.WithBuffer(5).Rao())

	// Zero buffer leaves the amount unchanged.
	require.Equal(t, a, a.WithBuffer(0))

	// Rounds up: 3 rao at 5% still adds one rao.
	require.Equal(t, uint64(4), FromRao(3).WithBuffer(5).Rao())
}

func TestString(t *testing.T) {
	require.Equal(t, "0.05 TAO", FromTAO(0.05).String())
	require.Equal(t, "2 TAO", FromTAO(2).String())
	require.Equal(t, "0.7012 TAO", FromTAO(0.7012).String())
	require.Equal(t, "0 TAO", Amount(0).String())
	require.Equal(t, "1.000000001 TAO", FromRao(1_000_000_001).String())
}
