// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tao handles native-token amounts. Everything that crosses the
// chain boundary is denominated in rao (1 TAO = 1e9 rao); TAO values only
// appear at the configuration and display edges.
package tao

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/taostack/stakecycle/pkg/constants"
)

// Amount is a quantity of the native token in rao.
type Amount uint64

func FromRao(rao uint64) Amount {
	return Amount(rao)
}

// FromTAO converts a TAO value to rao, rounding to the nearest rao.
func FromTAO(t float64) Amount {
	return Amount(math.Round(t * constants.RaoPerTAO))
}

// ParseTAO parses a decimal TAO string such as "0.05".
func ParseTAO(s string) (Amount, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return FromTAO(f), nil
}

func (a Amount) Rao() uint64 {
	return uint64(a)
}

func (a Amount) TAO() float64 {
	return float64(a) / constants.RaoPerTAO
}

func (a Amount) IsZero() bool {
	return a == 0
}

// WithBuffer returns the amount grown by pct percent, used for the fee
// margin preflight. Integer math, rounding up, so a zero buffer on a
// nonzero amount never shrinks it.
func (a Amount) WithBuffer(pct uint64) Amount {
	extra := (uint64(a)*pct + 99) / 100
	return a + Amount(extra)
}

// String renders the amount as a decimal TAO value with trailing zeros
// trimmed, e.g. "0.05 TAO".
func (a Amount) String() string {
	whole := uint64(a) / constants.RaoPerTAO
	frac := uint64(a) % constants.RaoPerTAO
	if frac == 0 {
		return fmt.Sprintf("%d TAO", whole)
	}
	f := strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
	return fmt.Sprintf("%d.%s TAO", whole, f)
}
