// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"fmt"

	"github.com/taostack/stakecycle/pkg/constants"
)

// StakeMode selects how long a cycle holds its position.
type StakeMode int64

const (
	ModeUndefined StakeMode = iota
	// Epoch holds for a configured number of epochs (360 blocks each).
	Epoch
	// Block holds for exactly one block.
	Block
)

func (m StakeMode) String() string {
	switch m {
	case Epoch:
		return "epoch"
	case Block:
		return "block"
	}
	return "unknown"
}

// HoldBlocks returns the hold duration in blocks. Both modes share the same
// wait loop; this is the only place they differ.
func (m StakeMode) HoldBlocks(epochs uint64) uint64 {
	switch m {
	case Epoch:
		return constants.BlocksPerEpoch * epochs
	case Block:
		return 1
	}
	return 0
}

func StakeModeFromString(s string) (StakeMode, error) {
	switch s {
	case "epoch":
		return Epoch, nil
	case "block":
		return Block, nil
	}
	return ModeUndefined, fmt.Errorf("unknown stake mode %q (use epoch or block)", s)
}
