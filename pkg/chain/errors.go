// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package chain

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection marks the chain (or the wallet bridge in front of it)
	// as unreachable. Fatal for the whole run: cycles are never retried
	// across a connection loss.
	ErrConnection = errors.New("chain unavailable")

	// ErrAuth is returned when the wallet credential is refused.
	ErrAuth = errors.New("wallet authentication failed")

	// ErrInsufficientBalance is raised locally, before the chain's stake
	// endpoint is ever contacted.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// RejectedError is a chain-level refusal of a stake or unstake submission,
// carrying the chain's reason string.
type RejectedError struct {
	Op     string // "stake" or "unstake"
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected by chain: %s", e.Op, e.Reason)
}
