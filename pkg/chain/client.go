// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chain defines the contract this tool expects from the external
// wallet bridge: wallet custody, signing, and all chain queries live behind
// it. The cycle runner only ever talks to this interface.
package chain

import (
	"context"

	"github.com/taostack/stakecycle/pkg/models"
	"github.com/taostack/stakecycle/pkg/tao"
)

// Session describes an unlocked wallet. The bridge keeps the signing
// credential unlocked for the life of the connection, so a session spans a
// whole cycle including multi-hour holds.
type Session struct {
	Coldkey string
	Hotkey  string
}

// StakeEntry is one (validator, subnet) position of the unlocked wallet.
type StakeEntry struct {
	Validator string
	Subnet    uint16
	Amount    tao.Amount
}

type Client interface {
	// Connect points the bridge at a chain network. Fails with
	// ErrConnection if the chain cannot be reached.
	Connect(ctx context.Context, network models.Network) error

	// UnlockWallet unlocks the named wallet/hotkey pair. An empty
	// credential is valid for keyfile-based or unencrypted wallets.
	// Fails with ErrAuth on a wrong credential.
	UnlockWallet(ctx context.Context, name, hotkey, credential string) (Session, error)

	// Balance returns the free balance of the unlocked wallet's coldkey.
	Balance(ctx context.Context) (tao.Amount, error)

	// BlockHeight returns the current height. Heights are monotonically
	// non-decreasing but may skip values between observations.
	BlockHeight(ctx context.Context) (uint64, error)

	// Stake returns the amount currently staked to validator on subnet.
	Stake(ctx context.Context, validator string, subnet uint16) (tao.Amount, error)

	// Stakes lists every nonzero position staked to validator across all
	// subnets.
	Stakes(ctx context.Context, validator string) ([]StakeEntry, error)

	// AddStake submits a stake extrinsic. Fails with *RejectedError on a
	// chain-level refusal.
	AddStake(ctx context.Context, validator string, subnet uint16, amount tao.Amount) error

	// RemoveStake submits an unstake extrinsic. Fails with *RejectedError
	// on a chain-level refusal.
	RemoveStake(ctx context.Context, validator string, subnet uint16, amount tao.Amount) error

	Close() error
}
