// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the immutable run configuration. It is constructed
// once at startup from flags, environment and prompts, validated, and then
// passed explicitly into the cycle runner; nothing in the loop reads
// ambient process state.
package config

import (
	"fmt"
	"time"

	"github.com/taostack/stakecycle/pkg/constants"
	"github.com/taostack/stakecycle/pkg/models"
	"github.com/taostack/stakecycle/pkg/ss58"
	"github.com/taostack/stakecycle/pkg/tao"
)

type RunConfig struct {
	WalletName string
	HotkeyName string
	Validator  string
	Amount     tao.Amount
	Subnet     uint16
	Network    models.Network
	Mode       models.StakeMode
	Epochs     uint64
	Continuous bool
	// Credential unlocks the wallet; empty means an unencrypted or
	// keyfile-based wallet.
	Credential string

	BridgeEndpoint  string
	FeeBufferPct    uint64
	PollInterval    time.Duration
	ConfirmInterval time.Duration
	ProgressEvery   time.Duration
	CycleDelay      time.Duration
}

// WithDefaults fills in zero-valued operational knobs.
func (c RunConfig) WithDefaults() RunConfig {
	if c.BridgeEndpoint == "" {
		c.BridgeEndpoint = constants.DefaultBridgeEndpoint
	}
	if c.FeeBufferPct == 0 {
		c.FeeBufferPct = constants.DefaultFeeBufferPct
	}
	if c.PollInterval == 0 {
		c.PollInterval = constants.DefaultPollInterval
	}
	if c.ConfirmInterval == 0 {
		c.ConfirmInterval = constants.ConfirmPollInterval
	}
	if c.ProgressEvery == 0 {
		c.ProgressEvery = constants.DefaultProgressEvery
	}
	if c.CycleDelay == 0 {
		c.CycleDelay = constants.DefaultCycleDelay
	}
	return c
}

// Validate reports configuration errors before any chain interaction.
func (c RunConfig) Validate() error {
	if c.WalletName == "" {
		return fmt.Errorf("wallet name is required")
	}
	if c.HotkeyName == "" {
		return fmt.Errorf("hotkey name is required")
	}
	if err := ss58.Validate(c.Validator); err != nil {
		return fmt.Errorf("invalid validator address %q: %w", c.Validator, err)
	}
	if c.Network != models.Finney && c.Network != models.Test {
		return fmt.Errorf("network is required")
	}
	if min := c.Network.MinStake(); c.Amount < min {
		return fmt.Errorf("stake amount %s is below the %s network minimum of %s", c.Amount, c.Network, min)
	}
	switch c.Mode {
	case models.Epoch:
		if c.Epochs == 0 {
			return fmt.Errorf("epoch count must be positive in epoch mode")
		}
	case models.Block:
		// epoch count is ignored
	default:
		return fmt.Errorf("stake mode is required")
	}
	return nil
}

// HoldBlocks returns the configured hold duration in blocks.
func (c RunConfig) HoldBlocks() uint64 {
	return c.Mode.HoldBlocks(c.Epochs)
}
