// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taostack/stakecycle/pkg/constants"
	"github.com/taostack/stakecycle/pkg/models"
	"github.com/taostack/stakecycle/pkg/tao"
)

const validValidator = "5E1nK3myeWNWrmffVaH76f2mCFCbe9VcHGwgkfdcD7k3E8D1"

func validConfig() RunConfig {
	return RunConfig{
		WalletName: "droplet",
		HotkeyName: "default",
		Validator:  validValidator,
		Amount:     tao.FromTAO(0.05),
		Subnet:     63,
		Network:    models.Finney,
		Mode:       models.Epoch,
		Epochs:     1,
	}
}

func TestValidateOK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{"empty wallet", func(c *RunConfig) { c.WalletName = "" }},
		{"empty hotkey", func(c *RunConfig) { c.HotkeyName = "" }},
		{"bad validator", func(c *RunConfig) { c.Validator = "not-an-address" }},
		{"below minimum", func(c *RunConfig) { c.Amount = tao.FromRao(1) }},
		{"no network", func(c *RunConfig) { c.Network = models.Undefined }},
		{"no mode", func(c *RunConfig) { c.Mode = models.ModeUndefined }},
		{"zero epochs", func(c *RunConfig) { c.Epochs = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestBlockModeIgnoresEpochs(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = models.Block
	cfg.Epochs = 0
	require.NoError(t, cfg.Validate())
	require.Equal(t, uint64(1), cfg.HoldBlocks())
}

func TestHoldBlocks(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = models.Epoch
	cfg.Epochs = 3
	require.Equal(t, uint64(3*360), cfg.HoldBlocks())
}

func TestWithDefaults(t *testing.T) {
	cfg := RunConfig{}.WithDefaults()
	require.Equal(t, constants.DefaultBridgeEndpoint, cfg.BridgeEndpoint)
	require.Equal(t, uint64(constants.DefaultFeeBufferPct), cfg.FeeBufferPct)
	require.Equal(t, constants.DefaultPollInterval, cfg.PollInterval)
	require.Equal(t, constants.DefaultCycleDelay, cfg.CycleDelay)
}
