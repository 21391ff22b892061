// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "time"

const (
	BaseDirName = ".stakecycle"
	LogDir      = "logs"
	LogFileName = "stakecycle.log"

	DefaultPerms755 = 0o755

	// EnvPrefix is the prefix for all environment configuration,
	// e.g. STAKECYCLE_WALLET_NAME.
	EnvPrefix = "STAKECYCLE"

	// BlocksPerEpoch is the protocol-defined epoch length. Staking rewards
	// are distributed to accounts that held stake for a full epoch.
	BlocksPerEpoch = 360

	// RaoPerTAO is the denomination of the native token: 1 TAO = 1e9 rao.
	RaoPerTAO = 1_000_000_000

	// NominalBlockTime is the chain's target block production rate. The
	// wait loop compares absolute heights and never counts on this being
	// exact; it is only used for poll pacing and ETA estimates.
	NominalBlockTime = 12 * time.Second

	DefaultPollInterval   = 12 * time.Second
	ConfirmPollInterval   = 3 * time.Second
	DefaultProgressEvery  = time.Minute
	DefaultCycleDelay     = 60 * time.Second
	DefaultFeeBufferPct   = 5
	DefaultBridgeEndpoint = "ws://127.0.0.1:7933"

	FinneyChainEndpoint = "wss://entrypoint-finney.opentensor.ai:443"
	TestChainEndpoint   = "wss://test.finney.opentensor.ai:443"

	DialTimeout = 30 * time.Second

	// SS58Prefix is the network byte carried by substrate-style account
	// identifiers on this chain.
	SS58Prefix = 42
)
