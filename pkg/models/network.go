// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"fmt"

	"github.com/taostack/stakecycle/pkg/constants"
	"github.com/taostack/stakecycle/pkg/tao"
)

type Network int64

const (
	Undefined Network = iota
	Finney
	Test
)

func (n Network) String() string {
	switch n {
	case Finney:
		return "finney"
	case Test:
		return "test"
	}
	return "unknown"
}

// ChainEndpoint returns the websocket endpoint of the chain itself. The
// wallet bridge is told to connect here; this process never dials it
// directly.
func (n Network) ChainEndpoint() string {
	switch n {
	case Finney:
		return constants.FinneyChainEndpoint
	case Test:
		return constants.TestChainEndpoint
	}
	return ""
}

// MinStake returns the protocol minimum for a single stake operation on
// this network.
func (n Network) MinStake() tao.Amount {
	switch n {
	case Finney:
		return tao.FromRao(500_000) // 0.0005 TAO
	case Test:
		return tao.FromRao(1_000)
	}
	return 0
}

func NetworkFromString(s string) (Network, error) {
	switch s {
	case "finney", "mainnet":
		return Finney, nil
	case "test", "testnet":
		return Test, nil
	}
	return Undefined, fmt.Errorf("unknown network %q (use finney or test)", s)
}
