// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package unstakecmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/taostack/stakecycle/pkg/application"
)

// Binding happens in PreRunE so the wallet/network keys point at this
// command's flags even when sibling commands declare the same names.
func TestFlagsBindToOwnInstances(t *testing.T) {
	viper.Reset()

	c := NewCmd(application.New())
	require.NoError(t, c.ParseFlags([]string{"--wallet", "droplet", "--network", "finney"}))
	require.NoError(t, c.PreRunE(c, nil))

	require.Equal(t, "droplet", viper.GetString("wallet"))
	require.Equal(t, "finney", viper.GetString("network"))
}
