// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package stakescmd

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taostack/stakecycle/pkg/application"
	"github.com/taostack/stakecycle/pkg/chain/chainrpc"
	"github.com/taostack/stakecycle/pkg/constants"
	"github.com/taostack/stakecycle/pkg/models"
)

var (
	app *application.App

	walletName     string
	hotkeyName     string
	validator      string
	networkStr     string
	bridgeEndpoint string
)

func NewCmd(injectedApp *application.App) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "stakes",
		Short: "Show wallet balance and open stake positions",
		Long: `The stakes command prints the wallet's free balance and every open stake
position, as accounted by the chain. Use --validator to restrict the
listing to positions with a single validator.`,
		PreRunE:      bindFlags,
		RunE:         listStakes,
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&walletName, "wallet", "", "coldkey wallet name")
	cmd.Flags().StringVar(&hotkeyName, "hotkey", "default", "hotkey name within the wallet")
	cmd.Flags().StringVar(&validator, "validator", "", "only show positions with this validator")
	cmd.Flags().StringVar(&networkStr, "network", "finney", "network to operate on [finney, test]")
	cmd.Flags().StringVar(&bridgeEndpoint, "bridge-endpoint", constants.DefaultBridgeEndpoint,
		"websocket endpoint of the local wallet bridge")
	return cmd
}

// bindFlags binds at invocation time so viper reads this command's flag
// instances, not a sibling's flags of the same name.
func bindFlags(cmd *cobra.Command, _ []string) error {
	for _, flag := range []string{"wallet", "network"} {
		if err := viper.BindPFlag(flag, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

func listStakes(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	wallet := viper.GetString("wallet")
	if wallet == "" {
		var err error
		if wallet, err = app.Prompt.CaptureString("Wallet name"); err != nil {
			return err
		}
	}
	network, err := models.NetworkFromString(viper.GetString("network"))
	if err != nil {
		return err
	}

	client, err := chainrpc.Dial(ctx, bridgeEndpoint, app.Log)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Connect(ctx, network); err != nil {
		return err
	}
	credential := os.Getenv("STAKECYCLE_WALLET_PASSWORD")
	if _, err := client.UnlockWallet(ctx, wallet, hotkeyName, credential); err != nil {
		return err
	}

	balance, err := client.Balance(ctx)
	if err != nil {
		return err
	}
	app.UX.PrintToUser("Wallet %s on %s", wallet, network)
	app.UX.PrintToUser("Free balance: %s", balance)

	entries, err := client.Stakes(ctx, validator)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		app.UX.PrintToUser("No open stake positions.")
		return nil
	}

	app.UX.PrintLineSeparator()
	table := tablewriter.NewWriter(os.Stdout)
	_ = table.Append([]string{"VALIDATOR", "SUBNET", "STAKE"})
	for _, entry := range entries {
		_ = table.Append([]string{
			entry.Validator,
			strconv.Itoa(int(entry.Subnet)),
			entry.Amount.String(),
		})
	}
	_ = table.Render()
	return nil
}
