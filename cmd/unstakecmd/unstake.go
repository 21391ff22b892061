// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package unstakecmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taostack/stakecycle/pkg/application"
	"github.com/taostack/stakecycle/pkg/chain"
	"github.com/taostack/stakecycle/pkg/chain/chainrpc"
	"github.com/taostack/stakecycle/pkg/constants"
	"github.com/taostack/stakecycle/pkg/models"
	"github.com/taostack/stakecycle/pkg/ss58"
)

var (
	app *application.App

	walletName     string
	hotkeyName     string
	validator      string
	subnet         uint16
	networkStr     string
	bridgeEndpoint string
	unstakeAll     bool
	skipConfirm    bool
)

func NewCmd(injectedApp *application.App) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "unstake",
		Short: "Remove an existing stake position",
		Long: `The unstake command removes a stake position. The amount removed is always
the position the chain reports at submission time, never a locally cached
value.

With --all every open position of the wallet is removed; a rejected
removal is reported and the remaining positions are still attempted.`,
		PreRunE:      bindFlags,
		RunE:         unstake,
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&walletName, "wallet", "", "coldkey wallet name")
	cmd.Flags().StringVar(&hotkeyName, "hotkey", "default", "hotkey name within the wallet")
	cmd.Flags().StringVar(&validator, "validator", "", "validator hotkey (SS58 address) of the position")
	cmd.Flags().Uint16Var(&subnet, "subnet", 0, "subnet id (netuid) of the position")
	cmd.Flags().StringVar(&networkStr, "network", "finney", "network to operate on [finney, test]")
	cmd.Flags().StringVar(&bridgeEndpoint, "bridge-endpoint", constants.DefaultBridgeEndpoint,
		"websocket endpoint of the local wallet bridge")
	cmd.Flags().BoolVar(&unstakeAll, "all", false, "remove every open stake position")
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "skip the confirmation prompt")
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

func unstake(cmd *cobra.Command, _ []string) error {
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
	if !unstakeAll {
		if validator == "" {
			validator, err = app.Prompt.CaptureValidatedString("Validator hotkey (SS58)", ss58.Validate)
			if err != nil {
				return err
			}
		} else if err := ss58.Validate(validator); err != nil {
			return err
		}
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

	before, err := client.Balance(ctx)
	if err != nil {
		return err
	}

	var targets []chain.StakeEntry
	if unstakeAll {
		if targets, err = client.Stakes(ctx, ""); err != nil {
			return err
		}
	} else {
		position, err := client.Stake(ctx, validator, subnet)
		if err != nil {
			return err
		}
		if !position.IsZero() {
			targets = []chain.StakeEntry{{Validator: validator, Subnet: subnet, Amount: position}}
		}
	}
	if len(targets) == 0 {
		app.UX.PrintToUser("No stake to remove.")
		return nil
	}

	for _, entry := range targets {
		app.UX.PrintToUser("Position: %s with %s on subnet %d", entry.Amount, entry.Validator, entry.Subnet)
	}
	if !skipConfirm {
		ok, err := app.Prompt.CaptureYesNo(fmt.Sprintf("Remove %d position(s)?", len(targets)))
		if err != nil {
			return err
		}
		if !ok {
			app.UX.PrintToUser("Aborted.")
			return nil
		}
	}

	var failed int
	for _, entry := range targets {
		// Re-query right before submitting: the accounted position moves
		// with the subnet price.
		position, err := client.Stake(ctx, entry.Validator, entry.Subnet)
		if err != nil {
			return err
		}
		if position.IsZero() {
			continue
		}
		if err := client.RemoveStake(ctx, entry.Validator, entry.Subnet, position); err != nil {
			var rejected *chain.RejectedError
			if errors.As(err, &rejected) {
				app.UX.RedXToUser("subnet %d: %v", entry.Subnet, err)
				failed++
				continue
			}
			return err
		}
		app.UX.GreenCheckmarkToUser("removed %s from subnet %d", position, entry.Subnet)
	}

	after, err := client.Balance(ctx)
	if err != nil {
		return err
	}
	if after > before {
		app.UX.PrintToUser("Recovered %s (balance %s)", after-before, after)
	}
	if failed > 0 {
		return fmt.Errorf("%d position(s) could not be removed", failed)
	}
	return nil
}
