// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package runcmd

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taostack/stakecycle/pkg/application"
	"github.com/taostack/stakecycle/pkg/chain/chainrpc"
	"github.com/taostack/stakecycle/pkg/config"
	"github.com/taostack/stakecycle/pkg/constants"
	"github.com/taostack/stakecycle/pkg/cycle"
	"github.com/taostack/stakecycle/pkg/models"
	"github.com/taostack/stakecycle/pkg/ss58"
	"github.com/taostack/stakecycle/pkg/tao"
)

const (
	walletFlag     = "wallet"
	hotkeyFlag     = "hotkey"
	validatorFlag  = "validator"
	amountFlag     = "amount"
	subnetFlag     = "subnet"
	networkFlag    = "network"
	modeFlag       = "mode"
	epochsFlag     = "epochs"
	continuousFlag = "continuous"
	feeBufferFlag  = "fee-buffer"
	pollFlag       = "poll-interval"
	cycleDelayFlag = "cycle-delay"
	bridgeFlag     = "bridge-endpoint"

	// The wallet credential is never a flag: it would land in shell
	// history and process listings.
	envCredential = "STAKECYCLE_WALLET_PASSWORD"
)

var (
	app *application.App

	walletName     string
	hotkeyName     string
	validator      string
	amountStr      string
	subnet         uint16
	networkStr     string
	modeStr        string
	epochs         uint64
	continuous     bool
	feeBufferPct   uint64
	pollInterval   time.Duration
	cycleDelay     time.Duration
	bridgeEndpoint string
)

func NewCmd(injectedApp *application.App) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the stake/hold/unstake cycle",
		Long: `The run command stakes the configured amount with a validator, holds the
position until the chain reaches the target height, then unstakes exactly
the position the chain reports. With --continuous it repeats the cycle
until interrupted.

In epoch mode the position is held for --epochs full epochs (360 blocks
each); in block mode it is held for a single block and --epochs is ignored.

Missing values are prompted for interactively. Every flag can also be set
through the environment with the STAKECYCLE_ prefix, e.g.
STAKECYCLE_WALLET=droplet. The wallet password is read from
STAKECYCLE_WALLET_PASSWORD or prompted, never passed as a flag.`,
		PreRunE:      bindFlags,
		RunE:         runCycle,
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&walletName, walletFlag, "", "coldkey wallet name")
	cmd.Flags().StringVar(&hotkeyName, hotkeyFlag, "default", "hotkey name within the wallet")
	cmd.Flags().StringVar(&validator, validatorFlag, "", "validator hotkey (SS58 address) to stake with")
	cmd.Flags().StringVar(&amountStr, amountFlag, "", "amount to stake each cycle, in TAO")
	cmd.Flags().Uint16Var(&subnet, subnetFlag, 0, "subnet id (netuid) to stake on")
	cmd.Flags().StringVar(&networkStr, networkFlag, "finney", "network to operate on [finney, test]")
	cmd.Flags().StringVar(&modeStr, modeFlag, "", "hold duration mode [epoch, block]")
	cmd.Flags().Uint64Var(&epochs, epochsFlag, 1, "number of full epochs to hold (epoch mode only)")
	cmd.Flags().BoolVar(&continuous, continuousFlag, false, "repeat the cycle until interrupted")
	cmd.Flags().Uint64Var(&feeBufferPct, feeBufferFlag, constants.DefaultFeeBufferPct,
		"percentage of the stake amount kept free for transaction fees")
	cmd.Flags().DurationVar(&pollInterval, pollFlag, constants.DefaultPollInterval,
		"how often to poll the block height while holding")
	cmd.Flags().DurationVar(&cycleDelay, cycleDelayFlag, constants.DefaultCycleDelay,
		"pause between cycles in continuous mode")
	cmd.Flags().StringVar(&bridgeEndpoint, bridgeFlag, constants.DefaultBridgeEndpoint,
		"websocket endpoint of the local wallet bridge")

	return cmd
}

// bindFlags binds this command's flags to viper at invocation time. The
// sibling commands declare flags with the same names; binding from PreRunE
// instead of NewCmd keeps viper pointed at the flag instances of the
// command actually being run.
func bindFlags(cmd *cobra.Command, _ []string) error {
	for _, flag := range []string{
		walletFlag, hotkeyFlag, validatorFlag, amountFlag, subnetFlag,
		networkFlag, modeFlag, epochsFlag, continuousFlag, bridgeFlag,
	} {
		if err := viper.BindPFlag(flag, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

func runCycle(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()

	client, err := chainrpc.Dial(ctx, cfg.BridgeEndpoint, app.Log)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Connect(ctx, cfg.Network); err != nil {
		return err
	}
	app.UX.PrintToUser("Connected to %s (%s)", cfg.Network, cfg.Network.ChainEndpoint())

	session, err := client.UnlockWallet(ctx, cfg.WalletName, cfg.HotkeyName, cfg.Credential)
	if err != nil {
		return err
	}
	app.UX.PrintToUser("Wallet %s unlocked (coldkey %s)", cfg.WalletName, session.Coldkey)

	return cycle.New(client, cfg, app.Log, app.UX).Run(ctx)
}

// buildConfig assembles the run configuration from flags, environment and,
// for anything still missing, interactive prompts.
func buildConfig(cmd *cobra.Command) (config.RunConfig, error) {
	var (
		cfg config.RunConfig
		err error
	)

	cfg.WalletName = viper.GetString(walletFlag)
	if cfg.WalletName == "" {
		if cfg.WalletName, err = app.Prompt.CaptureString("Wallet name"); err != nil {
			return cfg, err
		}
	}
	cfg.HotkeyName = viper.GetString(hotkeyFlag)

	cfg.Validator = viper.GetString(validatorFlag)
	if cfg.Validator == "" {
		cfg.Validator, err = app.Prompt.CaptureValidatedString("Validator hotkey (SS58)", ss58.Validate)
		if err != nil {
			return cfg, err
		}
	}

	amount := viper.GetString(amountFlag)
	if amount == "" {
		v, err := app.Prompt.CaptureFloat("Amount to stake (TAO)", func(v float64) error {
			if v <= 0 {
				return fmt.Errorf("amount must be positive")
			}
			return nil
		})
		if err != nil {
			return cfg, err
		}
		cfg.Amount = tao.FromTAO(v)
	} else {
		if cfg.Amount, err = tao.ParseTAO(amount); err != nil {
			return cfg, err
		}
	}

	subnetVal := viper.GetUint64(subnetFlag)
	if subnetVal > math.MaxUint16 {
		return cfg, fmt.Errorf("subnet id %d out of range (max %d)", subnetVal, math.MaxUint16)
	}
	cfg.Subnet = uint16(subnetVal)
	if cfg.Subnet == 0 && !cmd.Flags().Changed(subnetFlag) {
		// Zero is a real netuid (the root subnet); the prompt accepts it.
		n, err := app.Prompt.CaptureUint64("Subnet id (netuid)", func(v uint64) error {
			if v > math.MaxUint16 {
				return fmt.Errorf("subnet id %d out of range (max %d)", v, math.MaxUint16)
			}
			return nil
		})
		if err != nil {
			return cfg, err
		}
		cfg.Subnet = uint16(n)
	}

	if cfg.Network, err = models.NetworkFromString(viper.GetString(networkFlag)); err != nil {
		return cfg, err
	}

	mode := viper.GetString(modeFlag)
	if mode == "" {
		mode, err = app.Prompt.CaptureList("Hold duration mode", []string{"epoch", "block"})
		if err != nil {
			return cfg, err
		}
	}
	if cfg.Mode, err = models.StakeModeFromString(mode); err != nil {
		return cfg, err
	}
	cfg.Epochs = viper.GetUint64(epochsFlag)

	cfg.Continuous = viper.GetBool(continuousFlag)
	cfg.FeeBufferPct = feeBufferPct
	cfg.PollInterval = pollInterval
	cfg.CycleDelay = cycleDelay
	cfg.BridgeEndpoint = viper.GetString(bridgeFlag)

	if cfg.Credential = os.Getenv(envCredential); cfg.Credential == "" {
		// An empty credential is valid for keyfile wallets, so an empty
		// answer here is accepted.
		prompt := fmt.Sprintf("Password for wallet %q (empty for keyfile wallets)", cfg.WalletName)
		if cfg.Credential, err = app.Prompt.CapturePassword(prompt); err != nil {
			return cfg, err
		}
	}

	return cfg.WithDefaults(), nil
}
