// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/taostack/stakecycle/cmd/runcmd"
	"github.com/taostack/stakecycle/cmd/stakescmd"
	"github.com/taostack/stakecycle/cmd/unstakecmd"
	"github.com/taostack/stakecycle/pkg/application"
	"github.com/taostack/stakecycle/pkg/constants"
	"github.com/taostack/stakecycle/pkg/prompts"
	"github.com/taostack/stakecycle/pkg/ux"
)

var (
	app *application.App

	Version = "0.3.1"

	logLevel       string
	cfgFile        string
	nonInteractive bool
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use: "stakecycle",
		Long: `stakecycle - Automated subnet stake cycling for TAO.

The tool runs a stake/hold/unstake cycle against a validator on a chosen
subnet: it submits a stake, waits for the position to be held across the
configured number of blocks, then removes exactly the position the chain
reports. Chain access and wallet custody are delegated to a local wallet
bridge daemon.

COMMAND OVERVIEW:

  run       Run the stake/hold/unstake cycle (once or continuously)
  stakes    Show wallet balance and open stake positions
  unstake   Remove an existing stake position

QUICK START:

  # one full cycle, holding for one epoch
  stakecycle run --wallet droplet --validator 5E1nK3... --amount 0.05 --mode epoch --epochs 1

  # cycle forever, one block hold per cycle
  stakecycle run --wallet droplet --validator 5E1nK3... --amount 0.05 --mode block --continuous

  # inspect open positions
  stakecycle stakes --wallet droplet

For detailed command help, use: stakecycle <command> --help`,
		PersistentPreRunE: createApp,
		Version:           Version,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.stakecycle/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level for console output")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false,
		"disable prompts; fail if required values are missing")

	rootCmd.AddCommand(runcmd.NewCmd(app))
	rootCmd.AddCommand(stakescmd.NewCmd(app))
	rootCmd.AddCommand(unstakecmd.NewCmd(app))

	return rootCmd
}

func createApp(_ *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	log, err := setupLogging(baseDir)
	if err != nil {
		return err
	}

	userLog := ux.NewUserLog(log, os.Stdout)
	app.Setup(baseDir, log, userLog, prompts.NewPrompterForMode(nonInteractive))

	initConfig()
	return nil
}

func setupEnv() (string, error) {
	// Set base dir
	usr, err := user.Current()
	if err != nil {
		// no logger here yet
		fmt.Printf("unable to get system user %s\n", err)
		return "", err
	}
	baseDir := filepath.Join(usr.HomeDir, constants.BaseDirName)

	// Create base dir if it doesn't exist
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		// no logger here yet
		fmt.Printf("failed creating the basedir %s: %s\n", baseDir, err)
		return "", err
	}

	logDir := filepath.Join(baseDir, constants.LogDir)
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		fmt.Printf("failed creating the log dir %s: %s\n", logDir, err)
		return "", err
	}

	return baseDir, nil
}

// setupLogging builds the application logger: everything at debug and above
// goes to the log file as JSON, the console gets human-readable output at
// the level selected with --log-level.
func setupLogging(baseDir string) (*zap.SugaredLogger, error) {
	consoleLevel, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	logPath := filepath.Join(baseDir, constants.LogDir, constants.LogFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("failed opening log file %s: %w", logPath, err)
	}

	fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(consoleCfg)

	core := zapcore.NewTee(
		zapcore.NewCore(fileEncoder, zapcore.AddSync(logFile), zapcore.DebugLevel),
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stderr), consoleLevel),
	)
	return zap.New(core).Sugar(), nil
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in ~/.stakecycle/
		viper.AddConfigPath(app.GetBaseDir())
		viper.SetConfigType("json")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		app.Log.Debugw("using config file", "config-file", viper.ConfigFileUsed())
	}
}

func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// An interrupt is a clean shutdown, not a failure.
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		os.Exit(1)
	}
}
