package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pushchain/bridge-gas-oracle/gasClient/config"
	"github.com/pushchain/bridge-gas-oracle/gasClient/core"
	"github.com/pushchain/bridge-gas-oracle/gasClient/errors"
	"github.com/pushchain/bridge-gas-oracle/gasClient/logger"
)

const (
	flagHome   = "home"
	flagChains = "chains"
	flagForce  = "force"
)

// Set at build time with -ldflags "-X main.Version=..."
var (
	Version = "dev"
	Commit  = ""
)

func InitRootCmd(rootCmd *cobra.Command) {
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())
}

// loadConfig reads <home>/config/pgas_config.json, or the embedded defaults
// when no file exists, then applies environment overrides and validates.
func loadConfig(home string) (*config.Config, bool, error) {
	fromFile := true
	cfg, err := config.Load(home)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, false, err
		}
		def, derr := config.LoadDefaultConfig()
		if derr != nil {
			return nil, false, derr
		}
		cfg = *def
		fromFile = false
	}
	cfg.NodeHome = home

	if err := config.ApplyEnv(&cfg, viper.New()); err != nil {
		return nil, false, errors.Wrap(err, "invalid environment override")
	}
	if err := config.Validate(&cfg); err != nil {
		return nil, false, errors.Wrap(err, "invalid config")
	}
	return &cfg, fromFile, nil
}

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start refreshing gas prices and serve them over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, _ := cmd.Flags().GetString(flagHome)
			chains, _ := cmd.Flags().GetStringSlice(flagChains)

			cfg, fromFile, err := loadConfig(home)
			if err != nil {
				return err
			}

			log := logger.Init(*cfg)
			if !fromFile {
				log.Warn().Str("home", home).Msg("no config file found, using embedded defaults")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := core.NewGasClient(ctx, cfg, log)
			if err != nil {
				return errors.Wrap(err, "failed to create gas client")
			}
			return client.Start(ctx, chains...)
		},
	}
	cmd.Flags().StringSlice(flagChains, nil, "chains to start (default: every configured chain)")
	return cmd
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config to <home>/config/pgas_config.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, _ := cmd.Flags().GetString(flagHome)
			force, _ := cmd.Flags().GetBool(flagForce)

			if !force {
				if _, err := config.Load(home); err == nil {
					return fmt.Errorf("config already exists in %s, use --%s to overwrite", home, flagForce)
				}
			}

			cfg, err := config.LoadDefaultConfig()
			if err != nil {
				return err
			}
			if err := config.Save(cfg, home); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config written to %s/config\n", home)
			return nil
		},
	}
	cmd.Flags().Bool(flagForce, false, "overwrite an existing config")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print pgasd version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Name:       %s\n", "pgasd")
			fmt.Fprintf(cmd.OutOrStdout(), "Version:    %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Commit:     %s\n", Commit)
		},
	}
}
