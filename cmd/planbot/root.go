package main

import (
	"fmt"

	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/planbot/core/cmd"
	coredatabase "github.com/m3rciful/planbot/core/database"
	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/internal/app"
	"github.com/m3rciful/planbot/internal/config"
)

const defaultConfigPath = "config.yaml"

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	ConfigPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "planbot",
		Short:         "Telegram bot for tasks, events and files",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(opts)
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config.yaml (falls back to $CONFIG_PATH)")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	return cmd
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(opts)
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
				return fmt.Errorf("logger init: %w", err)
			}
			defer func() { _ = logger.Shutdown() }()
			return coredatabase.RunMigrations(cfg.Database)
		},
	}
}

func runBot(opts *rootOptions) error {
	return corecmd.Run(corecmd.Options{
		ConfigPath:        opts.ConfigPath,
		DefaultConfigPath: defaultConfigPath,
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: app.Bootstrap,
	})
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	path, err := corecmd.ResolveConfigPath(opts.ConfigPath, "", defaultConfigPath)
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}
