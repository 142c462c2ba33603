package cli

import (
	"fmt"
	"log/slog"

	"github.com/me/shopctl/internal/app"
	"github.com/me/shopctl/internal/config"
	"github.com/me/shopctl/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagAPI       string
	flagStateDir  string
	flagStorage   string
	flagConfig    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger      *slog.Logger
	application *app.App
)

// NewRootCmd creates the root cobra command for the shop CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shop",
		Short: "Storefront client for the marketplace API",
		Long:  "shop signs in to the marketplace API, browses products, manages the cart and, for admins, the catalogue.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			logger = logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

			application, err = app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if application == nil {
				return nil
			}
			err := application.Close()
			application = nil
			return err
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagAPI, "api", "", "API base URL (or SHOP_API_URL env)")
	root.PersistentFlags().StringVar(&flagStateDir, "state-dir", "", "Directory holding the persisted session (default ~/.shop)")
	root.PersistentFlags().StringVar(&flagStorage, "storage", "", "Session storage backend: file, sqlite, memory")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.shop/config.yaml)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newRegisterCmd(),
		newProductsCmd(),
		newCartCmd(),
		newAdminCmd(),
	)

	return root
}

// resolveConfig layers command-line flags over config.Load.
func resolveConfig(cmd *cobra.Command) (config.ClientConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("api") {
		cfg.APIURL = flagAPI
	}
	if flags.Changed("state-dir") {
		cfg.StateDir = flagStateDir
	}
	if flags.Changed("storage") {
		cfg.Storage = flagStorage
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = flagLogFormat
	}
	if flagDebug {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}
