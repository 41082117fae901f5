// Package commands defines the blendtrack command line.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/blendtrack/pkg/infrastructure/config"
	"github.com/vsinha/blendtrack/pkg/infrastructure/logger"
	"github.com/vsinha/blendtrack/pkg/interfaces/cli/app"
)

type rootOptions struct {
	envFile  string
	logLevel string
	logJSON  bool
	store    string
	seedDir  string

	cfg *config.Config
	log logger.Logger
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "blendtrack",
		Short:         "Track chemical blends through production",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "Environment file to load before reading BLENDTRACK_ variables")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error, disabled")
	flags.BoolVar(&opts.logJSON, "log-json", false, "Log as JSON")
	flags.StringVar(&opts.store, "store", "", "Storage backend: memory or postgres")
	flags.StringVar(&opts.seedDir, "seed", "", "Scenario directory seeded into the store before running")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newBlendsCommand(opts),
		newStatusesCommand(opts),
	)
	return root
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	loaderOpts := []config.LoaderOption{config.WithEnvFile(o.envFile)}
	if cmd.Flags().Changed("log-level") {
		loaderOpts = append(loaderOpts, config.WithOverride("log.level", o.logLevel))
	}
	if cmd.Flags().Changed("log-json") {
		loaderOpts = append(loaderOpts, config.WithOverride("log.json", o.logJSON))
	}
	if cmd.Flags().Changed("store") {
		loaderOpts = append(loaderOpts, config.WithOverride("store", o.store))
	}

	cfg, err := config.Load(loaderOpts...)
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = level
	logCfg.JSON = cfg.Log.JSON
	logCfg.AddSource = cfg.Log.AddSource
	logCfg.Output = cmd.ErrOrStderr()
	o.log = logger.NewLogger(logCfg)
	logger.SetDefault(o.log)
	o.cfg = cfg

	cmd.SetContext(logger.ContextWithLogger(cmd.Context(), o.log))
	return nil
}

// openApp builds the application and applies --seed when given
func (o *rootOptions) openApp(ctx context.Context) (*app.App, error) {
	a, err := app.New(ctx, o.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start: %w", err)
	}
	if o.seedDir != "" {
		if _, err := a.SeedDir(ctx, o.seedDir); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	return a, nil
}
