package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vsinha/blendtrack/pkg/infrastructure/config"
	"github.com/vsinha/blendtrack/pkg/infrastructure/repositories/postgres"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.cfg.Store != config.StorePostgres {
				return errors.New("migrate requires the postgres store")
			}
			if err := postgres.ApplyMigrations(cmd.Context(), opts.cfg.Database.Postgres().DSN()); err != nil {
				return err
			}
			opts.log.Info("Migrations applied")
			return nil
		},
	}
}
