package main

import (
	"github.com/spf13/cobra"

	"github.com/Dan9191/task-service/internal/repository"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			db, err := repository.Open(cmd.Context(), cfg.DBConn, repository.PoolOptions{
				MaxOpenConns:    1,
				MaxIdleConns:    1,
				ConnMaxLifetime: cfg.DBConnMaxLifetime,
			})
			if err != nil {
				logger.WithError(err).Error("Failed to connect to database")
				return err
			}
			defer db.Close()

			if err := repository.Migrate(cmd.Context(), db, command); err != nil {
				logger.WithError(err).Error("Migration failed")
				return err
			}
			logger.WithField("command", command).Info("Migration finished")
			return nil
		},
	}
}
