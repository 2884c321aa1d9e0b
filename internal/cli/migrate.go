package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/users-server/database"
	"github.com/dtroode/users-server/internal/config"
	"github.com/dtroode/users-server/internal/logger"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			if dsn != "" {
				cfg.Database.DSN = dsn
			}

			log := logger.NewWithWriter(cmd.OutOrStdout(), cfg.LogLevel, cfg.JSONLogs())
			if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("migrations applied")
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "database DSN (overrides DATABASE_DSN)")

	return cmd
}
