// Package cli wires the users-server command line.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the users-server root command. Running it without a subcommand serves the API.
func NewRootCommand() *cobra.Command {
	serve := NewServeCommand()

	cmd := &cobra.Command{
		Use:           "users-server",
		Short:         "Users CRUD API server",
		Long:          "HTTP API for managing user records with soft delete, backed by PostgreSQL.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCommand())

	return cmd
}
