package main

import (
	"fmt"

	"github.com/dom/attendance-platform/internal/repository/postgres"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := postgres.Migrate(a.db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		a.log.Info("schema migrated")
		return nil
	},
}
