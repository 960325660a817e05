package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanizio/escortde/internal/config"
	"github.com/yanizio/escortde/internal/database"
	"github.com/yanizio/escortde/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and indexes",
	Long: `Create the ads and contact_submissions tables for the configured
database driver.  Existing tables are left untouched, so it is safe to run
on every deploy.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if _, err := logger.New(logOptions(cfg)); err != nil {
			return fmt.Errorf("start logger: %w", err)
		}
		if cfg.Database.Driver == "memory" {
			return errors.New("migrate: database.driver is memory, nothing to migrate")
		}

		db, err := database.Open(sqlDriver(cfg.Database.Driver), cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	},
}
