// cmd/server/database.go
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/budayachain/budaya-backend/internal/config"
	"github.com/budayachain/budaya-backend/internal/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Database.IsMemory() {
				return errors.New("migrate needs DB_DRIVER=postgres")
			}
			return migrate(cfg.Database)
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a verified demo artisan and product into an empty store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, closeStore, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer closeStore()

			return database.SeedInitialData(cmd.Context(), store)
		},
	}
}

func migrate(cfg config.DatabaseConfig) error {
	db, err := database.Initialize(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close(db)

	return database.RunMigrations(db)
}
