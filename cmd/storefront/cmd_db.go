package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/internal/server"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

// withDB opens the configured database for the duration of fn.
func withDB(fn func(db *gorm.DB) error) error {
	db, err := server.OpenDB()
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck
	return fn(db)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations...")
			return migration.New(db, migration.WithOutput(cmd.OutOrStdout())).Run()
		})
	},
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch...")
			return migration.New(db, migration.WithOutput(cmd.OutOrStdout())).Rollback()
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			return migration.New(db, migration.WithOutput(cmd.OutOrStdout())).Status()
		})
	},
}

var seedDir string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load categories, products and customers from CSV files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			dir := seedDir
			if dir == "" {
				dir = config.SeedDir()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeding from %s...\n", dir)
			return seeders.RunAll(db, dir, cmd.OutOrStdout())
		})
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedDir, "dir", "", "directory holding the CSV files (default SEED_DIR)")
}
