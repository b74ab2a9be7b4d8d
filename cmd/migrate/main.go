package main

// Run database migrations:
//   go run ./cmd/migrate up
//   go run ./cmd/migrate down
//   go run ./cmd/migrate status

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/storage/db"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the resume builder database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "db-url", "", "Database URL (overrides DATABASE_URL)")
	rootCmd.AddCommand(
		migrationCmd("up", "Apply all pending migrations", db.RunMigrations),
		migrationCmd("down", "Roll back the most recent migration", db.RollbackMigration),
		migrationCmd("status", "Print applied and pending migrations", db.MigrationStatus),
	)
}

func migrationCmd(use, short string, action func(context.Context, *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sqlDB, err := connect(ctx)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			return action(ctx, sqlDB)
		},
	}
}

func connect(ctx context.Context) (*sql.DB, error) {
	url := databaseURL
	if url == "" {
		url = config.Load().DatabaseURL
	}
	if url == "" {
		return nil, errors.New("database URL is required (set DATABASE_URL or use --db-url)")
	}
	return db.Connect(ctx, url, db.OptionsFromEnv(db.DefaultMigrateOptions()))
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
