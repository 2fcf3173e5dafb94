package cmd

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/finance_ledger_app/pkg/database"
	"github.com/spf13/cobra"
)

var migrationsPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path := cfg.MigrationsPath
		if migrationsPath != "" {
			path = migrationsPath
		}

		applied, err := database.RunMigrations(cfg.DatabaseURL, path, slog.Default())
		if err != nil {
			return err
		}
		if applied {
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsPath, "path", "", "migrations source URL (default MIGRATIONS_PATH)")
}
