package cmd

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/finance_ledger_app/internal/core/services"
	"github.com/SscSPs/finance_ledger_app/internal/middleware"
	"github.com/SscSPs/finance_ledger_app/internal/platform/config"
	"github.com/SscSPs/finance_ledger_app/internal/platform/storage"
	"github.com/spf13/cobra"
)

var chartFile string

var seedAccountsCmd = &cobra.Command{
	Use:   "seed-accounts",
	Short: "Create missing chart of accounts entries",
	Long: `Reads the chart of accounts YAML file and creates every account whose code
does not exist yet. Existing accounts are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path := cfg.ChartOfAccountsPath
		if chartFile != "" {
			path = chartFile
		}
		chart, err := config.LoadChartOfAccounts(path)
		if err != nil {
			return err
		}

		logger := slog.Default()
		ctx := middleware.WithLogger(cmd.Context(), logger)
		repos, closeRepos, err := storage.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeRepos()

		svc := services.NewServiceContainer(cfg, repos)
		created, err := svc.Account.SeedChart(ctx, chart, systemUserID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d accounts created\n", created, len(chart))
		return nil
	},
}

func init() {
	seedAccountsCmd.Flags().StringVar(&chartFile, "file", "", "chart of accounts file (default CHART_OF_ACCOUNTS_PATH)")
}
