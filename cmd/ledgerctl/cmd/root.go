// Package cmd provides the ledgerctl commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/finance_ledger_app/internal/platform/config"
	"github.com/spf13/cobra"
)

// systemUserID is recorded as creator of everything the CLI writes.
const systemUserID = "ledgerctl"

var debug bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Operate the finance ledger",
	Long: `ledgerctl runs maintenance tasks against the ledger database.

Configuration is read from the environment (and .env) exactly like the server.

Example:
  ledgerctl migrate
  ledgerctl seed-accounts --file configs/chart_of_accounts.yaml
  ledgerctl parse-statement statement.pdf --format indonesian
  ledgerctl trial-balance --from 2024-01-01 --to 2024-01-31
  ledgerctl issue-token --subject payment-vouchers --ttl 720h`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedAccountsCmd)
	rootCmd.AddCommand(parseStatementCmd)
	rootCmd.AddCommand(trialBalanceCmd)
	rootCmd.AddCommand(issueTokenCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
