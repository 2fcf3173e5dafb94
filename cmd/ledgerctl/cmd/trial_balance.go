package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/SscSPs/finance_ledger_app/internal/core/services"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"github.com/SscSPs/finance_ledger_app/internal/middleware"
	"github.com/SscSPs/finance_ledger_app/internal/platform/storage"
	"github.com/SscSPs/finance_ledger_app/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	tbFrom string
	tbTo   string
)

var trialBalanceCmd = &cobra.Command{
	Use:   "trial-balance",
	Short: "Print the trial balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		rng, err := parseRange(tbFrom, tbTo)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
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
		tb, err := svc.Ledger.TrialBalance(ctx, rng)
		if err != nil {
			return err
		}
		if err := printTrialBalance(cmd.OutOrStdout(), tb, cfg.DefaultCurrency); err != nil {
			return err
		}
		if !tb.Balanced {
			return fmt.Errorf("trial balance is off by %s", utils.FormatWithCurrencyPrecision(tb.CheckSum, cfg.DefaultCurrency))
		}
		return nil
	},
}

func init() {
	trialBalanceCmd.Flags().StringVar(&tbFrom, "from", "", "start date (YYYY-MM-DD)")
	trialBalanceCmd.Flags().StringVar(&tbTo, "to", "", "end date (YYYY-MM-DD)")
}

func parseRange(from, to string) (domain.DateRange, error) {
	var rng domain.DateRange
	if from != "" {
		t, err := time.Parse(dto.DateLayout, from)
		if err != nil {
			return rng, fmt.Errorf("invalid --from %q: %w", from, err)
		}
		rng.From = &t
	}
	if to != "" {
		t, err := time.Parse(dto.DateLayout, to)
		if err != nil {
			return rng, fmt.Errorf("invalid --to %q: %w", to, err)
		}
		rng.To = &t
	}
	return rng, nil
}

func printTrialBalance(w io.Writer, tb *domain.TrialBalance, currency string) error {
	amount := func(d decimal.Decimal) string { return utils.FormatWithCurrencyPrecision(d, currency) }
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CODE\tNAME\tDEBIT\tCREDIT\tNET\t")
	for _, row := range tb.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			row.Account.Code, row.Account.Name,
			amount(row.TotalDebit), amount(row.TotalCredit), amount(row.NetBalance))
	}
	fmt.Fprintf(tw, "\tTOTAL\t%s\t%s\t%s\t\n", amount(tb.TotalDebit), amount(tb.TotalCredit), amount(tb.CheckSum))
	return tw.Flush()
}
