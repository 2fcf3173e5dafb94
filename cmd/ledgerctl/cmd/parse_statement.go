package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"github.com/SscSPs/finance_ledger_app/internal/statement"
	"github.com/SscSPs/finance_ledger_app/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	statementFormat string
	uploadDate      string
)

var parseStatementCmd = &cobra.Command{
	Use:   "parse-statement <file>",
	Short: "Parse a statement without storing it",
	Long: `Runs text extraction and parsing on a statement document and prints the
recognised header and transaction lines. Nothing is written to the database.

When no transaction can be recovered the extraction diagnostics are printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		doc, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read statement: %w", err)
		}
		when := time.Now()
		if uploadDate != "" {
			if when, err = time.Parse(dto.DateLayout, uploadDate); err != nil {
				return fmt.Errorf("invalid --upload-date %q: %w", uploadDate, err)
			}
		}

		parser := statement.NewParser(statement.Options{
			MinTextLength:        cfg.Statement.MinTextLength,
			DescriptionMaxLength: cfg.Statement.DescriptionMaxLength,
			DefaultCurrency:      cfg.DefaultCurrency,
			DefaultFormat:        cfg.Statement.DefaultFormat,
			MaxInflatedBytes:     cfg.Statement.MaxInflatedBytes,
		})
		res, err := parser.Parse(doc, statementFormat, when)
		if err != nil {
			var failure *apperrors.ParseFailure
			if errors.As(err, &failure) {
				printDiagnostics(cmd.OutOrStdout(), failure)
			}
			return err
		}
		return printStatement(cmd.OutOrStdout(), res)
	},
}

func init() {
	parseStatementCmd.Flags().StringVar(&statementFormat, "format", "", "statement format (default STATEMENT_DEFAULT_FORMAT)")
	parseStatementCmd.Flags().StringVar(&uploadDate, "upload-date", "", "date used for the year when the statement has no period (YYYY-MM-DD)")
}

func printStatement(w io.Writer, res *statement.Result) error {
	amount := func(d decimal.Decimal) string { return utils.FormatWithCurrencyPrecision(d, res.Currency) }
	fmt.Fprintf(w, "format:   %s (%s, %d chars)\n", res.Format, res.Strategy, res.TextLength)
	fmt.Fprintf(w, "period:   %s\n", res.Header.PeriodLabel)
	if res.Header.OpeningBalance != nil {
		fmt.Fprintf(w, "opening:  %s %s\n", res.Currency, amount(*res.Header.OpeningBalance))
	}
	if res.Header.ClosingBalance != nil {
		fmt.Fprintf(w, "closing:  %s %s\n", res.Currency, amount(*res.Header.ClosingBalance))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tDEBIT\tCREDIT\tBALANCE")
	for _, tx := range res.Transactions {
		debit, credit := "", ""
		if tx.Credit {
			credit = amount(tx.Amount)
		} else {
			debit = amount(tx.Amount)
		}
		balance := ""
		if tx.RunningBalance != nil {
			balance = amount(*tx.RunningBalance)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", tx.Date.Format(dto.DateLayout), tx.Description, debit, credit, balance)
	}
	fmt.Fprintf(tw, "\t%d lines\t%s\t%s\t\n", len(res.Transactions), amount(res.TotalDebits), amount(res.TotalCredits))
	return tw.Flush()
}

func printDiagnostics(w io.Writer, failure *apperrors.ParseFailure) {
	out, err := json.MarshalIndent(failure.Diagnostics, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintf(w, "%s\n%s\n", failure.Reason, out)
}
