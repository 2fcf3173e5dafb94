package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/SscSPs/finance_ledger_app/internal/statement"
	"github.com/SscSPs/finance_ledger_app/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	rng, err := parseRange("2024-01-01", "")
	require.NoError(t, err)
	require.NotNil(t, rng.From)
	assert.Nil(t, rng.To)
	assert.Equal(t, time.January, rng.From.Month())

	_, err = parseRange("", "31/01/2024")
	assert.ErrorContains(t, err, "--to")
}

func TestPrintStatement(t *testing.T) {
	opening := decimal.NewFromInt(3500000)
	balance := decimal.NewFromInt(5000000)
	res := &statement.Result{
		Format:     "indonesian",
		Strategy:   "pdf-text",
		TextLength: 640,
		Header:     statement.Header{PeriodLabel: "JANUARI 2024", OpeningBalance: &opening},
		Currency:   "IDR",
		Transactions: []statement.Transaction{
			{
				Date:           time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC),
				Description:    "TRANSFER MASUK",
				Amount:         decimal.NewFromInt(1500000),
				Credit:         true,
				RunningBalance: &balance,
			},
		},
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.NewFromInt(1500000),
	}

	var out bytes.Buffer
	require.NoError(t, printStatement(&out, res))

	text := out.String()
	assert.Contains(t, text, "JANUARI 2024")
	assert.Contains(t, text, "IDR 3500000.00")
	assert.Contains(t, text, "2024-01-12")
	assert.Contains(t, text, "TRANSFER MASUK")
	assert.Contains(t, text, "1500000.00")
	assert.Contains(t, text, "5000000.00")
	assert.Contains(t, text, "1 lines")
}

func TestPrintTrialBalance(t *testing.T) {
	tb := &domain.TrialBalance{
		Rows: []domain.TrialBalanceRow{
			{Account: domain.Account{Code: "1100", Name: "Cash"}, TotalCredit: decimal.NewFromInt(150000), NetBalance: decimal.NewFromInt(-150000)},
			{Account: domain.Account{Code: "6100", Name: "Office Supplies"}, TotalDebit: decimal.NewFromInt(150000), NetBalance: decimal.NewFromInt(150000)},
		},
		TotalDebit:  decimal.NewFromInt(150000),
		TotalCredit: decimal.NewFromInt(150000),
		CheckSum:    decimal.Zero,
		Balanced:    true,
	}

	var out bytes.Buffer
	require.NoError(t, printTrialBalance(&out, tb, "IDR"))
	assert.Contains(t, out.String(), "Office Supplies")
	assert.Contains(t, out.String(), "-150000.00")
	assert.Contains(t, out.String(), "TOTAL")
}

func TestSeedAccountsAgainstMemoryStorage(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "memory")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"seed-accounts", "--file", "../../../configs/chart_of_accounts.yaml"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		chartFile = ""
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "18 of 18 accounts created\n", out.String())
}

func TestIssueToken(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("JWT_ISSUER", "finance-ledger")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"issue-token", "--subject", "payment-vouchers", "--ttl", "1h"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		tokenSubject = ""
		tokenTTL = 24 * time.Hour
	})

	require.NoError(t, rootCmd.Execute())
	claims, err := utils.ParseAndValidateJWT(strings.TrimSpace(out.String()), "cli-secret", "finance-ledger")
	require.NoError(t, err)
	assert.Equal(t, "payment-vouchers", claims.Subject)
}
