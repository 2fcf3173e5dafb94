package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger_app/internal/core/services"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"github.com/SscSPs/finance_ledger_app/internal/platform/config"
	"github.com/SscSPs/finance_ledger_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

var testChart = []dto.ChartAccount{
	{Code: "1100", Name: "Cash", AccountType: domain.Asset},
	{Code: "1400", Name: "Accounts Receivable", AccountType: domain.Asset},
	{Code: "1900", Name: "Suspense", AccountType: domain.Asset},
	{Code: "2100", Name: "Accounts Payable", AccountType: domain.Liability},
	{Code: "3100", Name: "Owner Equity", AccountType: domain.Equity},
	{Code: "4100", Name: "Sales Revenue", AccountType: domain.Income},
	{Code: "4200", Name: "Service Revenue", AccountType: domain.Income},
	{Code: "4900", Name: "Other Income", AccountType: domain.Income},
	{Code: "6100", Name: "Office Supplies", AccountType: domain.Expense},
	{Code: "6200", Name: "Transport", AccountType: domain.Expense},
	{Code: "6300", Name: "Meals & Entertainment", AccountType: domain.Expense},
	{Code: "6400", Name: "Utilities", AccountType: domain.Expense},
	{Code: "6500", Name: "Rent", AccountType: domain.Expense},
	{Code: "6600", Name: "Repairs & Maintenance", AccountType: domain.Expense},
	{Code: "6700", Name: "Marketing", AccountType: domain.Expense},
	{Code: "6800", Name: "Project Materials", AccountType: domain.Expense},
	{Code: "6810", Name: "Project Labor", AccountType: domain.Expense},
	{Code: "6910", Name: "Bank Charges", AccountType: domain.Expense},
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultCurrency: "IDR",
		Statement: config.StatementConfig{
			DefaultFormat:        "auto",
			MaxUploadBytes:       1 << 20,
			MinTextLength:        20,
			DescriptionMaxLength: 255,
		},
		Posting: config.PostingConfig{MaxAttempts: 5},
		Reconcile: config.ReconcileConfig{
			DateToleranceDays: 3,
			Workers:           2,
			BatchSize:         100,
		},
	}
}

// harness wires every service to a fresh in-memory store with the test chart seeded.
type harness struct {
	ctx   context.Context
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewRepositoryProvider()
	svc := services.NewServiceContainer(testConfig(), repos)
	created, err := svc.Account.SeedChart(ctx, testChart, "seed")
	require.NoError(t, err)
	require.Equal(t, len(testChart), created)
	return &harness{ctx: ctx, repos: repos, svc: svc}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cashExpense(ref string, amount string, category domain.AccountCategory, date time.Time) domain.SourceEvent {
	return domain.SourceEvent{
		Module:      domain.ModuleCashBox,
		Type:        domain.EventExpense,
		ReferenceID: ref,
		Date:        date,
		Description: "cash box " + ref,
		Amount:      dec(amount),
		Category:    category,
		CreatedBy:   testUser,
	}
}

// lineFor returns the entry's line on the given account code.
func lineFor(t *testing.T, entry *domain.JournalEntry, code string) domain.JournalLine {
	t.Helper()
	for _, l := range entry.Lines {
		if l.AccountCode == code {
			return l
		}
	}
	require.Failf(t, "line not found", "entry %s has no line on %s", entry.EntryNumber, code)
	return domain.JournalLine{}
}
