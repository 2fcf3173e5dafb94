package accounting

import (
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestSignedAmount(t *testing.T) {
	assert.True(t, SignedAmount(domain.NormalDebit, dec(100), decimal.Zero).Equal(dec(100)))
	assert.True(t, SignedAmount(domain.NormalDebit, decimal.Zero, dec(40)).Equal(dec(-40)))
	assert.True(t, SignedAmount(domain.NormalCredit, dec(100), decimal.Zero).Equal(dec(-100)))
	assert.True(t, SignedAmount(domain.NormalCredit, decimal.Zero, dec(40)).Equal(dec(40)))
}

func TestValidateLines(t *testing.T) {
	balanced := []domain.JournalLine{
		{LineNumber: 1, AccountID: "a", Debit: dec(150000), Credit: decimal.Zero},
		{LineNumber: 2, AccountID: "b", Debit: decimal.Zero, Credit: dec(150000)},
	}
	require.NoError(t, ValidateLines(balanced))

	tests := []struct {
		name  string
		lines []domain.JournalLine
		msg   string
	}{
		{
			name:  "single line",
			lines: balanced[:1],
			msg:   "at least two lines",
		},
		{
			name: "imbalanced",
			lines: []domain.JournalLine{
				{LineNumber: 1, AccountID: "a", Debit: dec(100)},
				{LineNumber: 2, AccountID: "b", Credit: dec(90)},
			},
			msg: "does not balance",
		},
		{
			name: "both sides on one line",
			lines: []domain.JournalLine{
				{LineNumber: 1, AccountID: "a", Debit: dec(100), Credit: dec(100)},
				{LineNumber: 2, AccountID: "b", Credit: dec(0)},
			},
			msg: "exactly one of debit or credit",
		},
		{
			name: "negative amount",
			lines: []domain.JournalLine{
				{LineNumber: 1, AccountID: "a", Debit: dec(-100)},
				{LineNumber: 2, AccountID: "b", Credit: dec(-100)},
			},
			msg: "negative",
		},
		{
			name: "missing account",
			lines: []domain.JournalLine{
				{LineNumber: 1, Debit: dec(100)},
				{LineNumber: 2, AccountID: "b", Credit: dec(100)},
			},
			msg: "no account",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLines(tt.lines)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestBuildAccountLedger_OrdersAndRunsBalance(t *testing.T) {
	jan10 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	jan12 := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	cash := domain.Account{AccountID: "cash", Code: domain.CodeCash, NormalBalance: domain.NormalDebit}

	lines := []domain.LedgerLine{
		{EntryNumber: "JV-202401-0003", EntryDate: jan12, LineNumber: 2, Credit: dec(50000)},
		{EntryNumber: "JV-202401-0002", EntryDate: jan10, LineNumber: 1, Debit: dec(200000)},
		{EntryNumber: "JV-202401-0001", EntryDate: jan10, LineNumber: 1, Debit: dec(100000)},
	}

	ledger := BuildAccountLedger(cash, domain.DateRange{From: &jan10}, dec(25000), lines)

	require.Len(t, ledger.Rows, 3)
	assert.Equal(t, "JV-202401-0001", ledger.Rows[0].DocumentNumber)
	assert.Equal(t, "JV-202401-0002", ledger.Rows[1].DocumentNumber)
	assert.Equal(t, "JV-202401-0003", ledger.Rows[2].DocumentNumber)
	assert.True(t, ledger.Rows[0].RunningBalance.Equal(dec(125000)))
	assert.True(t, ledger.Rows[2].RunningBalance.Equal(dec(275000)))
	assert.True(t, ledger.OpeningBalance.Equal(dec(25000)))
	assert.True(t, ledger.ClosingBalance.Equal(dec(275000)))
}

func TestBuildAccountLedger_CreditNormal(t *testing.T) {
	payable := domain.Account{AccountID: "ap", Code: "2110", NormalBalance: domain.NormalCredit}
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	ledger := BuildAccountLedger(payable, domain.DateRange{}, decimal.Zero, []domain.LedgerLine{
		{EntryNumber: "JV-202402-0001", EntryDate: day, LineNumber: 1, Credit: dec(300)},
		{EntryNumber: "JV-202402-0002", EntryDate: day, LineNumber: 1, Debit: dec(100)},
	})
	assert.True(t, ledger.ClosingBalance.Equal(dec(200)))
}

func TestOpeningBalance(t *testing.T) {
	got := OpeningBalance(domain.NormalDebit, []domain.AccountMovement{{AccountID: "a", Debit: dec(500), Credit: dec(120)}})
	assert.True(t, got.Equal(dec(380)))
}

func TestBuildTrialBalance(t *testing.T) {
	accounts := map[string]domain.Account{
		"cash":   {AccountID: "cash", Code: "1100", NormalBalance: domain.NormalDebit},
		"office": {AccountID: "office", Code: "6100", NormalBalance: domain.NormalDebit},
		"rev":    {AccountID: "rev", Code: "4100", NormalBalance: domain.NormalCredit},
	}
	movements := []domain.AccountMovement{
		{AccountID: "office", Debit: dec(150000), Credit: decimal.Zero},
		{AccountID: "cash", Debit: dec(400000), Credit: dec(150000)},
		{AccountID: "rev", Debit: decimal.Zero, Credit: dec(400000)},
	}

	tb := BuildTrialBalance(accounts, movements, domain.DateRange{})

	require.Len(t, tb.Rows, 3)
	assert.Equal(t, "1100", tb.Rows[0].Account.Code)
	assert.Equal(t, "4100", tb.Rows[1].Account.Code)
	assert.Equal(t, "6100", tb.Rows[2].Account.Code)
	assert.True(t, tb.Rows[0].NetBalance.Equal(dec(250000)))
	assert.True(t, tb.Rows[1].NetBalance.Equal(dec(400000)))
	assert.True(t, tb.TotalDebit.Equal(dec(550000)))
	assert.True(t, tb.TotalCredit.Equal(dec(550000)))
	assert.True(t, tb.CheckSum.IsZero())
	assert.True(t, tb.Balanced)
}

func TestBuildTrialBalance_ReportsBrokenCheckSum(t *testing.T) {
	accounts := map[string]domain.Account{"cash": {AccountID: "cash", Code: "1100", NormalBalance: domain.NormalDebit}}
	tb := BuildTrialBalance(accounts, []domain.AccountMovement{{AccountID: "cash", Debit: dec(10)}}, domain.DateRange{})
	assert.False(t, tb.Balanced)
	assert.True(t, tb.CheckSum.Equal(dec(10)))
}
