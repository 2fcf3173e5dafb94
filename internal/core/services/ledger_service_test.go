package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountLedger_RunningBalanceAndOpening(t *testing.T) {
	h := newHarness(t)
	for _, ev := range []domain.SourceEvent{
		cashExpense("CB-1", "100000", domain.CategoryOfficeSupplies, day(2024, time.January, 5)),
		cashExpense("CB-2", "40000", domain.CategoryOfficeSupplies, day(2024, time.January, 20)),
		cashExpense("CB-3", "60000", domain.CategoryOfficeSupplies, day(2024, time.February, 2)),
	} {
		_, err := h.svc.Posting.Post(h.ctx, ev)
		require.NoError(t, err)
	}

	full, err := h.svc.Ledger.AccountLedger(h.ctx, "6100", domain.DateRange{})
	require.NoError(t, err)
	require.Len(t, full.Rows, 3)
	assert.True(t, full.OpeningBalance.IsZero())
	assert.True(t, full.Rows[0].RunningBalance.Equal(dec("100000")))
	assert.True(t, full.Rows[1].RunningBalance.Equal(dec("140000")))
	assert.True(t, full.ClosingBalance.Equal(dec("200000")))
	assert.Equal(t, "JV-202401-0001", full.Rows[0].DocumentNumber)

	from := day(2024, time.January, 15)
	to := day(2024, time.January, 31)
	ranged, err := h.svc.Ledger.AccountLedger(h.ctx, "6100", domain.DateRange{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged.Rows, 1)
	assert.True(t, ranged.OpeningBalance.Equal(dec("100000")))
	assert.True(t, ranged.ClosingBalance.Equal(dec("140000")))

	cash, err := h.svc.Ledger.AccountLedger(h.ctx, domain.CodeCash, domain.DateRange{})
	require.NoError(t, err)
	assert.True(t, cash.ClosingBalance.Equal(dec("-200000")), "cash is debit-normal and was only credited")
}

func TestTrialBalance_BalancesAcrossPostings(t *testing.T) {
	h := newHarness(t)
	events := []domain.SourceEvent{
		cashExpense("CB-1", "150000", domain.CategoryOfficeSupplies, day(2024, time.January, 15)),
		{
			Module: domain.ModuleReceiptVoucher, Type: domain.EventReceipt, ReferenceID: "RV-1",
			Date: day(2024, time.January, 16), Amount: dec("1000000"), PartyKey: "PT Maju Jaya", CreatedBy: testUser,
		},
		{
			Module: domain.ModuleCashBox, Type: domain.EventWithdrawal, ReferenceID: "CB-W",
			Date: day(2024, time.January, 17), Amount: dec("300000"), BankAccountID: "BCA-001", CreatedBy: testUser,
		},
	}
	for _, ev := range events {
		_, err := h.svc.Posting.Post(h.ctx, ev)
		require.NoError(t, err)
	}

	tb, err := h.svc.Ledger.TrialBalance(h.ctx, domain.DateRange{})
	require.NoError(t, err)
	assert.True(t, tb.Balanced)
	assert.True(t, tb.CheckSum.IsZero())
	assert.True(t, tb.TotalDebit.Equal(dec("1450000")))
	assert.True(t, tb.TotalDebit.Equal(tb.TotalCredit))

	codes := make([]string, len(tb.Rows))
	for i, r := range tb.Rows {
		codes[i] = r.Account.Code
	}
	assert.Equal(t, []string{"1100", "1210", "1410", "6100"}, codes)

	from := day(2024, time.January, 16)
	to := day(2024, time.January, 16)
	oneDay, err := h.svc.Ledger.TrialBalance(h.ctx, domain.DateRange{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, oneDay.Rows, 2)
}

func TestPartyLedger(t *testing.T) {
	h := newHarness(t)
	for _, key := range []string{"Budi", "Sari"} {
		_, err := h.svc.Posting.Post(h.ctx, domain.SourceEvent{
			Module: domain.ModuleStaffAdvance, Type: domain.EventAdvance, ReferenceID: "SA-" + key,
			Date: day(2024, time.January, 8), Amount: dec("250000"), StaffKey: key, CreatedBy: testUser,
		})
		require.NoError(t, err)
	}

	all, err := h.svc.Ledger.PartyLedger(h.ctx, domain.PartyKey{Kind: domain.ProvisionStaff}, domain.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, "staff", all.Party)
	assert.Len(t, all.Accounts, 2)
	assert.True(t, all.Total.Equal(dec("500000")))

	one, err := h.svc.Ledger.PartyLedger(h.ctx, domain.PartyKey{Kind: domain.ProvisionStaff, Key: "Sari"}, domain.DateRange{})
	require.NoError(t, err)
	require.Len(t, one.Accounts, 1)
	assert.Equal(t, "Staff Advance - Sari", one.Accounts[0].Account.Name)

	_, err = h.svc.Ledger.PartyLedger(h.ctx, domain.PartyKey{Kind: domain.ProvisionStaff, Key: "Nobody"}, domain.DateRange{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedger_RejectsInvertedRange(t *testing.T) {
	h := newHarness(t)
	from := day(2024, time.February, 1)
	to := day(2024, time.January, 1)

	_, err := h.svc.Ledger.TrialBalance(h.ctx, domain.DateRange{From: &from, To: &to})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = h.svc.Ledger.AccountLedger(h.ctx, "9999", domain.DateRange{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
