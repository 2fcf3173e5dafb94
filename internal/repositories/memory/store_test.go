package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/SscSPs/finance_ledger_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedAccounts(t *testing.T, ctx context.Context, store *memory.Store) {
	t.Helper()
	repos := store.Provider()
	for _, acc := range []domain.Account{
		{AccountID: "acc-cash", Code: "1100", Name: "Cash", AccountType: domain.Asset, NormalBalance: domain.NormalDebit, IsActive: true},
		{AccountID: "acc-bank", Code: "1210", Name: "Bank - BCA", AccountType: domain.Asset, NormalBalance: domain.NormalDebit, IsActive: true,
			ProvisionKind: domain.ProvisionBank, ProvisionKey: "bca-001"},
	} {
		require.NoError(t, repos.AccountRepo.SaveAccount(ctx, acc))
	}
}

func entry(id, number string, on time.Time, ref string) domain.JournalEntry {
	amount := decimal.NewFromInt(1000)
	return domain.JournalEntry{
		EntryID:           id,
		EntryNumber:       number,
		EntryDate:         on,
		SourceModule:      domain.ModuleCashBox,
		SourceReferenceID: ref,
		Posted:            true,
		Lines: []domain.JournalLine{
			{LineID: id + "-1", EntryID: id, LineNumber: 1, AccountID: "acc-bank", Debit: amount, Credit: decimal.Zero},
			{LineID: id + "-2", EntryID: id, LineNumber: 2, AccountID: "acc-cash", Debit: decimal.Zero, Credit: amount},
		},
	}
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Provider()

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		_, err := repos.SequenceRepo.NextValue(ctx, domain.DocJournal, "202401")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	current, err := repos.SequenceRepo.CurrentValue(ctx, domain.DocJournal, "202401")
	require.NoError(t, err)
	assert.Zero(t, current)

	err = store.WithinTx(ctx, func(ctx context.Context) error {
		// Nested calls join the outer transaction instead of deadlocking.
		return store.WithinTx(ctx, func(ctx context.Context) error {
			_, err := repos.SequenceRepo.NextValue(ctx, domain.DocJournal, "202401")
			return err
		})
	})
	require.NoError(t, err)
	current, _ = repos.SequenceRepo.CurrentValue(ctx, domain.DocJournal, "202401")
	assert.Equal(t, int64(1), current)
}

func TestAccounts_UniqueCodeAndProvision(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedAccounts(t, ctx, store)
	repos := store.Provider()

	err := repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "x", Code: "1100"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	err = repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "y", Code: "1211",
		ProvisionKind: domain.ProvisionBank, ProvisionKey: "bca-001"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	acc, err := repos.AccountRepo.FindAccountByProvision(ctx, domain.ProvisionBank, "bca-001")
	require.NoError(t, err)
	assert.Equal(t, "1210", acc.Code)

	_, err = repos.AccountRepo.FindAccountByProvision(ctx, domain.ProvisionBank, "mandiri")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestJournal_ConstraintsAndPagination(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedAccounts(t, ctx, store)
	repos := store.Provider()

	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, entry("e1", "JV-202401-0001", date(2024, 1, 5), "cb-1")))
	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, entry("e2", "JV-202401-0002", date(2024, 1, 5), "cb-2")))
	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, entry("e3", "JV-202401-0003", date(2024, 1, 9), "cb-3")))

	err := repos.JournalRepo.SaveEntry(ctx, entry("e4", "JV-202401-0003", date(2024, 1, 9), "cb-4"))
	assert.ErrorIs(t, err, apperrors.ErrConcurrentUpdate)
	err = repos.JournalRepo.SaveEntry(ctx, entry("e5", "JV-202401-0005", date(2024, 1, 9), "cb-1"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	saved, err := repos.JournalRepo.FindEntryBySource(ctx, domain.ModuleCashBox, "cb-1")
	require.NoError(t, err)
	assert.Equal(t, "1210", saved.Lines[0].AccountCode)

	page, token, err := repos.JournalRepo.ListEntries(ctx, domain.JournalFilter{}, 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "JV-202401-0003", page[0].EntryNumber)
	assert.Equal(t, "JV-202401-0002", page[1].EntryNumber)
	require.NotNil(t, token)

	page, token, err = repos.JournalRepo.ListEntries(ctx, domain.JournalFilter{}, 2, token)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "JV-202401-0001", page[0].EntryNumber)
	assert.Nil(t, token)
}

func TestStatement_MatchIsConditional(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedAccounts(t, ctx, store)
	repos := store.Provider()
	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, entry("e1", "JV-202401-0001", date(2024, 1, 5), "cb-1")))

	upload := domain.StatementUpload{UploadID: "u1", UploadNumber: "BS-202401-0001", BankAccountID: "bca-001", SourceDocumentRef: "doc-1"}
	lines := []domain.StatementLine{
		{LineID: "s1", UploadID: "u1", BankAccountID: "bca-001", LineNumber: 1, TransactionDate: date(2024, 1, 6),
			CreditAmount: decimal.NewFromInt(1000), ReconciliationStatus: domain.StatusUnmatched},
		{LineID: "s2", UploadID: "u1", BankAccountID: "bca-001", LineNumber: 2, TransactionDate: date(2024, 1, 6),
			CreditAmount: decimal.NewFromInt(1000), ReconciliationStatus: domain.StatusUnmatched},
	}
	require.NoError(t, repos.StatementRepo.SaveUpload(ctx, upload, lines))

	dup := upload
	dup.UploadID, dup.UploadNumber = "u2", "BS-202401-0002"
	assert.ErrorIs(t, repos.StatementRepo.SaveUpload(ctx, dup, nil), apperrors.ErrDuplicate)

	candidates, err := repos.LedgerRepo.FindBankMovements(ctx, "acc-bank", decimal.NewFromInt(1000), true, date(2024, 1, 3), date(2024, 1, 9))
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	ok, err := repos.StatementRepo.MarkLineMatched(ctx, "s1", "e1-1", "user-1", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.StatementRepo.MarkLineMatched(ctx, "s1", "e1-1", "user-1", time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "a matched line cannot be matched again")

	_, err = repos.StatementRepo.MarkLineMatched(ctx, "s2", "e1-1", "user-1", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	candidates, err = repos.LedgerRepo.FindBankMovements(ctx, "acc-bank", decimal.NewFromInt(1000), true, date(2024, 1, 3), date(2024, 1, 9))
	require.NoError(t, err)
	assert.Empty(t, candidates, "linked journal lines are no longer candidates")

	n, err := repos.StatementRepo.UnlinkJournalLines(ctx, []string{"e1-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	unmatched, err := repos.StatementRepo.ListUnmatchedLines(ctx, "bca-001", 10)
	require.NoError(t, err)
	assert.Len(t, unmatched, 2)
}

func TestLedgerLines_EmptyLineDescriptionFallsBackToEntry(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedAccounts(t, ctx, store)
	repos := store.Provider()

	e := entry("e1", "JV-202401-0001", date(2024, 1, 5), "cb-1")
	e.Description = "cash box cb-1"
	e.Lines[0].Description = "transfer to bank"
	require.NoError(t, repos.JournalRepo.SaveEntry(ctx, e))

	lines, err := repos.LedgerRepo.ListLedgerLines(ctx, []string{"acc-bank", "acc-cash"}, domain.DateRange{})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	byAccount := map[string]string{}
	for _, l := range lines {
		byAccount[l.AccountID] = l.Description
	}
	assert.Equal(t, "transfer to bank", byAccount["acc-bank"])
	assert.Equal(t, "cash box cb-1", byAccount["acc-cash"], "an empty line description shows the entry's")
}
