package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/finance_ledger_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type ledgerRepository struct {
	store *Store
}

var _ portsrepo.LedgerReader = (*ledgerRepository)(nil)

// ledgerLines flattens every stored line accepted by keep. Callers hold the lock.
func (r *ledgerRepository) ledgerLines(keep func(domain.JournalEntry, domain.JournalLine) bool) []domain.LedgerLine {
	var lines []domain.LedgerLine
	for _, entry := range r.store.state.entries {
		for _, line := range entry.Lines {
			if !keep(entry, line) {
				continue
			}
			desc := line.Description
			if desc == "" {
				desc = entry.Description
			}
			lines = append(lines, domain.LedgerLine{
				LineID:      line.LineID,
				EntryID:     entry.EntryID,
				EntryNumber: entry.EntryNumber,
				EntryDate:   entry.EntryDate,
				LineNumber:  line.LineNumber,
				AccountID:   line.AccountID,
				Debit:       line.Debit,
				Credit:      line.Credit,
				Description: desc,
			})
		}
	}
	accounting.SortLedgerLines(lines)
	return lines
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (r *ledgerRepository) ListLedgerLines(ctx context.Context, accountIDs []string, rng domain.DateRange) ([]domain.LedgerLine, error) {
	defer r.store.lock(ctx)()
	wanted := toSet(accountIDs)
	lines := r.ledgerLines(func(e domain.JournalEntry, l domain.JournalLine) bool {
		return wanted[l.AccountID] && rng.Contains(e.EntryDate)
	})
	if lines == nil {
		lines = []domain.LedgerLine{}
	}
	return lines, nil
}

func (r *ledgerRepository) SumMovements(ctx context.Context, accountIDs []string, rng domain.DateRange) ([]domain.AccountMovement, error) {
	defer r.store.lock(ctx)()
	var wanted map[string]bool
	if accountIDs != nil {
		wanted = toSet(accountIDs)
	}

	totals := map[string]*domain.AccountMovement{}
	for _, entry := range r.store.state.entries {
		if !rng.Contains(entry.EntryDate) {
			continue
		}
		for _, line := range entry.Lines {
			if wanted != nil && !wanted[line.AccountID] {
				continue
			}
			m, ok := totals[line.AccountID]
			if !ok {
				m = &domain.AccountMovement{AccountID: line.AccountID, Debit: decimal.Zero, Credit: decimal.Zero}
				totals[line.AccountID] = m
			}
			m.Debit = m.Debit.Add(line.Debit)
			m.Credit = m.Credit.Add(line.Credit)
		}
	}

	movements := make([]domain.AccountMovement, 0, len(totals))
	for _, m := range totals {
		movements = append(movements, *m)
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].AccountID < movements[j].AccountID })
	return movements, nil
}

func (r *ledgerRepository) FindBankMovements(ctx context.Context, accountID string, amount decimal.Decimal, debit bool, from, to time.Time) ([]domain.LedgerLine, error) {
	defer r.store.lock(ctx)()
	linked := map[string]bool{}
	for _, sl := range r.store.state.statementLines {
		if sl.MatchedJournalLineID != nil {
			linked[*sl.MatchedJournalLineID] = true
		}
	}
	rng := domain.DateRange{From: &from, To: &to}
	lines := r.ledgerLines(func(e domain.JournalEntry, l domain.JournalLine) bool {
		if l.AccountID != accountID || linked[l.LineID] || !rng.Contains(e.EntryDate) {
			return false
		}
		if debit {
			return l.Debit.Equal(amount)
		}
		return l.Credit.Equal(amount)
	})
	if lines == nil {
		lines = []domain.LedgerLine{}
	}
	return lines, nil
}
