package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/finance_ledger_app/internal/utils/pagination"
)

type journalRepository struct {
	store *Store
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

func (r *journalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	defer r.store.lock(ctx)()
	st := r.store.state

	for _, existing := range st.entries {
		if existing.EntryNumber == entry.EntryNumber {
			return fmt.Errorf("%w: entry number %s already used", apperrors.ErrConcurrentUpdate, entry.EntryNumber)
		}
		if existing.SourceModule == entry.SourceModule && existing.SourceReferenceID == entry.SourceReferenceID {
			return fmt.Errorf("%w: %s/%s is already posted", apperrors.ErrDuplicate, entry.SourceModule, entry.SourceReferenceID)
		}
	}

	lines := make([]domain.JournalLine, len(entry.Lines))
	for i, line := range entry.Lines {
		acc, ok := st.accounts[line.AccountID]
		if !ok {
			return fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, line.AccountID)
		}
		line.AccountCode = acc.Code
		lines[i] = line
	}
	entry.Lines = lines
	st.entries[entry.EntryID] = entry
	return nil
}

func (r *journalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	defer r.store.lock(ctx)()
	entry, ok := r.store.state.entries[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("journal entry " + entryID)
	}
	entry.Lines = append([]domain.JournalLine(nil), entry.Lines...)
	return &entry, nil
}

func (r *journalRepository) FindEntryBySource(ctx context.Context, module domain.SourceModule, referenceID string) (*domain.JournalEntry, error) {
	defer r.store.lock(ctx)()
	for _, entry := range r.store.state.entries {
		if entry.SourceModule == module && entry.SourceReferenceID == referenceID {
			entry.Lines = append([]domain.JournalLine(nil), entry.Lines...)
			return &entry, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal entry for %s/%s", module, referenceID))
}

func (r *journalRepository) FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, *domain.JournalEntry, error) {
	defer r.store.lock(ctx)()
	for _, entry := range r.store.state.entries {
		for _, line := range entry.Lines {
			if line.LineID == lineID {
				header := entry
				header.Lines = nil
				return &line, &header, nil
			}
		}
	}
	return nil, nil, apperrors.NewNotFoundError("journal line " + lineID)
}

func (r *journalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	defer r.store.lock(ctx)()
	st := r.store.state
	entry, ok := st.entries[entryID]
	if !ok {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	linked := make(map[string]bool, len(entry.Lines))
	for _, line := range entry.Lines {
		linked[line.LineID] = true
	}
	for _, sl := range st.statementLines {
		if sl.MatchedJournalLineID != nil && linked[*sl.MatchedJournalLineID] {
			return fmt.Errorf("%w: journal line %s is still matched to statement line %s",
				apperrors.ErrValidation, *sl.MatchedJournalLineID, sl.LineID)
		}
	}
	delete(st.entries, entryID)
	return nil
}

func (r *journalRepository) ListEntries(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var (
		tokenDate   time.Time
		tokenNumber string
		useToken    bool
	)
	if nextToken != nil && *nextToken != "" {
		d, n, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid pagination token: %v", err)
		}
		tokenDate, tokenNumber, useToken = d, n, true
	}

	defer r.store.lock(ctx)()
	rng := domain.DateRange{From: filter.From, To: filter.To}
	entries := []domain.JournalEntry{}
	for _, entry := range r.store.state.entries {
		if filter.SourceModule != "" && entry.SourceModule != filter.SourceModule {
			continue
		}
		if !rng.Contains(entry.EntryDate) {
			continue
		}
		if useToken && !pagination.After(entry.EntryDate, entry.EntryNumber, tokenDate, tokenNumber) {
			continue
		}
		entry.Lines = nil
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].EntryDate.After(entries[j].EntryDate)
		}
		return entries[i].EntryNumber > entries[j].EntryNumber
	})

	var newNextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.EntryDate, last.EntryNumber)
		newNextToken = &token
	}
	return entries, newNextToken, nil
}
