package repositories

import (
	"context"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID retrieves an entry together with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryBySource retrieves the entry posted for a source event.
	FindEntryBySource(ctx context.Context, module domain.SourceModule, referenceID string) (*domain.JournalEntry, error)

	// FindLineByID retrieves a single journal line.
	FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, *domain.JournalEntry, error)

	// ListEntries lists entries newest first with token pagination. Lines are not loaded.
	ListEntries(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// SaveEntry inserts the entry and all of its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// DeleteEntry removes the entry and all of its lines.
	DeleteEntry(ctx context.Context, entryID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
