package services

import (
	"context"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
)

// SourceWriteFunc persists (or deletes) the collaborator's own source event. It
// runs inside the posting transaction; returning an error aborts the posting.
type SourceWriteFunc func(ctx context.Context) error

// PostOptions are the optional settings of a posting call.
type PostOptions struct {
	SourceWrite SourceWriteFunc
}

// PostOption configures a posting call.
type PostOption func(*PostOptions)

// WithSourceWrite runs fn in the same transaction as the ledger write.
func WithSourceWrite(fn SourceWriteFunc) PostOption {
	return func(o *PostOptions) {
		o.SourceWrite = fn
	}
}

// PostingWriterSvc turns source events into journal entries
type PostingWriterSvc interface {
	// Post writes exactly one balanced entry for the event, or returns the entry
	// already posted for the same source reference.
	Post(ctx context.Context, event domain.SourceEvent, opts ...PostOption) (*domain.PostingResult, error)

	// Unpost deletes the entry posted for the source reference and all of its lines.
	Unpost(ctx context.Context, module domain.SourceModule, referenceID string, userID string, opts ...PostOption) (*domain.JournalEntry, error)

	// Reverse posts a mirror entry cancelling entryID.
	Reverse(ctx context.Context, entryID string, userID string) (*domain.PostingResult, error)
}

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	GetEntryBySource(ctx context.Context, module domain.SourceModule, referenceID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// PostingSvcFacade combines all posting and journal service interfaces
type PostingSvcFacade interface {
	PostingWriterSvc
	JournalReaderSvc
}
