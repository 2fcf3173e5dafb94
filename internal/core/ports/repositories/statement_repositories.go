package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
)

// StatementReader defines read operations for statement uploads and lines
type StatementReader interface {
	FindUploadByID(ctx context.Context, uploadID string) (*domain.StatementUpload, error)

	// FindUploadByDocument finds an earlier upload of the same document for the bank account.
	FindUploadByDocument(ctx context.Context, bankAccountID string, sourceDocumentRef string) (*domain.StatementUpload, error)

	ListLinesByUpload(ctx context.Context, uploadID string) ([]domain.StatementLine, error)

	FindLineByID(ctx context.Context, lineID string) (*domain.StatementLine, error)

	// ListUnmatchedLines returns up to limit unmatched lines of a bank account, oldest first.
	ListUnmatchedLines(ctx context.Context, bankAccountID string, limit int) ([]domain.StatementLine, error)
}

// StatementWriter defines write operations for statement uploads and lines
type StatementWriter interface {
	// SaveUpload inserts the upload and all of its lines.
	SaveUpload(ctx context.Context, upload domain.StatementUpload, lines []domain.StatementLine) error

	// MarkLineMatched flips an UNMATCHED line to MATCHED. It reports false when the
	// line was no longer unmatched. A journal line already linked elsewhere yields
	// apperrors.ErrConflict.
	MarkLineMatched(ctx context.Context, lineID string, journalLineID string, userID string, at time.Time) (bool, error)

	// MarkLineUnmatched flips a MATCHED line back to UNMATCHED and clears the link.
	MarkLineUnmatched(ctx context.Context, lineID string) (bool, error)

	// UnlinkJournalLines resets every statement line linked to the given journal lines.
	UnlinkJournalLines(ctx context.Context, journalLineIDs []string) (int64, error)
}

// StatementRepositoryFacade combines all statement-related repository interfaces
type StatementRepositoryFacade interface {
	StatementReader
	StatementWriter
}
