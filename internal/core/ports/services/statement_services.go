package services

import (
	"context"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
)

// StatementIngestSvc ingests bank statement documents
type StatementIngestSvc interface {
	// Upload extracts, parses and persists a statement. A document without any
	// recoverable transaction is rejected with *apperrors.ParseFailure.
	Upload(ctx context.Context, req dto.StatementUploadRequest) (*domain.StatementUpload, error)
}

// StatementReaderSvc defines read operations for statement data
type StatementReaderSvc interface {
	GetUpload(ctx context.Context, uploadID string) (*domain.StatementUpload, error)
	ListLines(ctx context.Context, uploadID string) ([]domain.StatementLine, error)
}

// StatementSvcFacade combines all statement-related service interfaces
type StatementSvcFacade interface {
	StatementIngestSvc
	StatementReaderSvc
}

// ReconciliationSvc links statement lines to ledger movements.
type ReconciliationSvc interface {
	MatchLine(ctx context.Context, lineID string, userID string) (*domain.MatchResult, error)
	MatchUpload(ctx context.Context, uploadID string, userID string) (*domain.ReconciliationSummary, error)
	MatchBankAccounts(ctx context.Context, bankAccountIDs []string, userID string) (*domain.ReconciliationSummary, error)
	ManualMatch(ctx context.Context, lineID string, journalLineID string, userID string) (*domain.MatchResult, error)
	Unmatch(ctx context.Context, lineID string, userID string) error
}
