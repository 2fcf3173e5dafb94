package services

import (
	"context"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
)

// SequenceSvc hands out human-readable document numbers.
type SequenceSvc interface {
	// Next allocates the next PREFIX-PERIODKEY-NNNN number. Called with a
	// transactional context the allocation joins that transaction.
	Next(ctx context.Context, kind domain.DocumentKind, periodKey string) (string, error)
}
