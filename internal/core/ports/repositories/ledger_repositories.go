package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader provides the read models behind ledger projections and reconciliation.
type LedgerReader interface {
	// ListLedgerLines returns lines of the given accounts ordered by entry date, entry number and line number.
	ListLedgerLines(ctx context.Context, accountIDs []string, rng domain.DateRange) ([]domain.LedgerLine, error)

	// SumMovements returns debit and credit totals per account with movement in range.
	// A nil accountIDs slice means every account.
	SumMovements(ctx context.Context, accountIDs []string, rng domain.DateRange) ([]domain.AccountMovement, error)

	// FindBankMovements returns unlinked lines on accountID with the given amount and side,
	// dated within [from, to].
	FindBankMovements(ctx context.Context, accountID string, amount decimal.Decimal, debit bool, from, to time.Time) ([]domain.LedgerLine, error)
}
