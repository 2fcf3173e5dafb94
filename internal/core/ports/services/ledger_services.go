package services

import (
	"context"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
)

// LedgerSvc exposes read-only projections over the journal.
type LedgerSvc interface {
	AccountLedger(ctx context.Context, accountCode string, rng domain.DateRange) (*domain.AccountLedger, error)
	TrialBalance(ctx context.Context, rng domain.DateRange) (*domain.TrialBalance, error)
	PartyLedger(ctx context.Context, party domain.PartyKey, rng domain.DateRange) (*domain.PartyLedger, error)
}
