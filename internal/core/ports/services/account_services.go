package services

import (
	"context"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
)

// AccountResolverSvc resolves accounts for posting rules
type AccountResolverSvc interface {
	// Resolve returns the active account with the given code.
	Resolve(ctx context.Context, code string) (*domain.Account, error)

	// ResolveByCategory returns the account mapped to the category. Uncategorized
	// resolves to the suspense account and is logged.
	ResolveByCategory(ctx context.Context, category domain.AccountCategory) (*domain.Account, error)

	// Provision returns the account for (kind, key), creating it inside the kind's
	// reserved code range when it does not exist yet.
	Provision(ctx context.Context, kind domain.ProvisionKind, key string, userID string) (*domain.Account, error)

	// Lookup is the non-creating variant of Provision.
	Lookup(ctx context.Context, kind domain.ProvisionKind, key string) (*domain.Account, error)
}

// AccountAdminSvc defines administrative operations on the chart of accounts
type AccountAdminSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, code string, userID string) error

	// SeedChart creates every chart account whose code does not exist yet and
	// returns how many were created.
	SeedChart(ctx context.Context, chart []dto.ChartAccount, userID string) (int, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountResolverSvc
	AccountAdminSvc
}
