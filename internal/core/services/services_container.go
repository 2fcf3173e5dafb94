package services

import (
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger_app/internal/platform/config"
	"github.com/SscSPs/finance_ledger_app/internal/statement"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	// Create the container structure first
	container := &portssvc.ServiceContainer{}

	// Account and sequence services come first since posting and reconciliation resolve through them
	container.Account = NewAccountService(
		repos.AccountRepo,
		WithSequenceRepository(repos.SequenceRepo),
		WithAccountTxManager(repos.TxManager),
	)
	container.Sequence = NewSequenceService(repos.SequenceRepo)

	container.Posting = NewPostingService(PostingServiceConfig{
		TxManager:     repos.TxManager,
		JournalRepo:   repos.JournalRepo,
		StatementRepo: repos.StatementRepo,
		Accounts:      container.Account,
		Sequence:      container.Sequence,
		MaxAttempts:   cfg.Posting.MaxAttempts,
	})
	container.Ledger = NewLedgerService(repos.AccountRepo, repos.LedgerRepo)

	parser := statement.NewParser(statement.Options{
		MinTextLength:        cfg.Statement.MinTextLength,
		DescriptionMaxLength: cfg.Statement.DescriptionMaxLength,
		DefaultCurrency:      cfg.DefaultCurrency,
		DefaultFormat:        cfg.Statement.DefaultFormat,
		MaxInflatedBytes:     cfg.Statement.MaxInflatedBytes,
	})
	container.Statement = NewStatementService(
		repos.TxManager,
		repos.StatementRepo,
		container.Sequence,
		parser,
		cfg.Statement.MaxUploadBytes,
	)

	container.Reconciliation = NewReconciliationService(ReconciliationServiceConfig{
		StatementRepo:     repos.StatementRepo,
		JournalRepo:       repos.JournalRepo,
		LedgerRepo:        repos.LedgerRepo,
		Accounts:          container.Account,
		DateToleranceDays: cfg.Reconcile.DateToleranceDays,
		Workers:           cfg.Reconcile.Workers,
		BatchSize:         cfg.Reconcile.BatchSize,
	})

	return container
}
