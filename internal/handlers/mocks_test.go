package handlers_test

import (
	"context"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Resolve(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ResolveByCategory(ctx context.Context, category domain.AccountCategory) (*domain.Account, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) Provision(ctx context.Context, kind domain.ProvisionKind, key string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, kind, key, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) Lookup(ctx context.Context, kind domain.ProvisionKind, key string) (*domain.Account, error) {
	args := m.Called(ctx, kind, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, code string, userID string) error {
	args := m.Called(ctx, code, userID)
	return args.Error(0)
}
func (m *MockAccountService) SeedChart(ctx context.Context, chart []dto.ChartAccount, userID string) (int, error) {
	args := m.Called(ctx, chart, userID)
	return args.Int(0), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock PostingService ---
type MockPostingService struct {
	mock.Mock
}

func (m *MockPostingService) Post(ctx context.Context, event domain.SourceEvent, opts ...portssvc.PostOption) (*domain.PostingResult, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingResult), args.Error(1)
}
func (m *MockPostingService) Unpost(ctx context.Context, module domain.SourceModule, referenceID string, userID string, opts ...portssvc.PostOption) (*domain.JournalEntry, error) {
	args := m.Called(ctx, module, referenceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockPostingService) Reverse(ctx context.Context, entryID string, userID string) (*domain.PostingResult, error) {
	args := m.Called(ctx, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingResult), args.Error(1)
}
func (m *MockPostingService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockPostingService) GetEntryBySource(ctx context.Context, module domain.SourceModule, referenceID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, module, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockPostingService) ListEntries(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var token *string
	if t := args.Get(1); t != nil {
		token = t.(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), token, args.Error(2)
}

var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

// --- Mock SequenceService ---
type MockSequenceService struct {
	mock.Mock
}

func (m *MockSequenceService) Next(ctx context.Context, kind domain.DocumentKind, periodKey string) (string, error) {
	args := m.Called(ctx, kind, periodKey)
	return args.String(0), args.Error(1)
}

var _ portssvc.SequenceSvc = (*MockSequenceService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) AccountLedger(ctx context.Context, accountCode string, rng domain.DateRange) (*domain.AccountLedger, error) {
	args := m.Called(ctx, accountCode, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountLedger), args.Error(1)
}
func (m *MockLedgerService) TrialBalance(ctx context.Context, rng domain.DateRange) (*domain.TrialBalance, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}
func (m *MockLedgerService) PartyLedger(ctx context.Context, party domain.PartyKey, rng domain.DateRange) (*domain.PartyLedger, error) {
	args := m.Called(ctx, party, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartyLedger), args.Error(1)
}

var _ portssvc.LedgerSvc = (*MockLedgerService)(nil)

// --- Mock StatementService ---
type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) Upload(ctx context.Context, req dto.StatementUploadRequest) (*domain.StatementUpload, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementUpload), args.Error(1)
}
func (m *MockStatementService) GetUpload(ctx context.Context, uploadID string) (*domain.StatementUpload, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementUpload), args.Error(1)
}
func (m *MockStatementService) ListLines(ctx context.Context, uploadID string) ([]domain.StatementLine, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatementLine), args.Error(1)
}

var _ portssvc.StatementSvcFacade = (*MockStatementService)(nil)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) MatchLine(ctx context.Context, lineID string, userID string) (*domain.MatchResult, error) {
	args := m.Called(ctx, lineID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MatchResult), args.Error(1)
}
func (m *MockReconciliationService) MatchUpload(ctx context.Context, uploadID string, userID string) (*domain.ReconciliationSummary, error) {
	args := m.Called(ctx, uploadID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSummary), args.Error(1)
}
func (m *MockReconciliationService) MatchBankAccounts(ctx context.Context, bankAccountIDs []string, userID string) (*domain.ReconciliationSummary, error) {
	args := m.Called(ctx, bankAccountIDs, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSummary), args.Error(1)
}
func (m *MockReconciliationService) ManualMatch(ctx context.Context, lineID string, journalLineID string, userID string) (*domain.MatchResult, error) {
	args := m.Called(ctx, lineID, journalLineID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MatchResult), args.Error(1)
}
func (m *MockReconciliationService) Unmatch(ctx context.Context, lineID string, userID string) error {
	args := m.Called(ctx, lineID, userID)
	return args.Error(0)
}

var _ portssvc.ReconciliationSvc = (*MockReconciliationService)(nil)
