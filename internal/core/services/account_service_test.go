package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger_app/internal/core/services"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

// --- Implement mock methods for AccountRepositoryFacade ---

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByProvision(ctx context.Context, kind domain.ProvisionKind, key string) (*domain.Account, error) {
	args := m.Called(ctx, kind, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

func sampleAccount(code string, typ domain.AccountType) *domain.Account {
	return &domain.Account{
		AccountID:     uuid.NewString(),
		Code:          code,
		Name:          "Account " + code,
		AccountType:   typ,
		NormalBalance: typ.DefaultNormalBalance(),
		IsActive:      true,
	}
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "4100",
		Name:        "Sales Revenue",
		AccountType: domain.Income,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Code == "4100" &&
			acc.Name == "Sales Revenue" &&
			acc.AccountType == domain.Income &&
			acc.NormalBalance == domain.NormalCredit &&
			acc.IsActive &&
			acc.CreatedBy == testUser &&
			acc.AccountID != ""
	})).Return(nil).Once()

	createdAcc, err := suite.service.CreateAccount(ctx, req, testUser)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdAcc)
	suite.Equal(domain.NormalCredit, createdAcc.NormalBalance)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "9000", Name: "Odd", AccountType: "GADGET"}

	createdAcc, err := suite.service.CreateAccount(ctx, req, testUser)

	suite.Nil(createdAcc)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1100", Name: "Cash", AccountType: domain.Asset}
	repoErr := fmt.Errorf("%w: uq_accounts_code", apperrors.ErrDuplicate)

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(repoErr).Once()

	createdAcc, err := suite.service.CreateAccount(ctx, req, testUser)

	suite.Nil(createdAcc)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByCode_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "7777").Return(nil, apperrors.NewNotFoundError("account 7777")).Once()

	acc, err := suite.service.GetAccountByCode(ctx, "7777")

	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestResolve_InactiveAccountFails() {
	ctx := context.Background()
	acc := sampleAccount("6100", domain.Expense)
	acc.IsActive = false
	suite.mockRepo.On("FindAccountByCode", ctx, "6100").Return(acc, nil).Once()

	resolved, err := suite.service.Resolve(ctx, "6100")

	suite.Nil(resolved)
	suite.ErrorIs(err, apperrors.ErrAccountResolution)
}

func (suite *AccountServiceTestSuite) TestResolveByCategory_UsesCategoryCode() {
	ctx := context.Background()
	acc := sampleAccount("6100", domain.Expense)
	suite.mockRepo.On("FindAccountByCode", ctx, "6100").Return(acc, nil).Once()

	resolved, err := suite.service.ResolveByCategory(ctx, domain.CategoryOfficeSupplies)

	suite.Require().NoError(err)
	suite.Equal(acc.AccountID, resolved.AccountID)
}

func (suite *AccountServiceTestSuite) TestResolveByCategory_MissingFallback() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, domain.CodeSuspense).
		Return(nil, apperrors.NewNotFoundError("account 1900")).Once()

	resolved, err := suite.service.ResolveByCategory(ctx, domain.CategoryUncategorized)

	suite.Nil(resolved)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestProvision_NotConfigured() {
	ctx := context.Background()

	acc, err := suite.service.Provision(ctx, domain.ProvisionStaff, "Budi", testUser)

	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrInternal)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	acc := sampleAccount("6700", domain.Expense)
	suite.mockRepo.On("FindAccountByCode", ctx, "6700").Return(acc, nil).Once()
	suite.mockRepo.On("DeactivateAccount", ctx, acc.AccountID, testUser, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, "6700", testUser)

	suite.NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_AlreadyInactive() {
	ctx := context.Background()
	acc := sampleAccount("6700", domain.Expense)
	suite.mockRepo.On("FindAccountByCode", ctx, "6700").Return(acc, nil).Once()
	suite.mockRepo.On("DeactivateAccount", ctx, acc.AccountID, testUser, mock.AnythingOfType("time.Time")).
		Return(apperrors.NewValidationError("account is already inactive")).Once()

	err := suite.service.DeactivateAccount(ctx, "6700", testUser)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestSeedChart_SkipsExistingCodes() {
	ctx := context.Background()
	chart := []dto.ChartAccount{
		{Code: "1100", Name: "Cash", AccountType: "asset"},
		{Code: "2100", Name: "Accounts Payable", AccountType: domain.Liability},
	}
	suite.mockRepo.On("FindAccountByCode", ctx, "1100").Return(sampleAccount("1100", domain.Asset), nil).Once()
	suite.mockRepo.On("FindAccountByCode", ctx, "2100").Return(nil, apperrors.NewNotFoundError("account 2100")).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Code == "2100" && acc.NormalBalance == domain.NormalCredit
	})).Return(nil).Once()

	created, err := suite.service.SeedChart(ctx, chart, "seed")

	suite.Require().NoError(err)
	suite.Equal(1, created)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func TestProvision_AllocatesCodesInRange(t *testing.T) {
	h := newHarness(t)

	budi, err := h.svc.Account.Provision(h.ctx, domain.ProvisionStaff, " Budi ", testUser)
	require.NoError(t, err)
	assert.Equal(t, "1310", budi.Code)
	assert.Equal(t, "Staff Advance - Budi", budi.Name)
	assert.Equal(t, domain.Asset, budi.AccountType)

	again, err := h.svc.Account.Provision(h.ctx, domain.ProvisionStaff, "Budi", testUser)
	require.NoError(t, err)
	assert.Equal(t, budi.AccountID, again.AccountID, "provisioning is idempotent per key")

	supplier, err := h.svc.Account.Provision(h.ctx, domain.ProvisionSupplier, "PT Sumber", testUser)
	require.NoError(t, err)
	assert.Equal(t, "2110", supplier.Code)
	assert.Equal(t, domain.NormalCredit, supplier.NormalBalance)

	found, err := h.svc.Account.Lookup(h.ctx, domain.ProvisionStaff, "Budi")
	require.NoError(t, err)
	assert.Equal(t, budi.AccountID, found.AccountID)

	_, err = h.svc.Account.Lookup(h.ctx, domain.ProvisionStaff, "Sari")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProvision_SkipsTakenCodes(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Account.CreateAccount(h.ctx, dto.CreateAccountRequest{
		Code: "1210", Name: "Petty Bank", AccountType: domain.Asset,
	}, testUser)
	require.NoError(t, err)

	bank, err := h.svc.Account.Provision(h.ctx, domain.ProvisionBank, "BCA-001", testUser)
	require.NoError(t, err)
	assert.Equal(t, "1211", bank.Code)
}

func TestProvision_RangeExhausted(t *testing.T) {
	h := newHarness(t)
	counter := domain.AccountCodeCounter(domain.ProvisionBank)
	for i := 0; i < 90; i++ {
		_, err := h.repos.SequenceRepo.NextValue(h.ctx, counter, "")
		require.NoError(t, err)
	}

	acc, err := h.svc.Account.Provision(h.ctx, domain.ProvisionBank, "BCA-999", testUser)
	assert.Nil(t, acc)
	assert.ErrorIs(t, err, apperrors.ErrAccountResolution)
}

func TestProvision_RequiresKey(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Account.Provision(h.ctx, domain.ProvisionCustomer, "   ", testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
