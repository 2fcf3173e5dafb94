package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"github.com/google/uuid"
)

// provisionAttempts bounds retries when two callers race for the same counterparty.
const provisionAttempts = 3

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	sequenceRepo portsrepo.SequenceRepository
	txManager    portsrepo.TransactionManager
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithSequenceRepository adds the counter store used to allocate provisioned codes
func WithSequenceRepository(repo portsrepo.SequenceRepository) AccountServiceOption {
	return func(s *accountService) {
		s.sequenceRepo = repo
	}
}

// WithAccountTxManager adds the transaction manager used by Provision
func WithAccountTxManager(tm portsrepo.TransactionManager) AccountServiceOption {
	return func(s *accountService) {
		s.txManager = tm
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) Resolve(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s (%s) is inactive", apperrors.ErrAccountResolution, account.Code, account.Name)
	}
	return account, nil
}

func (s *accountService) ResolveByCategory(ctx context.Context, category domain.AccountCategory) (*domain.Account, error) {
	if !category.IsValid() {
		return nil, apperrors.NewValidationError("unknown account category %d", int(category))
	}
	if category.IsFallback() {
		s.LogWarn(ctx, "Posting to suspense account for uncategorized item",
			slog.String("account_code", category.AccountCode()))
	}
	account, err := s.Resolve(ctx, category.AccountCode())
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", category.Key(), err)
	}
	return account, nil
}

func (s *accountService) Lookup(ctx context.Context, kind domain.ProvisionKind, key string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByProvision(ctx, kind, strings.TrimSpace(key))
}

func (s *accountService) Provision(ctx context.Context, kind domain.ProvisionKind, key string, userID string) (*domain.Account, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, apperrors.NewValidationError("a %s key is required", strings.ToLower(string(kind)))
	}
	rng, ok := kind.Range()
	if !ok {
		return nil, apperrors.NewValidationError("unknown provision kind %q", kind)
	}
	if s.sequenceRepo == nil || s.txManager == nil {
		return nil, fmt.Errorf("%w: account provisioning is not configured", apperrors.ErrInternal)
	}

	// Inside a caller's transaction a lost race aborts that transaction, so the
	// caller owns the retry.
	attempts := provisionAttempts
	if s.txManager.InTx(ctx) {
		attempts = 1
	}

	var (
		account *domain.Account
		err     error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
			account, err = s.provisionOnce(ctx, kind, key, rng, userID)
			return err
		})
		if err == nil || !errors.Is(err, apperrors.ErrConcurrentUpdate) {
			break
		}
		s.LogDebug(ctx, "Provisioning raced, retrying",
			slog.String("kind", string(kind)), slog.String("key", key), slog.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) provisionOnce(ctx context.Context, kind domain.ProvisionKind, key string, rng domain.ProvisionRange, userID string) (*domain.Account, error) {
	existing, err := s.accountRepo.FindAccountByProvision(ctx, kind, key)
	if err == nil {
		if !existing.IsActive {
			return nil, fmt.Errorf("%w: %s account %s for %q is inactive", apperrors.ErrAccountResolution,
				strings.ToLower(string(kind)), existing.Code, key)
		}
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	counter := domain.AccountCodeCounter(kind)
	for {
		n, err := s.sequenceRepo.NextValue(ctx, counter, "")
		if err != nil {
			return nil, err
		}
		code := rng.From + int(n) - 1
		if !rng.Contains(code) {
			return nil, fmt.Errorf("%w: %s code range %d-%d is exhausted", apperrors.ErrAccountResolution,
				strings.ToLower(string(kind)), rng.From, rng.To)
		}
		codeStr := strconv.Itoa(code)
		if _, err := s.accountRepo.FindAccountByCode(ctx, codeStr); err == nil {
			// Taken by a manually created account.
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		now := s.Now()
		account := domain.Account{
			AccountID:     uuid.NewString(),
			Code:          codeStr,
			Name:          rng.NamePrefix + key,
			AccountType:   rng.AccountType,
			NormalBalance: rng.AccountType.DefaultNormalBalance(),
			IsActive:      true,
			ProvisionKind: kind,
			ProvisionKey:  key,
			AuditFields:   domain.NewAuditFields(userID, now),
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				// Someone else provisioned the key or took the code; the caller retries from scratch.
				return nil, fmt.Errorf("%w: %v", apperrors.ErrConcurrentUpdate, err)
			}
			return nil, err
		}
		s.LogInfo(ctx, "Account provisioned",
			slog.String("kind", string(kind)),
			slog.String("key", key),
			slog.String("code", codeStr))
		return &account, nil
	}
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewValidationError("invalid account type %q", req.AccountType)
	}
	normal := req.NormalBalance
	if normal == "" {
		normal = req.AccountType.DefaultNormalBalance()
	}
	if normal != domain.NormalDebit && normal != domain.NormalCredit {
		return nil, apperrors.NewValidationError("invalid normal balance %q", normal)
	}

	now := s.Now()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		Code:          strings.TrimSpace(req.Code),
		Name:          strings.TrimSpace(req.Name),
		AccountType:   req.AccountType,
		NormalBalance: normal,
		IsActive:      true,
		AuditFields:   domain.NewAuditFields(userID, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogUnexpected(ctx, err, "Failed to save account", slog.String("code", account.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find account by code", slog.String("code", code))
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, code string, userID string) error {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return err
	}
	if err := s.accountRepo.DeactivateAccount(ctx, account.AccountID, userID, s.Now()); err != nil {
		s.LogUnexpected(ctx, err, "Failed to deactivate account", slog.String("code", code))
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("code", code))
	return nil
}

func (s *accountService) SeedChart(ctx context.Context, chart []dto.ChartAccount, userID string) (int, error) {
	created := 0
	for _, row := range chart {
		if _, err := s.accountRepo.FindAccountByCode(ctx, row.Code); err == nil {
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return created, err
		}

		_, err := s.CreateAccount(ctx, dto.CreateAccountRequest{
			Code:          row.Code,
			Name:          row.Name,
			AccountType:   domain.AccountType(strings.ToUpper(string(row.AccountType))),
			NormalBalance: domain.NormalBalance(strings.ToUpper(string(row.NormalBalance))),
		}, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("seed account %s: %w", row.Code, err)
		}
		created++
	}
	s.LogInfo(ctx, "Chart of accounts seeded", slog.Int("created", created), slog.Int("rows", len(chart)))
	return created, nil
}
