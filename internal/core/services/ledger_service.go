package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ledgerService builds the read-only projections over the journal.
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerReader
}

// NewLedgerService creates the ledger projection service.
func NewLedgerService(accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerReader) portssvc.LedgerSvc {
	return &ledgerService{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

func validateRange(rng domain.DateRange) error {
	if rng.From != nil && rng.To != nil && rng.To.Before(*rng.From) {
		return apperrors.NewValidationError("'to' date must not be before 'from' date")
	}
	return nil
}

func (s *ledgerService) AccountLedger(ctx context.Context, accountCode string, rng domain.DateRange) (*domain.AccountLedger, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByCode(ctx, accountCode)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find account for ledger", slog.String("code", accountCode))
		return nil, err
	}
	ledger, err := s.accountLedger(ctx, *account, rng)
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (s *ledgerService) accountLedger(ctx context.Context, account domain.Account, rng domain.DateRange) (domain.AccountLedger, error) {
	ids := []string{account.AccountID}

	opening := decimal.Zero
	if rng.From != nil {
		before := rng.From.AddDate(0, 0, -1)
		movements, err := s.ledgerRepo.SumMovements(ctx, ids, domain.DateRange{To: &before})
		if err != nil {
			s.LogError(ctx, err, "Failed to sum opening movements", slog.String("code", account.Code))
			return domain.AccountLedger{}, err
		}
		opening = accounting.OpeningBalance(account.NormalBalance, movements)
	}

	lines, err := s.ledgerRepo.ListLedgerLines(ctx, ids, rng)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger lines", slog.String("code", account.Code))
		return domain.AccountLedger{}, err
	}
	return accounting.BuildAccountLedger(account, rng, opening, lines), nil
}

func (s *ledgerService) TrialBalance(ctx context.Context, rng domain.DateRange) (*domain.TrialBalance, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	movements, err := s.ledgerRepo.SumMovements(ctx, nil, rng)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum movements for trial balance")
		return nil, err
	}

	ids := make([]string, 0, len(movements))
	for _, m := range movements {
		ids = append(ids, m.AccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for trial balance")
		return nil, err
	}

	tb := accounting.BuildTrialBalance(accounts, movements, rng)
	if !tb.Balanced {
		s.LogError(ctx, apperrors.ErrImbalancedEntry, "Trial balance check sum is not zero",
			slog.String("check_sum", tb.CheckSum.String()),
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()))
	}
	return &tb, nil
}

func (s *ledgerService) PartyLedger(ctx context.Context, party domain.PartyKey, rng domain.DateRange) (*domain.PartyLedger, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	if _, ok := party.Kind.Range(); !ok {
		return nil, apperrors.NewValidationError("unknown party kind %q", party.Kind)
	}

	var accounts []domain.Account
	if party.Key != "" {
		account, err := s.accountRepo.FindAccountByProvision(ctx, party.Kind, party.Key)
		if err != nil {
			return nil, err
		}
		accounts = []domain.Account{*account}
	} else {
		var err error
		accounts, err = s.accountRepo.ListAccounts(ctx, domain.AccountFilter{ProvisionKind: party.Kind})
		if err != nil {
			s.LogError(ctx, err, "Failed to list party accounts", slog.String("party", party.String()))
			return nil, err
		}
	}

	result := &domain.PartyLedger{
		Party:    party.String(),
		Accounts: make([]domain.AccountLedger, 0, len(accounts)),
		Total:    decimal.Zero,
	}
	for _, account := range accounts {
		ledger, err := s.accountLedger(ctx, account, rng)
		if err != nil {
			return nil, err
		}
		result.Accounts = append(result.Accounts, ledger)
		result.Total = result.Total.Add(ledger.ClosingBalance)
	}
	return result, nil
}
