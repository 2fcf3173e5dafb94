package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
)

type accountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	defer r.store.lock(ctx)()
	st := r.store.state

	for _, existing := range st.accounts {
		if existing.Code == account.Code {
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, account.Code)
		}
		if account.ProvisionKind != "" && existing.ProvisionKind == account.ProvisionKind && existing.ProvisionKey == account.ProvisionKey {
			return fmt.Errorf("%w: account for %s %q already exists", apperrors.ErrDuplicate, account.ProvisionKind, account.ProvisionKey)
		}
	}
	st.accounts[account.AccountID] = account
	return nil
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	defer r.store.lock(ctx)()
	acc, ok := r.store.state.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return &acc, nil
}

func (r *accountRepository) find(ctx context.Context, what string, match func(domain.Account) bool) (*domain.Account, error) {
	defer r.store.lock(ctx)()
	for _, acc := range r.store.state.accounts {
		if match(acc) {
			return &acc, nil
		}
	}
	return nil, apperrors.NewNotFoundError(what)
}

func (r *accountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return r.find(ctx, "account code "+code, func(a domain.Account) bool { return a.Code == code })
}

func (r *accountRepository) FindAccountByProvision(ctx context.Context, kind domain.ProvisionKind, key string) (*domain.Account, error) {
	what := fmt.Sprintf("%s account for %q", strings.ToLower(string(kind)), key)
	return r.find(ctx, what, func(a domain.Account) bool {
		return a.ProvisionKind == kind && a.ProvisionKey == key
	})
}

func (r *accountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	defer r.store.lock(ctx)()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := r.store.state.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	defer r.store.lock(ctx)()
	accounts := []domain.Account{}
	for _, acc := range r.store.state.accounts {
		if filter.AccountType != "" && acc.AccountType != filter.AccountType {
			continue
		}
		if filter.ProvisionKind != "" && acc.ProvisionKind != filter.ProvisionKind {
			continue
		}
		if filter.ProvisionKey != "" && acc.ProvisionKey != filter.ProvisionKey {
			continue
		}
		if filter.ActiveOnly && !acc.IsActive {
			continue
		}
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (r *accountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	defer r.store.lock(ctx)()
	acc, ok := r.store.state.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("account " + accountID)
	}
	if !acc.IsActive {
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrValidation, accountID)
	}
	acc.IsActive = false
	acc.Touch(userID, now)
	r.store.state.accounts[accountID] = acc
	return nil
}
