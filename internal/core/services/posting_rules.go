package services

import (
	"context"
	"strings"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// leg is one resolved side of a posting before it becomes a journal line.
type leg struct {
	account     *domain.Account
	amount      decimal.Decimal
	description string
}

type legFunc func(ctx context.Context, b *legBuilder, ev domain.SourceEvent, rule postingRule) ([]leg, error)

type ruleKey struct {
	module    domain.SourceModule
	eventType domain.EventType
}

// postingRule describes the debit and credit legs of one (module, event type).
type postingRule struct {
	// side is the category side the rule accepts; empty when it never posts to categories.
	side domain.CategorySide
	// party is the counterparty account used instead of categories when a partyKey is given.
	party         domain.ProvisionKind
	requiresStaff bool
	requiresBank  bool
	debit         legFunc
	credit        legFunc
}

var postingRules = map[ruleKey]postingRule{
	{domain.ModuleCashBox, domain.EventWithdrawal}: {
		requiresBank: true,
		debit:        cashLeg,
		credit:       bankLeg,
	},
	{domain.ModuleCashBox, domain.EventExpense}: {
		side:   domain.SideExpense,
		debit:  categoryLegs,
		credit: fundingLeg,
	},
	{domain.ModuleStaffAdvance, domain.EventAdvance}: {
		requiresStaff: true,
		debit:         staffLeg,
		credit:        fundingLeg,
	},
	{domain.ModuleStaffAdvance, domain.EventRepayment}: {
		requiresStaff: true,
		debit:         fundingLeg,
		credit:        staffLeg,
	},
	{domain.ModuleStaffAdvance, domain.EventSettlement}: {
		side:          domain.SideExpense,
		requiresStaff: true,
		debit:         categoryLegs,
		credit:        staffLeg,
	},
	{domain.ModulePaymentVoucher, domain.EventPayment}: {
		side:   domain.SideExpense,
		party:  domain.ProvisionSupplier,
		debit:  partyOrCategoryLegs,
		credit: fundingLeg,
	},
	{domain.ModuleReceiptVoucher, domain.EventReceipt}: {
		side:   domain.SideIncome,
		party:  domain.ProvisionCustomer,
		debit:  fundingLeg,
		credit: partyOrCategoryLegs,
	},
}

func lookupRule(module domain.SourceModule, eventType domain.EventType) (postingRule, bool) {
	r, ok := postingRules[ruleKey{module, eventType}]
	return r, ok
}

func (r postingRule) usesCategories(ev domain.SourceEvent) bool {
	if r.side == "" {
		return false
	}
	return r.party == "" || strings.TrimSpace(ev.PartyKey) == ""
}

// check enforces the preconditions of the rule; every violation names the missing link.
func (r postingRule) check(ev domain.SourceEvent) error {
	total := ev.Total()
	if !total.IsPositive() {
		return apperrors.NewValidationError("amount must be greater than zero")
	}

	if len(ev.Splits) > 0 {
		sum := decimal.Zero
		for i, s := range ev.Splits {
			if !s.Amount.IsPositive() {
				return apperrors.NewValidationError("split %d: amount must be greater than zero", i+1)
			}
			sum = sum.Add(s.Amount)
		}
		if !sum.Equal(total) {
			return apperrors.NewValidationError("split amounts total %s but the event amount is %s", sum.String(), total.String())
		}
	}

	if ev.FundingOrDefault() == domain.FundingBank && strings.TrimSpace(ev.BankAccountID) == "" {
		return apperrors.NewValidationError("bank funding requires bankAccountID")
	}
	if r.requiresBank && strings.TrimSpace(ev.BankAccountID) == "" {
		return apperrors.NewValidationError("%s requires bankAccountID", strings.ToLower(string(ev.Type)))
	}
	if r.requiresStaff && strings.TrimSpace(ev.StaffKey) == "" {
		return apperrors.NewValidationError("staff advance events require staffKey")
	}

	if r.usesCategories(ev) {
		for _, a := range ev.Allocations() {
			if !a.Category.IsValid() {
				return apperrors.NewValidationError("unknown account category %d", int(a.Category))
			}
			if !a.Category.AllowedOn(r.side) {
				return apperrors.NewValidationError("category %s cannot be used on a %s %s event",
					a.Category.Key(), strings.ToLower(string(ev.Module)), strings.ToLower(string(ev.Type)))
			}
			if a.Category.RequiresCostObject() && strings.TrimSpace(a.CostObjectID) == "" {
				return apperrors.NewValidationError("category %s requires costObjectID", a.Category.Key())
			}
		}
	}
	return nil
}

// legBuilder resolves the accounts behind each leg.
type legBuilder struct {
	accounts portssvc.AccountResolverSvc
	userID   string
}

func (b *legBuilder) single(account *domain.Account, ev domain.SourceEvent) []leg {
	return []leg{{account: account, amount: ev.Total(), description: ev.Description}}
}

func cashLeg(ctx context.Context, b *legBuilder, ev domain.SourceEvent, _ postingRule) ([]leg, error) {
	account, err := b.accounts.Resolve(ctx, domain.CodeCash)
	if err != nil {
		return nil, err
	}
	return b.single(account, ev), nil
}

func bankLeg(ctx context.Context, b *legBuilder, ev domain.SourceEvent, _ postingRule) ([]leg, error) {
	account, err := b.accounts.Provision(ctx, domain.ProvisionBank, ev.BankAccountID, b.userID)
	if err != nil {
		return nil, err
	}
	return b.single(account, ev), nil
}

func fundingLeg(ctx context.Context, b *legBuilder, ev domain.SourceEvent, rule postingRule) ([]leg, error) {
	if ev.FundingOrDefault() == domain.FundingBank {
		return bankLeg(ctx, b, ev, rule)
	}
	return cashLeg(ctx, b, ev, rule)
}

func staffLeg(ctx context.Context, b *legBuilder, ev domain.SourceEvent, _ postingRule) ([]leg, error) {
	account, err := b.accounts.Provision(ctx, domain.ProvisionStaff, ev.StaffKey, b.userID)
	if err != nil {
		return nil, err
	}
	return b.single(account, ev), nil
}

func categoryLegs(ctx context.Context, b *legBuilder, ev domain.SourceEvent, _ postingRule) ([]leg, error) {
	allocs := ev.Allocations()
	legs := make([]leg, 0, len(allocs))
	for _, a := range allocs {
		account, err := b.accounts.ResolveByCategory(ctx, a.Category)
		if err != nil {
			return nil, err
		}
		desc := a.Description
		if desc == "" {
			desc = ev.Description
		}
		legs = append(legs, leg{account: account, amount: a.Amount, description: desc})
	}
	return legs, nil
}

func partyOrCategoryLegs(ctx context.Context, b *legBuilder, ev domain.SourceEvent, rule postingRule) ([]leg, error) {
	if rule.usesCategories(ev) {
		return categoryLegs(ctx, b, ev, rule)
	}
	account, err := b.accounts.Provision(ctx, rule.party, ev.PartyKey, b.userID)
	if err != nil {
		return nil, err
	}
	return b.single(account, ev), nil
}

// buildLines resolves both sides of the rule and numbers the lines debits first.
func (r postingRule) buildLines(ctx context.Context, b *legBuilder, ev domain.SourceEvent) ([]domain.JournalLine, error) {
	debits, err := r.debit(ctx, b, ev, r)
	if err != nil {
		return nil, err
	}
	credits, err := r.credit(ctx, b, ev, r)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.JournalLine, 0, len(debits)+len(credits))
	appendLine := func(l leg, debit bool) {
		line := domain.JournalLine{
			LineNumber:  len(lines) + 1,
			AccountID:   l.account.AccountID,
			AccountCode: l.account.Code,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
			Description: l.description,
		}
		if debit {
			line.Debit = l.amount
		} else {
			line.Credit = l.amount
		}
		lines = append(lines, line)
	}
	for _, l := range debits {
		appendLine(l, true)
	}
	for _, l := range credits {
		appendLine(l, false)
	}
	return lines, nil
}
