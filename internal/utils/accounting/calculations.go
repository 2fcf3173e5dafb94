package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the account's normal balance to a debit/credit pair.
// DEBIT-normal accounts (assets, expenses) grow with debits, the others with credits.
func SignedAmount(normal domain.NormalBalance, debit, credit decimal.Decimal) decimal.Decimal {
	if normal == domain.NormalCredit {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// ValidateLines checks the shape of an entry before it is written: at least two
// lines, exactly one strictly positive side per line, and equal debit and credit totals.
func ValidateLines(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("journal entry must have at least two lines, got %d", len(lines))
	}

	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("line %d has a negative amount", l.LineNumber)
		}
		if l.Debit.IsPositive() == l.Credit.IsPositive() {
			return fmt.Errorf("line %d must carry exactly one of debit or credit", l.LineNumber)
		}
		if l.AccountID == "" {
			return fmt.Errorf("line %d has no account", l.LineNumber)
		}
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}

	if !debit.Equal(credit) {
		return fmt.Errorf("journal entry does not balance: debit %s, credit %s", debit.String(), credit.String())
	}
	return nil
}

// SortLedgerLines orders lines by entry date, entry number and line number.
func SortLedgerLines(lines []domain.LedgerLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if a.EntryNumber != b.EntryNumber {
			return a.EntryNumber < b.EntryNumber
		}
		return a.LineNumber < b.LineNumber
	})
}

// BuildAccountLedger projects the lines of one account into running-balance rows,
// starting from opening.
func BuildAccountLedger(account domain.Account, rng domain.DateRange, opening decimal.Decimal, lines []domain.LedgerLine) domain.AccountLedger {
	SortLedgerLines(lines)

	running := opening
	rows := make([]domain.AccountLedgerRow, 0, len(lines))
	for _, l := range lines {
		running = running.Add(SignedAmount(account.NormalBalance, l.Debit, l.Credit))
		rows = append(rows, domain.AccountLedgerRow{
			Date:           l.EntryDate,
			DocumentNumber: l.EntryNumber,
			Description:    l.Description,
			Debit:          l.Debit,
			Credit:         l.Credit,
			RunningBalance: running,
		})
	}

	return domain.AccountLedger{
		Account:        account,
		Range:          rng,
		OpeningBalance: opening,
		Rows:           rows,
		ClosingBalance: running,
	}
}

// OpeningBalance sums the signed movements of an account, used for the balance
// brought forward before a range.
func OpeningBalance(normal domain.NormalBalance, movements []domain.AccountMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(SignedAmount(normal, m.Debit, m.Credit))
	}
	return total
}

// BuildTrialBalance turns per-account movements into trial balance rows ordered
// by account code. Movements on accounts missing from the map are kept under a
// placeholder account so the check sum still covers them.
func BuildTrialBalance(accounts map[string]domain.Account, movements []domain.AccountMovement, rng domain.DateRange) domain.TrialBalance {
	tb := domain.TrialBalance{
		Range:       rng,
		Rows:        make([]domain.TrialBalanceRow, 0, len(movements)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		CheckSum:    decimal.Zero,
	}

	for _, m := range movements {
		if m.Debit.IsZero() && m.Credit.IsZero() {
			continue
		}
		acc, ok := accounts[m.AccountID]
		if !ok {
			acc = domain.Account{AccountID: m.AccountID, Name: "(unknown account)", NormalBalance: domain.NormalDebit}
		}
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			Account:     acc,
			TotalDebit:  m.Debit,
			TotalCredit: m.Credit,
			NetBalance:  SignedAmount(acc.NormalBalance, m.Debit, m.Credit),
		})
		tb.TotalDebit = tb.TotalDebit.Add(m.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(m.Credit)
		tb.CheckSum = tb.CheckSum.Add(m.Debit.Sub(m.Credit))
	}

	sort.Slice(tb.Rows, func(i, j int) bool {
		if tb.Rows[i].Account.Code != tb.Rows[j].Account.Code {
			return tb.Rows[i].Account.Code < tb.Rows[j].Account.Code
		}
		return tb.Rows[i].Account.AccountID < tb.Rows[j].Account.AccountID
	})
	tb.Balanced = tb.CheckSum.IsZero()
	return tb
}
