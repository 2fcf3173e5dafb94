package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is an optional inclusive [From, To] range of entry dates.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// LedgerLine is a journal line joined with its entry header, as read by the projections.
type LedgerLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	EntryNumber string          `json:"entryNumber"`
	EntryDate   time.Time       `json:"entryDate"`
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// AccountMovement is the debit and credit total of one account over a range.
type AccountMovement struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// AccountLedgerRow is one printed row of an account ledger.
type AccountLedgerRow struct {
	Date           time.Time       `json:"date"`
	DocumentNumber string          `json:"documentNumber"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountLedger is the running-balance view of a single account.
type AccountLedger struct {
	Account        Account            `json:"account"`
	Range          DateRange          `json:"-"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
	Rows           []AccountLedgerRow `json:"rows"`
	ClosingBalance decimal.Decimal    `json:"closingBalance"`
}

// TrialBalanceRow is one account's totals in a trial balance.
type TrialBalanceRow struct {
	Account     Account         `json:"account"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	NetBalance  decimal.Decimal `json:"netBalance"`
}

// TrialBalance lists every account with movement in range.
type TrialBalance struct {
	Range       DateRange         `json:"-"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	// CheckSum is Σ(debit - credit) over all accounts; anything but zero means a broken posting.
	CheckSum    decimal.Decimal   `json:"checkSum"`
	Balanced    bool              `json:"balanced"`
}

// PartyKey scopes a party ledger: every account of a provision kind, or one counterparty.
type PartyKey struct {
	Kind ProvisionKind
	Key  string
}

// ParsePartyKey accepts "staff" or "staff:Budi Santoso".
func ParsePartyKey(s string) (PartyKey, error) {
	kindPart, key, _ := strings.Cut(s, ":")
	kind, err := ParseProvisionKind(kindPart)
	if err != nil {
		return PartyKey{}, fmt.Errorf("invalid party key %q: %w", s, err)
	}
	return PartyKey{Kind: kind, Key: strings.TrimSpace(key)}, nil
}

func (p PartyKey) String() string {
	if p.Key == "" {
		return strings.ToLower(string(p.Kind))
	}
	return strings.ToLower(string(p.Kind)) + ":" + p.Key
}

// PartyLedger is a set of account ledgers scoped to counterparties.
type PartyLedger struct {
	Party    string          `json:"party"`
	Accounts []AccountLedger `json:"accounts"`
	Total    decimal.Decimal `json:"total"`
}
