package domain

import (
	"fmt"
	"strings"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// DefaultNormalBalance is the side that increases an account of this type.
func (t AccountType) DefaultNormalBalance() NormalBalance {
	switch t {
	case Asset, Expense:
		return NormalDebit
	default:
		return NormalCredit
	}
}

// NormalBalance is the "natural" increasing side of an account.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// Well-known chart codes the posting rules depend on.
const (
	CodeCash               = "1100"
	CodeAccountsReceivable = "1400"
	CodeSuspense           = "1900"
	CodeAccountsPayable    = "2100"
	CodeOwnerEquity        = "3100"
)

// Account represents a ledger account in the chart of accounts.
type Account struct {
	AccountID     string        `json:"accountID"`
	Code          string        `json:"code"`
	Name          string        `json:"name"`
	AccountType   AccountType   `json:"accountType"`
	NormalBalance NormalBalance `json:"normalBalance"`
	IsActive      bool          `json:"isActive"`
	// ProvisionKind and ProvisionKey are set for accounts created on demand
	// for a counterparty (staff member, bank account, customer, supplier).
	ProvisionKind ProvisionKind `json:"provisionKind,omitempty"`
	ProvisionKey  string        `json:"provisionKey,omitempty"`
	AuditFields
}

// ProvisionKind is the namespace of on-demand accounts.
type ProvisionKind string

const (
	ProvisionStaff    ProvisionKind = "STAFF"
	ProvisionBank     ProvisionKind = "BANK"
	ProvisionCustomer ProvisionKind = "CUSTOMER"
	ProvisionSupplier ProvisionKind = "SUPPLIER"
)

// ProvisionRange describes the reserved code range and shape of provisioned accounts.
type ProvisionRange struct {
	From        int
	To          int
	AccountType AccountType
	NamePrefix  string
}

var provisionRanges = map[ProvisionKind]ProvisionRange{
	ProvisionBank:     {From: 1210, To: 1299, AccountType: Asset, NamePrefix: "Bank - "},
	ProvisionStaff:    {From: 1310, To: 1399, AccountType: Asset, NamePrefix: "Staff Advance - "},
	ProvisionCustomer: {From: 1410, To: 1499, AccountType: Asset, NamePrefix: "Receivable - "},
	ProvisionSupplier: {From: 2110, To: 2199, AccountType: Liability, NamePrefix: "Payable - "},
}

// Range returns the reserved code range for the kind.
func (k ProvisionKind) Range() (ProvisionRange, bool) {
	r, ok := provisionRanges[k]
	return r, ok
}

// ParseProvisionKind accepts the kind name in any case.
func ParseProvisionKind(s string) (ProvisionKind, error) {
	k := ProvisionKind(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := provisionRanges[k]; !ok {
		return "", fmt.Errorf("unknown provision kind %q", s)
	}
	return k, nil
}

// Contains reports whether code falls in the reserved range.
func (r ProvisionRange) Contains(code int) bool {
	return code >= r.From && code <= r.To
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	AccountType   AccountType
	ProvisionKind ProvisionKind
	ProvisionKey  string
	ActiveOnly    bool
}
