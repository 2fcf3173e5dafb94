package dto

import (
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code          string               `json:"code" binding:"required,numeric,min=3,max=10"`
	Name          string               `json:"name" binding:"required,max=255"`
	AccountType   domain.AccountType   `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	NormalBalance domain.NormalBalance `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"` // Defaults from the account type
}

// ProvisionAccountRequest asks for the account of a counterparty.
type ProvisionAccountRequest struct {
	Kind string `json:"kind" binding:"required,oneof=STAFF BANK CUSTOMER SUPPLIER staff bank customer supplier"`
	Key  string `json:"key" binding:"required,max=255"`
}

// ChartAccount is one row of the chart of accounts seed file.
type ChartAccount struct {
	Code          string               `yaml:"code" json:"code"`
	Name          string               `yaml:"name" json:"name"`
	AccountType   domain.AccountType   `yaml:"type" json:"accountType"`
	NormalBalance domain.NormalBalance `yaml:"normal_balance,omitempty" json:"normalBalance,omitempty"`
}

// ChartFile is the layout of the chart of accounts seed file.
type ChartFile struct {
	Accounts []ChartAccount `yaml:"accounts"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	Code          string               `json:"code"`
	Name          string               `json:"name"`
	AccountType   domain.AccountType   `json:"accountType"`
	NormalBalance domain.NormalBalance `json:"normalBalance"`
	IsActive      bool                 `json:"isActive"`
	ProvisionKind string               `json:"provisionKind,omitempty"`
	ProvisionKey  string               `json:"provisionKey,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy string               `json:"lastUpdatedBy"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType   string `form:"type"`
	ProvisionKind string `form:"provisionKind"`
	ActiveOnly    bool   `form:"activeOnly"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		NormalBalance: acc.NormalBalance,
		IsActive:      acc.IsActive,
		ProvisionKind: string(acc.ProvisionKind),
		ProvisionKey:  acc.ProvisionKey,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}
