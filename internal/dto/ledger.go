package dto

import (
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRangeParams are the optional date bounds of ledger queries (YYYY-MM-DD).
type LedgerRangeParams struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// AccountLedgerResponse is the running-balance view of one account.
type AccountLedgerResponse struct {
	Account        AccountResponse           `json:"account"`
	From           string                    `json:"from,omitempty"`
	To             string                    `json:"to,omitempty"`
	OpeningBalance decimal.Decimal           `json:"openingBalance" swaggertype:"string"`
	Rows           []domain.AccountLedgerRow `json:"rows"`
	ClosingBalance decimal.Decimal           `json:"closingBalance" swaggertype:"string"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	TotalDebit  decimal.Decimal `json:"totalDebit" swaggertype:"string"`
	TotalCredit decimal.Decimal `json:"totalCredit" swaggertype:"string"`
	NetBalance  decimal.Decimal `json:"netBalance" swaggertype:"string"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	From        string                    `json:"from,omitempty"`
	To          string                    `json:"to,omitempty"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"totalDebit" swaggertype:"string"`
	TotalCredit decimal.Decimal           `json:"totalCredit" swaggertype:"string"`
	CheckSum    decimal.Decimal           `json:"checkSum" swaggertype:"string"`
	Balanced    bool                      `json:"balanced"`
}

// PartyLedgerResponse groups the ledgers of a counterparty scope.
type PartyLedgerResponse struct {
	Party    string                  `json:"party"`
	Accounts []AccountLedgerResponse `json:"accounts"`
	Total    decimal.Decimal         `json:"total" swaggertype:"string"`
}

// ToAccountLedgerResponse converts a domain.AccountLedger.
func ToAccountLedgerResponse(l *domain.AccountLedger) AccountLedgerResponse {
	rows := l.Rows
	if rows == nil {
		rows = []domain.AccountLedgerRow{}
	}
	return AccountLedgerResponse{
		Account:        ToAccountResponse(&l.Account),
		From:           formatDate(l.Range.From),
		To:             formatDate(l.Range.To),
		OpeningBalance: l.OpeningBalance,
		Rows:           rows,
		ClosingBalance: l.ClosingBalance,
	}
}

// ToTrialBalanceResponse converts a domain.TrialBalance.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountCode: r.Account.Code,
			AccountName: r.Account.Name,
			AccountType: string(r.Account.AccountType),
			TotalDebit:  r.TotalDebit,
			TotalCredit: r.TotalCredit,
			NetBalance:  r.NetBalance,
		}
	}
	return TrialBalanceResponse{
		From:        formatDate(tb.Range.From),
		To:          formatDate(tb.Range.To),
		Rows:        rows,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
		CheckSum:    tb.CheckSum,
		Balanced:    tb.Balanced,
	}
}

// ToPartyLedgerResponse converts a domain.PartyLedger.
func ToPartyLedgerResponse(p *domain.PartyLedger) PartyLedgerResponse {
	accounts := make([]AccountLedgerResponse, len(p.Accounts))
	for i := range p.Accounts {
		accounts[i] = ToAccountLedgerResponse(&p.Accounts[i])
	}
	return PartyLedgerResponse{Party: p.Party, Accounts: accounts, Total: p.Total}
}
