package dto

import (
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementUploadRequest carries one statement document into the ingestion pipeline.
type StatementUploadRequest struct {
	BankAccountID string
	FileName      string
	// Format names a registered statement format; empty means the configured default.
	Format     string
	Document   []byte
	UploadedBy string
}

// StatementUploadResponse is returned after a statement has been ingested.
type StatementUploadResponse struct {
	Success          bool            `json:"success"`
	UploadID         string          `json:"uploadID"`
	UploadNumber     string          `json:"uploadNumber"`
	TransactionCount int             `json:"transactionCount"`
	Period           string          `json:"period"`
	OpeningBalance   decimal.Decimal `json:"openingBalance" swaggertype:"string"`
	ClosingBalance   decimal.Decimal `json:"closingBalance" swaggertype:"string"`
}

// StatementLineResponse defines the data returned for one statement line.
type StatementLineResponse struct {
	LineID               string           `json:"lineID"`
	LineNumber           int              `json:"lineNumber"`
	TransactionDate      string           `json:"transactionDate"`
	Description          string           `json:"description"`
	DebitAmount          decimal.Decimal  `json:"debitAmount" swaggertype:"string"`
	CreditAmount         decimal.Decimal  `json:"creditAmount" swaggertype:"string"`
	RunningBalance       *decimal.Decimal `json:"runningBalance,omitempty" swaggertype:"string"`
	Currency             string           `json:"currency"`
	ReconciliationStatus string           `json:"reconciliationStatus"`
	MatchedJournalLineID *string          `json:"matchedJournalLineID,omitempty"`
	MatchedAt            *time.Time       `json:"matchedAt,omitempty"`
}

// ToStatementUploadResponse converts a persisted upload.
func ToStatementUploadResponse(u *domain.StatementUpload) StatementUploadResponse {
	return StatementUploadResponse{
		Success:          u.Status == domain.UploadCompleted,
		UploadID:         u.UploadID,
		UploadNumber:     u.UploadNumber,
		TransactionCount: u.TransactionCount,
		Period:           u.PeriodLabel,
		OpeningBalance:   u.OpeningBalance,
		ClosingBalance:   u.ClosingBalance,
	}
}

// ToStatementLineResponses converts statement lines.
func ToStatementLineResponses(lines []domain.StatementLine) []StatementLineResponse {
	out := make([]StatementLineResponse, len(lines))
	for i, l := range lines {
		out[i] = StatementLineResponse{
			LineID:               l.LineID,
			LineNumber:           l.LineNumber,
			TransactionDate:      l.TransactionDate.Format(DateLayout),
			Description:          l.Description,
			DebitAmount:          l.DebitAmount,
			CreditAmount:         l.CreditAmount,
			RunningBalance:       l.RunningBalance,
			Currency:             l.Currency,
			ReconciliationStatus: string(l.ReconciliationStatus),
			MatchedJournalLineID: l.MatchedJournalLineID,
			MatchedAt:            l.MatchedAt,
		}
	}
	return out
}

// ManualMatchRequest links a statement line to a chosen journal line.
type ManualMatchRequest struct {
	JournalLineID string `json:"journalLineID" binding:"required,uuid"`
}

// MatchBankAccountsRequest runs reconciliation for several bank accounts.
type MatchBankAccountsRequest struct {
	BankAccountIDs []string `json:"bankAccountIDs" binding:"required,min=1,dive,required"`
}
