package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UploadStatus is the terminal state of a statement upload.
type UploadStatus string

const (
	UploadCompleted UploadStatus = "COMPLETED"
	// UploadFailed is reported to the caller; failed uploads are never persisted.
	UploadFailed UploadStatus = "FAILED"
)

// ReconciliationStatus is the matching state of a statement line.
type ReconciliationStatus string

const (
	StatusUnmatched ReconciliationStatus = "UNMATCHED"
	StatusMatched   ReconciliationStatus = "MATCHED"
)

// StatementUpload is one ingested bank statement document.
type StatementUpload struct {
	UploadID          string          `json:"uploadID"`
	UploadNumber      string          `json:"uploadNumber"`
	BankAccountID     string          `json:"bankAccountID"`
	PeriodLabel       string          `json:"periodLabel"`
	StartDate         *time.Time      `json:"startDate,omitempty"`
	EndDate           *time.Time      `json:"endDate,omitempty"`
	Currency          string          `json:"currency"`
	OpeningBalance    decimal.Decimal `json:"openingBalance"`
	ClosingBalance    decimal.Decimal `json:"closingBalance"`
	TotalDebits       decimal.Decimal `json:"totalDebits"`
	TotalCredits      decimal.Decimal `json:"totalCredits"`
	TransactionCount  int             `json:"transactionCount"`
	SourceDocumentRef string          `json:"sourceDocumentRef"`
	FileName          string          `json:"fileName"`
	Format            string          `json:"format"`
	Status            UploadStatus    `json:"status"`
	UploadedBy        string          `json:"uploadedBy"`
	UploadedAt        time.Time       `json:"uploadedAt"`
}

// StatementLine is one transaction row recovered from a statement.
type StatementLine struct {
	LineID               string               `json:"lineID"`
	UploadID             string               `json:"uploadID"`
	BankAccountID        string               `json:"bankAccountID"`
	LineNumber           int                  `json:"lineNumber"`
	TransactionDate      time.Time            `json:"transactionDate"`
	Description          string               `json:"description"`
	DebitAmount          decimal.Decimal      `json:"debitAmount"`
	CreditAmount         decimal.Decimal      `json:"creditAmount"`
	RunningBalance       *decimal.Decimal     `json:"runningBalance,omitempty"`
	Currency             string               `json:"currency"`
	ReconciliationStatus ReconciliationStatus `json:"reconciliationStatus"`
	MatchedJournalLineID *string              `json:"matchedJournalLineID,omitempty"`
	MatchedAt            *time.Time           `json:"matchedAt,omitempty"`
	MatchedBy            *string              `json:"matchedBy,omitempty"`
}

// IsCredit reports whether the line is money coming into the bank account.
func (l StatementLine) IsCredit() bool {
	return l.CreditAmount.IsPositive()
}

// Amount is the positive value of the line, whichever side it is on.
func (l StatementLine) Amount() decimal.Decimal {
	if l.CreditAmount.IsPositive() {
		return l.CreditAmount
	}
	return l.DebitAmount
}
