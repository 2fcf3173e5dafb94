package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// StatementUpload is the bank_statement_uploads table row.
type StatementUpload struct {
	UploadID          string          `db:"upload_id"`
	UploadNumber      string          `db:"upload_number"`
	BankAccountID     string          `db:"bank_account_id"`
	PeriodLabel       string          `db:"period_label"`
	StartDate         sql.NullTime    `db:"start_date"`
	EndDate           sql.NullTime    `db:"end_date"`
	Currency          string          `db:"currency"`
	OpeningBalance    decimal.Decimal `db:"opening_balance"`
	ClosingBalance    decimal.Decimal `db:"closing_balance"`
	TotalDebits       decimal.Decimal `db:"total_debits"`
	TotalCredits      decimal.Decimal `db:"total_credits"`
	TransactionCount  int             `db:"transaction_count"`
	SourceDocumentRef string          `db:"source_document_ref"`
	FileName          string          `db:"file_name"`
	Format            string          `db:"format"`
	Status            string          `db:"status"`
	UploadedBy        string          `db:"uploaded_by"`
	UploadedAt        time.Time       `db:"uploaded_at"`
}

// StatementLine is the bank_statement_lines table row.
type StatementLine struct {
	LineID               string              `db:"line_id"`
	UploadID             string              `db:"upload_id"`
	BankAccountID        string              `db:"bank_account_id"`
	LineNumber           int                 `db:"line_number"`
	TransactionDate      time.Time           `db:"transaction_date"`
	Description          string              `db:"description"`
	DebitAmount          decimal.Decimal     `db:"debit_amount"`
	CreditAmount         decimal.Decimal     `db:"credit_amount"`
	RunningBalance       decimal.NullDecimal `db:"running_balance"`
	Currency             string              `db:"currency"`
	ReconciliationStatus string              `db:"reconciliation_status"`
	MatchedJournalLineID sql.NullString      `db:"matched_journal_line_id"`
	MatchedAt            sql.NullTime        `db:"matched_at"`
	MatchedBy            sql.NullString      `db:"matched_by"`
}
