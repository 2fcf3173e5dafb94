package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the journal_entries table row.
type JournalEntry struct {
	EntryID               string         `db:"entry_id"`
	EntryNumber           string         `db:"entry_number"`
	EntryDate             time.Time      `db:"entry_date"`
	SourceModule          string         `db:"source_module"`
	SourceReferenceID     string         `db:"source_reference_id"`
	SourceReferenceNumber sql.NullString `db:"source_reference_number"`
	Description           sql.NullString `db:"description"`
	Posted                bool           `db:"posted"`
	PostedAt              time.Time      `db:"posted_at"`
	ReversalOfEntryID     sql.NullString `db:"reversal_of_entry_id"`
	AuditFields
}

// JournalLine is the journal_lines table row. AccountCode is joined from accounts.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	LineNumber  int             `db:"line_number"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"code"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description sql.NullString  `db:"description"`
}
