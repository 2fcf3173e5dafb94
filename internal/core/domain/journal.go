package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is one balanced accounting record produced by posting a source event.
type JournalEntry struct {
	EntryID               string        `json:"entryID"`
	EntryNumber           string        `json:"entryNumber"`
	EntryDate             time.Time     `json:"entryDate"`
	SourceModule          SourceModule  `json:"sourceModule"`
	SourceReferenceID     string        `json:"sourceReferenceID"`
	SourceReferenceNumber string        `json:"sourceReferenceNumber,omitempty"`
	Description           string        `json:"description"`
	Posted                bool          `json:"posted"`
	PostedAt              time.Time     `json:"postedAt"`
	ReversalOfEntryID     *string       `json:"reversalOfEntryID,omitempty"`
	Lines                 []JournalLine `json:"lines"`
	AuditFields
}

// JournalLine is one debit or credit leg of an entry against a single account.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// IsDebit reports whether the line sits on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount is the positive value of whichever side the line carries.
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// Totals returns the debit and credit sums of the entry's lines.
func (e JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// LineIDs returns the ids of every line of the entry.
func (e JournalEntry) LineIDs() []string {
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		ids = append(ids, l.LineID)
	}
	return ids
}

// PostingResult is what the posting engine hands back to a collaborator.
type PostingResult struct {
	Entry         *JournalEntry
	AlreadyPosted bool
}

// JournalFilter narrows journal entry listings.
type JournalFilter struct {
	SourceModule SourceModule
	From         *time.Time
	To           *time.Time
}
