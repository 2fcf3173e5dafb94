package dto

import (
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit" swaggertype:"string"`
	Credit      decimal.Decimal `json:"credit" swaggertype:"string"`
	Description string          `json:"description"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID               string                `json:"entryID"`
	EntryNumber           string                `json:"entryNumber"`
	EntryDate             time.Time             `json:"entryDate"`
	SourceModule          string                `json:"sourceModule"`
	SourceReferenceID     string                `json:"sourceReferenceID"`
	SourceReferenceNumber string                `json:"sourceReferenceNumber,omitempty"`
	Description           string                `json:"description"`
	Posted                bool                  `json:"posted"`
	PostedAt              time.Time             `json:"postedAt"`
	ReversalOfEntryID     *string               `json:"reversalOfEntryID,omitempty"`
	CreatedBy             string                `json:"createdBy"`
	Lines                 []JournalLineResponse `json:"lines,omitempty"`
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	SourceModule string  `form:"sourceModule"`
	From         string  `form:"from"`
	To           string  `form:"to"`
	Limit        int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken    *string `form:"nextToken"`
}

// ListJournalEntriesResponse wraps a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:      l.LineID,
			LineNumber:  l.LineNumber,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	return JournalEntryResponse{
		EntryID:               e.EntryID,
		EntryNumber:           e.EntryNumber,
		EntryDate:             e.EntryDate,
		SourceModule:          string(e.SourceModule),
		SourceReferenceID:     e.SourceReferenceID,
		SourceReferenceNumber: e.SourceReferenceNumber,
		Description:           e.Description,
		Posted:                e.Posted,
		PostedAt:              e.PostedAt,
		ReversalOfEntryID:     e.ReversalOfEntryID,
		CreatedBy:             e.CreatedBy,
		Lines:                 lines,
	}
}

// ToJournalEntryResponses converts a slice of entries.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	out := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToJournalEntryResponse(&entries[i])
	}
	return out
}
