package mapping

import (
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/SscSPs/finance_ledger_app/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:               d.EntryID,
		EntryNumber:           d.EntryNumber,
		EntryDate:             d.EntryDate,
		SourceModule:          string(d.SourceModule),
		SourceReferenceID:     d.SourceReferenceID,
		SourceReferenceNumber: nullString(d.SourceReferenceNumber),
		Description:           nullString(d.Description),
		Posted:                d.Posted,
		PostedAt:              d.PostedAt,
		ReversalOfEntryID:     nullStringPtr(d.ReversalOfEntryID),
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry without lines
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:               m.EntryID,
		EntryNumber:           m.EntryNumber,
		EntryDate:             m.EntryDate,
		SourceModule:          domain.SourceModule(m.SourceModule),
		SourceReferenceID:     m.SourceReferenceID,
		SourceReferenceNumber: m.SourceReferenceNumber.String,
		Description:           m.Description.String,
		Posted:                m.Posted,
		PostedAt:              m.PostedAt,
		ReversalOfEntryID:     stringPtr(m.ReversalOfEntryID),
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		LineNumber:  d.LineNumber,
		AccountID:   d.AccountID,
		AccountCode: d.AccountCode,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: nullString(d.Description),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		LineNumber:  m.LineNumber,
		AccountID:   m.AccountID,
		AccountCode: m.AccountCode,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description.String,
	}
}

// ToDomainJournalLineSlice converts a slice of model lines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
