package mapping

import (
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/SscSPs/finance_ledger_app/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelStatementUpload converts a domain StatementUpload to a model StatementUpload
func ToModelStatementUpload(d domain.StatementUpload) models.StatementUpload {
	return models.StatementUpload{
		UploadID:          d.UploadID,
		UploadNumber:      d.UploadNumber,
		BankAccountID:     d.BankAccountID,
		PeriodLabel:       d.PeriodLabel,
		StartDate:         nullTime(d.StartDate),
		EndDate:           nullTime(d.EndDate),
		Currency:          d.Currency,
		OpeningBalance:    d.OpeningBalance,
		ClosingBalance:    d.ClosingBalance,
		TotalDebits:       d.TotalDebits,
		TotalCredits:      d.TotalCredits,
		TransactionCount:  d.TransactionCount,
		SourceDocumentRef: d.SourceDocumentRef,
		FileName:          d.FileName,
		Format:            d.Format,
		Status:            string(d.Status),
		UploadedBy:        d.UploadedBy,
		UploadedAt:        d.UploadedAt,
	}
}

// ToDomainStatementUpload converts a model StatementUpload to a domain StatementUpload
func ToDomainStatementUpload(m models.StatementUpload) domain.StatementUpload {
	return domain.StatementUpload{
		UploadID:          m.UploadID,
		UploadNumber:      m.UploadNumber,
		BankAccountID:     m.BankAccountID,
		PeriodLabel:       m.PeriodLabel,
		StartDate:         timePtr(m.StartDate),
		EndDate:           timePtr(m.EndDate),
		Currency:          m.Currency,
		OpeningBalance:    m.OpeningBalance,
		ClosingBalance:    m.ClosingBalance,
		TotalDebits:       m.TotalDebits,
		TotalCredits:      m.TotalCredits,
		TransactionCount:  m.TransactionCount,
		SourceDocumentRef: m.SourceDocumentRef,
		FileName:          m.FileName,
		Format:            m.Format,
		Status:            domain.UploadStatus(m.Status),
		UploadedBy:        m.UploadedBy,
		UploadedAt:        m.UploadedAt,
	}
}

// ToModelStatementLine converts a domain StatementLine to a model StatementLine
func ToModelStatementLine(d domain.StatementLine) models.StatementLine {
	running := decimal.NullDecimal{}
	if d.RunningBalance != nil {
		running = decimal.NewNullDecimal(*d.RunningBalance)
	}
	return models.StatementLine{
		LineID:               d.LineID,
		UploadID:             d.UploadID,
		BankAccountID:        d.BankAccountID,
		LineNumber:           d.LineNumber,
		TransactionDate:      d.TransactionDate,
		Description:          d.Description,
		DebitAmount:          d.DebitAmount,
		CreditAmount:         d.CreditAmount,
		RunningBalance:       running,
		Currency:             d.Currency,
		ReconciliationStatus: string(d.ReconciliationStatus),
		MatchedJournalLineID: nullStringPtr(d.MatchedJournalLineID),
		MatchedAt:            nullTime(d.MatchedAt),
		MatchedBy:            nullStringPtr(d.MatchedBy),
	}
}

// ToDomainStatementLine converts a model StatementLine to a domain StatementLine
func ToDomainStatementLine(m models.StatementLine) domain.StatementLine {
	var running *decimal.Decimal
	if m.RunningBalance.Valid {
		v := m.RunningBalance.Decimal
		running = &v
	}
	return domain.StatementLine{
		LineID:               m.LineID,
		UploadID:             m.UploadID,
		BankAccountID:        m.BankAccountID,
		LineNumber:           m.LineNumber,
		TransactionDate:      m.TransactionDate,
		Description:          m.Description,
		DebitAmount:          m.DebitAmount,
		CreditAmount:         m.CreditAmount,
		RunningBalance:       running,
		Currency:             m.Currency,
		ReconciliationStatus: domain.ReconciliationStatus(m.ReconciliationStatus),
		MatchedJournalLineID: stringPtr(m.MatchedJournalLineID),
		MatchedAt:            timePtr(m.MatchedAt),
		MatchedBy:            stringPtr(m.MatchedBy),
	}
}

// ToDomainStatementLineSlice converts a slice of model lines
func ToDomainStatementLineSlice(ms []models.StatementLine) []domain.StatementLine {
	ds := make([]domain.StatementLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStatementLine(m)
	}
	return ds
}
