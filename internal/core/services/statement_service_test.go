package services_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/SscSPs/finance_ledger_app/internal/core/services"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const januaryStatement = `PT BANK CONTOH TBK
PERIODE : JANUARI 2024
MATA UANG : IDR
SALDO AWAL : 3.500.000,00
TANGGAL KETERANGAN MUTASI SALDO
12/01 TRANSFER MASUK 1.500.000,00 CR 5.000.000,00
15/01 BIAYA ADM 15.000,00 DB 4.985.000,00
22/01 TRF 1234567 250.000,00 DB 4.735.000,00
SALDO AKHIR : 4.735.000,00
`

func uploadRequest(bank string, doc string) dto.StatementUploadRequest {
	return dto.StatementUploadRequest{
		BankAccountID: bank,
		FileName:      "januari.pdf",
		Document:      []byte(doc),
		UploadedBy:    testUser,
	}
}

func TestStatementUpload_PersistsUnmatchedLines(t *testing.T) {
	h := newHarness(t)

	upload, err := h.svc.Statement.Upload(h.ctx, uploadRequest("BCA-001", januaryStatement))
	require.NoError(t, err)
	assert.Equal(t, "BS-202401-0001", upload.UploadNumber)
	assert.Equal(t, domain.UploadCompleted, upload.Status)
	assert.Equal(t, "JANUARI 2024", upload.PeriodLabel)
	assert.Equal(t, 3, upload.TransactionCount)
	assert.True(t, upload.OpeningBalance.Equal(dec("3500000")))
	assert.True(t, upload.ClosingBalance.Equal(dec("4735000")))
	assert.True(t, upload.TotalCredits.Equal(dec("1500000")))
	assert.True(t, upload.TotalDebits.Equal(dec("265000")))
	assert.Equal(t, services.DocumentFingerprint([]byte(januaryStatement)), upload.SourceDocumentRef)

	lines, err := h.svc.Statement.ListLines(h.ctx, upload.UploadID)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	transfer := lines[0]
	assert.Equal(t, day(2024, time.January, 12), transfer.TransactionDate)
	assert.Equal(t, "TRANSFER MASUK", transfer.Description)
	assert.True(t, transfer.CreditAmount.Equal(dec("1500000")))
	assert.True(t, transfer.DebitAmount.IsZero())
	require.NotNil(t, transfer.RunningBalance)
	assert.True(t, transfer.RunningBalance.Equal(dec("5000000")))
	for _, l := range lines {
		assert.Equal(t, domain.StatusUnmatched, l.ReconciliationStatus)
		assert.Equal(t, "BCA-001", l.BankAccountID)
	}

	fetched, err := h.svc.Statement.GetUpload(h.ctx, upload.UploadID)
	require.NoError(t, err)
	assert.Equal(t, upload.UploadNumber, fetched.UploadNumber)
}

func TestStatementUpload_DuplicateDocument(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Statement.Upload(h.ctx, uploadRequest("BCA-001", januaryStatement))
	require.NoError(t, err)

	_, err = h.svc.Statement.Upload(h.ctx, uploadRequest("BCA-001", januaryStatement))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	other, err := h.svc.Statement.Upload(h.ctx, uploadRequest("MANDIRI-7", januaryStatement))
	require.NoError(t, err, "the same document may be uploaded for another account")
	assert.Equal(t, "BS-202401-0002", other.UploadNumber)
}

func TestStatementUpload_ZeroLinesIsRejected(t *testing.T) {
	h := newHarness(t)
	doc := "PT BANK CONTOH TBK\nPERIODE : JANUARI 2024\nSALDO AWAL : 3.500.000,00\nTIDAK ADA TRANSAKSI\n"

	upload, err := h.svc.Statement.Upload(h.ctx, uploadRequest("BCA-001", doc))

	assert.Nil(t, upload)
	require.ErrorIs(t, err, apperrors.ErrParseFailure)
	var pf *apperrors.ParseFailure
	require.True(t, errors.As(err, &pf))
	assert.True(t, pf.Diagnostics.HasPeriod)
	assert.True(t, pf.Diagnostics.HasOpeningBalance)
	assert.Zero(t, pf.Diagnostics.DateTokenCount)

	n, err := h.repos.SequenceRepo.CurrentValue(h.ctx, domain.DocBankStatement, "202401")
	require.NoError(t, err)
	assert.Zero(t, n, "a rejected upload allocates no number")
	lines, err := h.repos.StatementRepo.ListUnmatchedLines(h.ctx, "BCA-001", 10)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestStatementUpload_InputChecks(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Statement.Upload(h.ctx, uploadRequest("", januaryStatement))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = h.svc.Statement.Upload(h.ctx, uploadRequest("BCA-001", ""))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	big := bytes.Repeat([]byte("x"), int(testConfig().Statement.MaxUploadBytes)+1)
	_, err = h.svc.Statement.Upload(h.ctx, dto.StatementUploadRequest{BankAccountID: "BCA-001", Document: big})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = h.svc.Statement.ListLines(h.ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
