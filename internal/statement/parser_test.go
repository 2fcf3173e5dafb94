package statement

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indonesianStatement = `PT BANK CONTOH TBK
REKENING GIRO
PERIODE : JANUARI 2024
MATA UANG : IDR
SALDO AWAL : 3.500.000,00
TANGGAL KETERANGAN CBG MUTASI SALDO
28/12 SETORAN TUNAI 200.000,00 CR 3.700.000,00
12/01 TRANSFER MASUK 1.500.000,00 CR 5.000.000,00
15/01 BIAYA ADM 15.000,00 DB 4.985.000,00
20/01 ZZ 50.000,00 DB
22/01 TRF 1234567 250.000,00 DB 4.685.000,00
25/01 KETERANGAN SAJA
SALDO AKHIR : 4.685.000,00
`

var uploadDate = time.Date(2024, time.February, 3, 10, 0, 0, 0, time.UTC)

func newTestParser() *Parser {
	return NewParser(Options{MinTextLength: 20, DescriptionMaxLength: 255, DefaultCurrency: "IDR"})
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParse_IndonesianStatement(t *testing.T) {
	res, err := newTestParser().Parse([]byte(indonesianStatement), "", uploadDate)
	require.NoError(t, err)

	assert.Equal(t, "indonesian", res.Format)
	assert.Equal(t, "plain_text", res.Strategy)
	assert.Equal(t, "JANUARI 2024", res.Header.PeriodLabel)
	assert.Equal(t, "IDR", res.Currency)
	require.NotNil(t, res.Header.OpeningBalance)
	require.NotNil(t, res.Header.ClosingBalance)
	assert.True(t, res.Header.OpeningBalance.Equal(amount("3500000")))
	assert.True(t, res.Header.ClosingBalance.Equal(amount("4685000")))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), res.StartDate)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), res.EndDate)

	require.Len(t, res.Transactions, 5, "the span without an amount is skipped")

	prior := res.Transactions[0]
	assert.Equal(t, time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC), prior.Date, "a month after the statement month belongs to the previous year")

	transfer := res.Transactions[1]
	assert.Equal(t, time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), transfer.Date)
	assert.Equal(t, "TRANSFER MASUK", transfer.Description)
	assert.True(t, transfer.Credit)
	assert.True(t, transfer.Amount.Equal(amount("1500000")))
	require.NotNil(t, transfer.RunningBalance)
	assert.True(t, transfer.RunningBalance.Equal(amount("5000000")))

	fee := res.Transactions[2]
	assert.False(t, fee.Credit)
	assert.Equal(t, "BIAYA ADM", fee.Description)
	assert.True(t, fee.Amount.Equal(amount("15000")))

	short := res.Transactions[3]
	assert.Equal(t, "20/01 ZZ 50.000,00 DB", short.Description, "too short a description falls back to the raw span")
	assert.Nil(t, short.RunningBalance)

	ref := res.Transactions[4]
	assert.Equal(t, "TRF 1234567", ref.Description, "digit runs stay in the description")
	assert.True(t, ref.Amount.Equal(amount("250000")))

	assert.True(t, res.TotalCredits.Equal(amount("1700000")))
	assert.True(t, res.TotalDebits.Equal(amount("315000")))
}

func TestParse_SingleLineExample(t *testing.T) {
	text := "REKENING TAHAPAN PERIODE : JANUARI 2024\n12/01 TRANSFER MASUK 1.500.000,00 CR 5.000.000,00"
	res, err := newTestParser().Parse([]byte(text), "indonesian", uploadDate)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, "TRANSFER MASUK", tx.Description)
	assert.True(t, tx.Credit)
	assert.True(t, tx.Amount.Equal(amount("1500000.00")))
	assert.True(t, tx.RunningBalance.Equal(amount("5000000.00")))
}

func TestParse_EnglishStatement(t *testing.T) {
	text := `Statement Period: March 2024
Opening Balance USD 1,000.00
05/03 SALARY ACME 2,500.00 CR 3,500.00
07/03 GROCERY STORE 120.50 DR 3,379.50
Closing Balance 3,379.50`

	res, err := newTestParser().Parse([]byte(text), AutoFormat, uploadDate)
	require.NoError(t, err)
	assert.Equal(t, "english", res.Format)
	assert.Equal(t, "USD", res.Currency)
	assert.True(t, res.Header.OpeningBalance.Equal(amount("1000")))
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), res.Transactions[0].Date)
	assert.True(t, res.Transactions[0].Credit)
	assert.Equal(t, "GROCERY STORE", res.Transactions[1].Description)
	assert.True(t, res.Transactions[1].Amount.Equal(amount("120.50")))
}

func TestParse_YearFromUploadDateWithoutPeriod(t *testing.T) {
	text := "MUTASI REKENING\n02/02 SETORAN 100.000,00 CR\n30/12 TARIK TUNAI 50.000,00 DB"
	res, err := newTestParser().Parse([]byte(text), "", uploadDate)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, 2024, res.Transactions[0].Date.Year())
	assert.Equal(t, 2023, res.Transactions[1].Date.Year())
	assert.Equal(t, "IDR", res.Currency, "falls back to the default currency")
	assert.Equal(t, time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC), res.StartDate)
}

func TestParse_NoTransactionsIsParseFailure(t *testing.T) {
	text := "REKENING GIRO\nPERIODE : JANUARI 2024\nSALDO AWAL : 3.500.000,00\nTIDAK ADA TRANSAKSI"
	_, err := newTestParser().Parse([]byte(text), "", uploadDate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrParseFailure))

	var pf *apperrors.ParseFailure
	require.True(t, errors.As(err, &pf))
	assert.Equal(t, "plain_text", pf.Diagnostics.Strategy)
	assert.Equal(t, len([]rune(text)), pf.Diagnostics.TextLength)
	assert.True(t, pf.Diagnostics.HasPeriod)
	assert.True(t, pf.Diagnostics.HasOpeningBalance)
	assert.False(t, pf.Diagnostics.HasClosingBalance)
	assert.Zero(t, pf.Diagnostics.DateTokenCount)
	assert.NotEmpty(t, pf.Diagnostics.Sample)
}

func TestParse_UnreadableDocument(t *testing.T) {
	_, err := newTestParser().Parse([]byte("%PDF-1.4\n\x00\x01\x02"), "", uploadDate)
	var pf *apperrors.ParseFailure
	require.True(t, errors.As(err, &pf))
	assert.Contains(t, pf.Reason, "no readable text")
}

func TestParse_Rejections(t *testing.T) {
	p := newTestParser()

	_, err := p.Parse(nil, "", uploadDate)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = p.Parse([]byte(indonesianStatement), "klingon", uploadDate)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestParse_DescriptionIsTruncated(t *testing.T) {
	p := NewParser(Options{DescriptionMaxLength: 10})
	res, err := p.Parse([]byte("PERIODE JANUARI 2024 12/01 PEMBAYARAN TAGIHAN LISTRIK 75.000,00 DB"), "", uploadDate)
	require.NoError(t, err)
	assert.Equal(t, "PEMBAYARAN", res.Transactions[0].Description)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(255)
	assert.Equal(t, []string{"english", "indonesian"}, r.Names())

	f, err := r.Resolve("auto", "nothing recognisable")
	require.NoError(t, err)
	assert.Equal(t, "indonesian", f.Name(), "auto falls back to the first registered format")

	f, err = r.Resolve("ENGLISH", "")
	require.NoError(t, err)
	assert.Equal(t, "english", f.Name())

	_, err = r.Resolve("bca-v2", "")
	assert.Error(t, err)
}

func TestParseDateToken(t *testing.T) {
	d, m, ok := parseDateToken("12/01")
	require.True(t, ok)
	assert.Equal(t, 12, d)
	assert.Equal(t, time.January, m)

	for _, tok := range []string{"32/01", "00/05", "12/13", "31/04", "1/2/2024", "12-01"} {
		_, _, ok := parseDateToken(tok)
		assert.False(t, ok, tok)
	}
}
