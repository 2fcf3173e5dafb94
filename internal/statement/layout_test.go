package statement

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var januaryHeader = Header{Month: time.January, Year: 2024}

func TestParseTransactions_ShortDescriptionFallsBackToSpan(t *testing.T) {
	txs := NewIndonesianFormat(255).ParseTransactions("05/01 ZZ 10.000,00 DB", januaryHeader)

	require.Len(t, txs, 1)
	assert.Equal(t, "05/01 ZZ 10.000,00 DB", txs[0].Description)
	assert.False(t, txs[0].Credit)
	assert.True(t, txs[0].Amount.Equal(amount("10000")))
}

func TestParseTransactions_FallbackSpanIsTruncated(t *testing.T) {
	txs := NewIndonesianFormat(12).ParseTransactions("05/01 ZZ 10.000,00 DB", januaryHeader)

	require.Len(t, txs, 1)
	assert.Equal(t, "05/01 ZZ 10.", txs[0].Description)
}

func TestParseTransactions_ThreeCharacterDescriptionIsKept(t *testing.T) {
	txs := NewIndonesianFormat(255).ParseTransactions("05/01 ATM 10.000,00 DB", januaryHeader)

	require.Len(t, txs, 1)
	assert.Equal(t, "ATM", txs[0].Description)
}

func TestParseTransactions_RepeatedAmountIsNotABalance(t *testing.T) {
	txs := NewIndonesianFormat(255).ParseTransactions("05/01 BIAYA ADMIN 10.000,00 DB 10.000,00", januaryHeader)

	require.Len(t, txs, 1)
	assert.Nil(t, txs[0].RunningBalance)
	assert.Equal(t, "BIAYA ADMIN", txs[0].Description, "the repeated token stays out of the description")
}

func TestParseTransactions_RepeatedAmountContinuingTheBalance(t *testing.T) {
	header := januaryHeader
	opening := decimal.Zero
	header.OpeningBalance = &opening

	txs := NewIndonesianFormat(255).ParseTransactions("05/01 SETORAN TUNAI 100.000,00 CR 100.000,00", header)

	require.Len(t, txs, 1)
	require.NotNil(t, txs[0].RunningBalance)
	assert.True(t, txs[0].RunningBalance.Equal(amount("100000")))
}

func TestParseTransactions_BalanceCarriesAcrossLinesWithoutOne(t *testing.T) {
	header := januaryHeader
	opening := amount("50000")
	header.OpeningBalance = &opening
	text := `03/01 BUNGA 25.000,00 CR
04/01 SETORAN 75.000,00 CR 150.000,00
05/01 TARIK TUNAI 150.000,00 DB 150.000,00
06/01 SETORAN 150.000,00 CR 150.000,00`

	txs := NewIndonesianFormat(255).ParseTransactions(text, header)

	require.Len(t, txs, 4)
	assert.Nil(t, txs[0].RunningBalance)
	require.NotNil(t, txs[1].RunningBalance, "a distinct second amount is the balance")
	assert.True(t, txs[1].RunningBalance.Equal(amount("150000")))
	assert.Nil(t, txs[2].RunningBalance, "150.000 - 150.000 does not leave 150.000")
	require.NotNil(t, txs[3].RunningBalance, "0 + 150.000 continues the computed balance")
	assert.True(t, txs[3].RunningBalance.Equal(amount("150000")))
}
