package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatWithCurrencyPrecision(t *testing.T) {
	assert.Equal(t, "1500000.00", FormatWithCurrencyPrecision(decimal.NewFromInt(1500000), "IDR"))
	assert.Equal(t, "13", FormatWithCurrencyPrecision(decimal.RequireFromString("12.5"), "jpy"))
	assert.Equal(t, "1.235", FormatWithCurrencyPrecision(decimal.RequireFromString("1.2345"), "KWD"))
	assert.Equal(t, "-150000.00", FormatWithCurrencyPrecision(decimal.NewFromInt(-150000), ""))
}

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("payment-voucher-module", "secret", time.Hour, "finance-ledger-app")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret", "finance-ledger-app")
	require.NoError(t, err)
	assert.Equal(t, "payment-voucher-module", claims.Subject)

	_, err = ParseAndValidateJWT(token, "other-secret", "finance-ledger-app")
	assert.Error(t, err)

	_, err = ParseAndValidateJWT(token, "secret", "someone-else")
	assert.Error(t, err)

	expired, err := GenerateJWT("x", "secret", -time.Minute, "")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret", "")
	assert.Error(t, err)
}
