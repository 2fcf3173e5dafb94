package statement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.234.567,89", "1234567.89"},
		{"1,234,567.89", "1234567.89"},
		{"1234567", "1234567"},
		{"1.500.000,00", "1500000"},
		{"5.000.000,00", "5000000"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"250,75", "250.75"},
		{"99.50", "99.5"},
		{"-1.000,00", "-1000"},
		{"1.000,00-", "-1000"},
		{"Rp 25.000,00", "25000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestNormalizeAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3,4,5"} {
		_, err := NormalizeAmount(in)
		assert.Error(t, err, in)
	}
}

func TestIsAmountToken(t *testing.T) {
	assert.True(t, IsAmountToken("1.500.000,00"))
	assert.True(t, IsAmountToken("12,50"))
	assert.False(t, IsAmountToken("1234567"), "pure digit runs are reference numbers")
	assert.False(t, IsAmountToken("12/01"))
	assert.False(t, IsAmountToken("TRF"))
	assert.False(t, IsAmountToken("1.2A"))
}

func TestNormalizeAmount_OneOfEachUsesLastSeparator(t *testing.T) {
	indonesian, err := NormalizeAmount("12.500,75")
	require.NoError(t, err)
	assert.Equal(t, "12500.75", indonesian.String())

	english, err := NormalizeAmount("12,500.75")
	require.NoError(t, err)
	assert.Equal(t, "12500.75", english.String())
}
