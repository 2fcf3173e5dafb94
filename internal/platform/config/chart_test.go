package config

import (
	"testing"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadChartOfAccounts_ShippedChartCoversCategories(t *testing.T) {
	chart, err := LoadChartOfAccounts("../../../configs/chart_of_accounts.yaml")
	require.NoError(t, err)

	codes := map[string]bool{}
	for _, acc := range chart {
		codes[acc.Code] = true
	}
	for _, c := range domain.AllCategories() {
		assert.True(t, codes[c.AccountCode()], "category %s maps to %s which is not in the chart", c, c.AccountCode())
	}
	for _, code := range []string{domain.CodeCash, domain.CodeSuspense, domain.CodeAccountsPayable, domain.CodeAccountsReceivable} {
		assert.True(t, codes[code], "well-known account %s missing", code)
	}
}

func TestParseChartOfAccounts(t *testing.T) {
	chart, err := ParseChartOfAccounts([]byte(`
accounts:
  - code: "1100"
    name: Cash
    type: ASSET
  - code: "2100"
    name: Accounts Payable
    type: LIABILITY
    normal_balance: CREDIT
`))
	require.NoError(t, err)
	require.Len(t, chart, 2)
	assert.Equal(t, domain.Liability, chart[1].AccountType)
	assert.Equal(t, domain.NormalCredit, chart[1].NormalBalance)

	_, err = ParseChartOfAccounts([]byte("accounts:\n  - code: \"1100\"\n    name: Cash\n    type: ASSET\n  - code: \"1100\"\n    name: Petty Cash\n    type: ASSET\n"))
	assert.ErrorContains(t, err, "duplicate code 1100")

	_, err = ParseChartOfAccounts([]byte("accounts:\n  - name: Cash\n"))
	assert.Error(t, err)
}
