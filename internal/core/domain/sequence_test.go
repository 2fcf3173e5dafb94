package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDocumentNumber(t *testing.T) {
	assert.Equal(t, "JV-202401-0001", domain.FormatDocumentNumber("JV", "202401", 1))
	assert.Equal(t, "BS-202312-0420", domain.FormatDocumentNumber("BS", "202312", 420))
	assert.Equal(t, "PV-202401-12345", domain.FormatDocumentNumber("PV", "202401", 12345))
}

func TestPeriodKey(t *testing.T) {
	assert.Equal(t, "202401", domain.PeriodKey(time.Date(2024, time.January, 31, 23, 0, 0, 0, time.UTC)))
	assert.True(t, domain.ValidPeriodKey("202401"))
	assert.True(t, domain.ValidPeriodKey("2024Q1"))
	assert.False(t, domain.ValidPeriodKey(""))
	assert.False(t, domain.ValidPeriodKey("2024-01"))
}

func TestParseDocumentKind(t *testing.T) {
	kind, err := domain.ParseDocumentKind("jv")
	require.NoError(t, err)
	assert.Equal(t, domain.DocJournal, kind)

	kind, err = domain.ParseDocumentKind("payment_voucher")
	require.NoError(t, err)
	assert.Equal(t, domain.DocPaymentVoucher, kind)

	_, err = domain.ParseDocumentKind("INVOICE")
	assert.Error(t, err)
}

func TestSourceEvent_Allocations(t *testing.T) {
	single := domain.SourceEvent{
		Amount:       decimal.NewFromInt(150000),
		Category:     domain.CategoryOfficeSupplies,
		CostObjectID: "",
		Description:  "paper",
	}
	allocs := single.Allocations()
	require.Len(t, allocs, 1)
	assert.True(t, allocs[0].Amount.Equal(decimal.NewFromInt(150000)))
	assert.Equal(t, domain.CategoryOfficeSupplies, allocs[0].Category)

	split := domain.SourceEvent{
		Splits: []domain.SplitLine{
			{Category: domain.CategoryMeals, Amount: decimal.NewFromInt(40000)},
			{Category: domain.CategoryTransport, Amount: decimal.NewFromInt(60000)},
		},
	}
	assert.Len(t, split.Allocations(), 2)
	assert.True(t, split.Total().Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, domain.FundingCash, split.FundingOrDefault())
}

func TestParsePartyKey(t *testing.T) {
	p, err := domain.ParsePartyKey("staff")
	require.NoError(t, err)
	assert.Equal(t, domain.ProvisionStaff, p.Kind)
	assert.Empty(t, p.Key)

	p, err = domain.ParsePartyKey("Customer:PT Maju Jaya")
	require.NoError(t, err)
	assert.Equal(t, domain.ProvisionCustomer, p.Kind)
	assert.Equal(t, "PT Maju Jaya", p.Key)
	assert.Equal(t, "customer:PT Maju Jaya", p.String())

	_, err = domain.ParsePartyKey("vendor:x")
	assert.Error(t, err)
}

func TestProvisionRanges(t *testing.T) {
	r, ok := domain.ProvisionStaff.Range()
	require.True(t, ok)
	assert.True(t, r.Contains(1310))
	assert.True(t, r.Contains(1399))
	assert.False(t, r.Contains(1400))
	assert.Equal(t, domain.Asset, r.AccountType)

	r, ok = domain.ProvisionSupplier.Range()
	require.True(t, ok)
	assert.Equal(t, domain.Liability, r.AccountType)
	assert.Equal(t, domain.NormalCredit, r.AccountType.DefaultNormalBalance())
}
