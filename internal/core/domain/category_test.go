package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountCategory_EveryCategoryIsMapped(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range domain.AllCategories() {
		assert.NotEmpty(t, c.Key(), "category %d has no key", int(c))
		assert.NotEmpty(t, c.Label(), "category %s has no label", c)
		assert.NotEmpty(t, c.AccountCode(), "category %s has no account code", c)
		assert.False(t, seen[c.Key()], "duplicate key %s", c.Key())
		seen[c.Key()] = true
	}
}

func TestAccountCategory_OnlyUncategorizedFallsBack(t *testing.T) {
	for _, c := range domain.AllCategories() {
		if c == domain.CategoryUncategorized {
			assert.True(t, c.IsFallback())
			assert.Equal(t, domain.CodeSuspense, c.AccountCode())
			continue
		}
		assert.False(t, c.IsFallback(), "category %s", c)
		assert.NotEqual(t, domain.CodeSuspense, c.AccountCode(), "category %s", c)
	}
}

func TestParseAccountCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.AccountCategory
		wantErr bool
	}{
		{name: "exact key", input: "office_supplies", want: domain.CategoryOfficeSupplies},
		{name: "mixed case and spaces", input: "  Project_Materials ", want: domain.CategoryProjectMaterials},
		{name: "empty is uncategorized", input: "", want: domain.CategoryUncategorized},
		{name: "unknown key", input: "office supplies", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseAccountCategory(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccountCategory_JSONUsesKeys(t *testing.T) {
	payload, err := json.Marshal(struct {
		Category domain.AccountCategory `json:"category"`
	}{Category: domain.CategoryMeals})
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"meals"}`, string(payload))

	var decoded struct {
		Category domain.AccountCategory `json:"category"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"category":"rent"}`), &decoded))
	assert.Equal(t, domain.CategoryRent, decoded.Category)

	assert.Error(t, json.Unmarshal([]byte(`{"category":"lunch money"}`), &decoded))
}

func TestAccountCategory_Sides(t *testing.T) {
	assert.True(t, domain.CategoryOfficeSupplies.AllowedOn(domain.SideExpense))
	assert.False(t, domain.CategoryOfficeSupplies.AllowedOn(domain.SideIncome))
	assert.True(t, domain.CategorySalesRevenue.AllowedOn(domain.SideIncome))
	assert.True(t, domain.CategoryUncategorized.AllowedOn(domain.SideIncome))
	assert.True(t, domain.CategoryUncategorized.AllowedOn(domain.SideExpense))
	assert.True(t, domain.CategoryProjectLabor.RequiresCostObject())
}
