package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AccountCategory is the closed set of business categories a source event can carry.
// Every category needs a row in categorySpecs; the length assertions below turn a
// category appended without its row into a build failure.
type AccountCategory int

const (
	CategoryUncategorized AccountCategory = iota
	CategoryOfficeSupplies
	CategoryTransport
	CategoryMeals
	CategoryUtilities
	CategoryRent
	CategoryMaintenance
	CategoryMarketing
	CategoryProjectMaterials
	CategoryProjectLabor
	CategoryBankCharges
	CategorySalesRevenue
	CategoryServiceRevenue
	CategoryOtherIncome

	categoryCount
)

// CategorySide tells which rules may use a category.
type CategorySide string

const (
	SideAny     CategorySide = "ANY"
	SideExpense CategorySide = "EXPENSE"
	SideIncome  CategorySide = "INCOME"
)

type categorySpec struct {
	key                string
	label              string
	accountCode        string
	side               CategorySide
	requiresCostObject bool
}

var categorySpecs = [...]categorySpec{
	CategoryUncategorized:    {"uncategorized", "Uncategorized", CodeSuspense, SideAny, false},
	CategoryOfficeSupplies:   {"office_supplies", "Office Supplies", "6100", SideExpense, false},
	CategoryTransport:        {"transport", "Transport", "6200", SideExpense, false},
	CategoryMeals:            {"meals", "Meals & Entertainment", "6300", SideExpense, false},
	CategoryUtilities:        {"utilities", "Utilities", "6400", SideExpense, false},
	CategoryRent:             {"rent", "Rent", "6500", SideExpense, false},
	CategoryMaintenance:      {"maintenance", "Repairs & Maintenance", "6600", SideExpense, false},
	CategoryMarketing:        {"marketing", "Marketing", "6700", SideExpense, false},
	CategoryProjectMaterials: {"project_materials", "Project Materials", "6800", SideExpense, true},
	CategoryProjectLabor:     {"project_labor", "Project Labor", "6810", SideExpense, true},
	CategoryBankCharges:      {"bank_charges", "Bank Charges", "6910", SideExpense, false},
	CategorySalesRevenue:     {"sales_revenue", "Sales Revenue", "4100", SideIncome, false},
	CategoryServiceRevenue:   {"service_revenue", "Service Revenue", "4200", SideIncome, false},
	CategoryOtherIncome:      {"other_income", "Other Income", "4900", SideIncome, false},
}

var (
	_ [int(categoryCount) - len(categorySpecs)]struct{}
	_ [len(categorySpecs) - int(categoryCount)]struct{}
)

var categoryByKey = func() map[string]AccountCategory {
	m := make(map[string]AccountCategory, len(categorySpecs))
	for i, spec := range categorySpecs {
		m[spec.key] = AccountCategory(i)
	}
	return m
}()

// AllCategories lists every category in declaration order.
func AllCategories() []AccountCategory {
	out := make([]AccountCategory, 0, categoryCount)
	for c := AccountCategory(0); c < categoryCount; c++ {
		out = append(out, c)
	}
	return out
}

// ParseAccountCategory maps a category key (e.g. "office_supplies") to its value.
// The empty string is uncategorized.
func ParseAccountCategory(key string) (AccountCategory, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return CategoryUncategorized, nil
	}
	c, ok := categoryByKey[k]
	if !ok {
		return CategoryUncategorized, fmt.Errorf("unknown account category %q", key)
	}
	return c, nil
}

func (c AccountCategory) spec() categorySpec {
	if c < 0 || c >= categoryCount {
		return categorySpec{}
	}
	return categorySpecs[c]
}

// IsValid reports whether c is a declared category.
func (c AccountCategory) IsValid() bool { return c >= 0 && c < categoryCount }

func (c AccountCategory) Key() string { return c.spec().key }

func (c AccountCategory) Label() string { return c.spec().label }

// AccountCode is the chart code the category posts to.
func (c AccountCategory) AccountCode() string { return c.spec().accountCode }

func (c AccountCategory) Side() CategorySide { return c.spec().side }

// RequiresCostObject reports whether events in this category must reference a project or cost object.
func (c AccountCategory) RequiresCostObject() bool { return c.spec().requiresCostObject }

// IsFallback reports whether the category resolves to the general suspense account.
func (c AccountCategory) IsFallback() bool { return c == CategoryUncategorized }

// AllowedOn reports whether the category may be used by a rule posting to side.
func (c AccountCategory) AllowedOn(side CategorySide) bool {
	s := c.Side()
	return s == SideAny || s == side
}

func (c AccountCategory) String() string {
	if !c.IsValid() {
		return fmt.Sprintf("AccountCategory(%d)", int(c))
	}
	return c.Key()
}

func (c AccountCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Key())
}

func (c *AccountCategory) UnmarshalJSON(data []byte) error {
	var key string
	if err := json.Unmarshal(data, &key); err != nil {
		return err
	}
	parsed, err := ParseAccountCategory(key)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
