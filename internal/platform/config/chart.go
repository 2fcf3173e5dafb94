package config

import (
	"fmt"
	"os"

	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"gopkg.in/yaml.v3"
)

// LoadChartOfAccounts reads the chart seed file.
func LoadChartOfAccounts(path string) ([]dto.ChartAccount, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chart of accounts %s: %w", path, err)
	}
	return ParseChartOfAccounts(raw)
}

// ParseChartOfAccounts decodes a chart seed document. Codes must be present and unique.
func ParseChartOfAccounts(raw []byte) ([]dto.ChartAccount, error) {
	var file dto.ChartFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse chart of accounts: %w", err)
	}
	seen := make(map[string]bool, len(file.Accounts))
	for i, acc := range file.Accounts {
		if acc.Code == "" || acc.Name == "" || acc.AccountType == "" {
			return nil, fmt.Errorf("chart entry %d: code, name and type are required", i+1)
		}
		if seen[acc.Code] {
			return nil, fmt.Errorf("chart entry %d: duplicate code %s", i+1, acc.Code)
		}
		seen[acc.Code] = true
	}
	return file.Accounts, nil
}
