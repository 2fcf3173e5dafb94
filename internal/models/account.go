package models

import "database/sql"

// Account is the accounts table row.
type Account struct {
	AccountID     string         `db:"account_id"`
	Code          string         `db:"code"`
	Name          string         `db:"name"`
	AccountType   string         `db:"account_type"`
	NormalBalance string         `db:"normal_balance"`
	IsActive      bool           `db:"is_active"`
	ProvisionKind sql.NullString `db:"provision_kind"` // Only set on provisioned accounts
	ProvisionKey  sql.NullString `db:"provision_key"`
	AuditFields
}
