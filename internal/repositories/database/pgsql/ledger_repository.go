package pgsql

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

const ledgerLineSelect = `
	SELECT l.line_id, l.entry_id, e.entry_number, e.entry_date, l.line_number, l.account_id,
		l.debit, l.credit, COALESCE(NULLIF(l.description, ''), e.description, '')
	FROM journal_lines l
	JOIN journal_entries e ON e.entry_id = l.entry_id
`

func (r *PgxLedgerRepository) queryLedgerLines(ctx context.Context, query string, args ...any) ([]domain.LedgerLine, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, storageError(err, "failed to query ledger lines")
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var l domain.LedgerLine
		if err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.EntryNumber,
			&l.EntryDate,
			&l.LineNumber,
			&l.AccountID,
			&l.Debit,
			&l.Credit,
			&l.Description,
		); err != nil {
			return nil, storageError(err, "failed to scan ledger line")
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "error iterating ledger lines")
	}
	return lines, nil
}

// rangeClauses renders the optional entry date bounds, numbering placeholders after args.
func rangeClauses(rng domain.DateRange, args []any) ([]string, []any) {
	var clauses []string
	if rng.From != nil {
		args = append(args, *rng.From)
		clauses = append(clauses, "e.entry_date >= $"+strconv.Itoa(len(args)))
	}
	if rng.To != nil {
		args = append(args, *rng.To)
		clauses = append(clauses, "e.entry_date <= $"+strconv.Itoa(len(args)))
	}
	return clauses, args
}

// ListLedgerLines returns the lines of the accounts in posting order.
func (r *PgxLedgerRepository) ListLedgerLines(ctx context.Context, accountIDs []string, rng domain.DateRange) ([]domain.LedgerLine, error) {
	args := []any{accountIDs}
	clauses, args := rangeClauses(rng, args)
	clauses = append([]string{"l.account_id = ANY($1)"}, clauses...)

	query := ledgerLineSelect + " WHERE " + strings.Join(clauses, " AND ") +
		" ORDER BY e.entry_date, e.entry_number, l.line_number;"
	return r.queryLedgerLines(ctx, query, args...)
}

// SumMovements totals debits and credits per account. A nil accountIDs means every account.
func (r *PgxLedgerRepository) SumMovements(ctx context.Context, accountIDs []string, rng domain.DateRange) ([]domain.AccountMovement, error) {
	var args []any
	var clauses []string
	if accountIDs != nil {
		args = append(args, accountIDs)
		clauses = append(clauses, "l.account_id = ANY($1)")
	}
	rc, args := rangeClauses(rng, args)
	clauses = append(clauses, rc...)

	query := `
		SELECT l.account_id, SUM(l.debit), SUM(l.credit)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " GROUP BY l.account_id;"

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, storageError(err, "failed to sum account movements")
	}
	defer rows.Close()

	movements := []domain.AccountMovement{}
	for rows.Next() {
		var m domain.AccountMovement
		if err := rows.Scan(&m.AccountID, &m.Debit, &m.Credit); err != nil {
			return nil, storageError(err, "failed to scan account movement")
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "error iterating account movements")
	}
	return movements, nil
}

// FindBankMovements returns lines on the bank ledger account that carry the amount on
// the requested side and are not yet linked to a statement line.
func (r *PgxLedgerRepository) FindBankMovements(ctx context.Context, accountID string, amount decimal.Decimal, debit bool, from, to time.Time) ([]domain.LedgerLine, error) {
	side := "l.credit"
	if debit {
		side = "l.debit"
	}
	query := ledgerLineSelect + `
		WHERE l.account_id = $1
			AND ` + side + ` = $2
			AND e.entry_date BETWEEN $3 AND $4
			AND NOT EXISTS (
				SELECT 1 FROM bank_statement_lines s WHERE s.matched_journal_line_id = l.line_id
			)
		ORDER BY e.entry_date, e.entry_number, l.line_number;
	`
	return r.queryLedgerLines(ctx, query, accountID, amount, from, to)
}
