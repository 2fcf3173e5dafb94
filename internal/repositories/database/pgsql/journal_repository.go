package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/finance_ledger_app/internal/models"
	"github.com/SscSPs/finance_ledger_app/internal/utils/mapping"
	"github.com/SscSPs/finance_ledger_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `e.entry_id, e.entry_number, e.entry_date, e.source_module, e.source_reference_id,
	e.source_reference_number, e.description, e.posted, e.posted_at, e.reversal_of_entry_id,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by`

const lineColumns = `l.line_id, l.entry_id, l.line_number, l.account_id, a.code, l.debit, l.credit, l.description`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.SourceModule,
		&m.SourceReferenceID,
		&m.SourceReferenceNumber,
		&m.Description,
		&m.Posted,
		&m.PostedAt,
		&m.ReversalOfEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	return mapping.ToDomainJournalEntry(m), nil
}

func scanLine(row pgx.Row) (models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.LineNumber,
		&m.AccountID,
		&m.AccountCode,
		&m.Debit,
		&m.Credit,
		&m.Description,
	)
	return m, err
}

// SaveEntry inserts the entry header and queues every line in one batch.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	db := r.db(ctx)

	headerQuery := `
		INSERT INTO journal_entries (entry_id, entry_number, entry_date, source_module, source_reference_id,
			source_reference_number, description, posted, posted_at, reversal_of_entry_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := db.Exec(ctx, headerQuery,
		m.EntryID,
		m.EntryNumber,
		m.EntryDate,
		m.SourceModule,
		m.SourceReferenceID,
		m.SourceReferenceNumber,
		m.Description,
		m.Posted,
		m.PostedAt,
		m.ReversalOfEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return journalWriteError(err, entry)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, line_number, account_id, debit, credit, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, line := range entry.Lines {
		ml := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.EntryID,
			ml.LineNumber,
			ml.AccountID,
			ml.Debit,
			ml.Credit,
			ml.Description,
		)
	}

	br := db.SendBatch(ctx, batch)
	// Close reports the first failing statement of the batch.
	if err := br.Close(); err != nil {
		return storageError(err, "failed to insert lines for entry %s", entry.EntryNumber)
	}
	return nil
}

// journalWriteError translates header insert conflicts. A taken entry number means
// another writer won the sequence race and the posting can be retried.
func journalWriteError(err error, entry domain.JournalEntry) error {
	switch {
	case constraintViolated(err, "uq_journal_entries_number"):
		return fmt.Errorf("%w: entry number %s already used", apperrors.ErrConcurrentUpdate, entry.EntryNumber)
	case constraintViolated(err, "uq_journal_entries_source"):
		return fmt.Errorf("%w: %s/%s is already posted", apperrors.ErrDuplicate, entry.SourceModule, entry.SourceReferenceID)
	}
	return storageError(err, "failed to insert journal entry %s", entry.EntryNumber)
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, where string, what string, args ...any) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries e WHERE ` + where + `;`
	entry, err := scanEntry(r.db(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(what)
		}
		return nil, storageError(err, "failed to find %s", what)
	}

	lines, err := r.findLinesByEntry(ctx, entry.EntryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return &entry, nil
}

func (r *PgxJournalRepository) findLinesByEntry(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM journal_lines l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.entry_id = $1
		ORDER BY l.line_number;
	`
	rows, err := r.db(ctx).Query(ctx, query, entryID)
	if err != nil {
		return nil, storageError(err, "failed to query lines for entry %s", entryID)
	}
	defer rows.Close()

	var lines []models.JournalLine
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, storageError(err, "failed to scan journal line")
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "error iterating journal lines")
	}
	return mapping.ToDomainJournalLineSlice(lines), nil
}

// FindEntryByID retrieves an entry together with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, "e.entry_id = $1", "journal entry "+entryID, entryID)
}

// FindEntryBySource retrieves the entry posted for (module, reference).
func (r *PgxJournalRepository) FindEntryBySource(ctx context.Context, module domain.SourceModule, referenceID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, "e.source_module = $1 AND e.source_reference_id = $2",
		fmt.Sprintf("journal entry for %s/%s", module, referenceID), string(module), referenceID)
}

// FindLineByID retrieves a journal line and the header of its entry.
func (r *PgxJournalRepository) FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, *domain.JournalEntry, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM journal_lines l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.line_id = $1;
	`
	m, err := scanLine(r.db(ctx).QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFoundError("journal line " + lineID)
		}
		return nil, nil, storageError(err, "failed to find journal line %s", lineID)
	}
	line := mapping.ToDomainJournalLine(m)

	entryQuery := `SELECT ` + entryColumns + ` FROM journal_entries e WHERE e.entry_id = $1;`
	entry, err := scanEntry(r.db(ctx).QueryRow(ctx, entryQuery, line.EntryID))
	if err != nil {
		return nil, nil, storageError(err, "failed to load entry of journal line %s", lineID)
	}
	return &line, &entry, nil
}

// DeleteEntry removes the entry; its lines go with it through ON DELETE CASCADE.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	cmdTag, err := r.db(ctx).Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return storageError(err, "failed to delete journal entry %s", entryID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	return nil
}

// ListEntries lists entries newest first using keyset pagination on (entry_date, entry_number).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var (
		clauses []string
		args    []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.SourceModule != "" {
		clauses = append(clauses, "e.source_module = "+arg(string(filter.SourceModule)))
	}
	if filter.From != nil {
		clauses = append(clauses, "e.entry_date >= "+arg(*filter.From))
	}
	if filter.To != nil {
		clauses = append(clauses, "e.entry_date <= "+arg(*filter.To))
	}
	if nextToken != nil && *nextToken != "" {
		tokenDate, tokenNumber, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid pagination token: %v", err)
		}
		clauses = append(clauses, "(e.entry_date, e.entry_number) < ("+arg(tokenDate)+", "+arg(tokenNumber)+")")
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries e`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	// Fetch one extra row to know whether another page exists.
	query += " ORDER BY e.entry_date DESC, e.entry_number DESC LIMIT " + arg(limit+1) + ";"

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, storageError(err, "failed to list journal entries")
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, storageError(err, "failed to scan journal entry")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, storageError(err, "error iterating journal entries")
	}

	var newNextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.EntryDate, last.EntryNumber)
		newNextToken = &token
	}
	return entries, newNextToken, nil
}
