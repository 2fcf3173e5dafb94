package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/finance_ledger_app/internal/models"
	"github.com/SscSPs/finance_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uploadColumns = `upload_id, upload_number, bank_account_id, period_label, start_date, end_date, currency,
	opening_balance, closing_balance, total_debits, total_credits, transaction_count,
	source_document_ref, file_name, format, status, uploaded_by, uploaded_at`

const statementLineColumns = `line_id, upload_id, bank_account_id, line_number, transaction_date, description,
	debit_amount, credit_amount, running_balance, currency, reconciliation_status,
	matched_journal_line_id, matched_at, matched_by`

type PgxStatementRepository struct {
	BaseRepository
}

// newPgxStatementRepository creates a new repository for statement uploads and lines.
func newPgxStatementRepository(pool *pgxpool.Pool) *PgxStatementRepository {
	return &PgxStatementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StatementRepositoryFacade = (*PgxStatementRepository)(nil)

func scanUpload(row pgx.Row) (domain.StatementUpload, error) {
	var m models.StatementUpload
	err := row.Scan(
		&m.UploadID,
		&m.UploadNumber,
		&m.BankAccountID,
		&m.PeriodLabel,
		&m.StartDate,
		&m.EndDate,
		&m.Currency,
		&m.OpeningBalance,
		&m.ClosingBalance,
		&m.TotalDebits,
		&m.TotalCredits,
		&m.TransactionCount,
		&m.SourceDocumentRef,
		&m.FileName,
		&m.Format,
		&m.Status,
		&m.UploadedBy,
		&m.UploadedAt,
	)
	if err != nil {
		return domain.StatementUpload{}, err
	}
	return mapping.ToDomainStatementUpload(m), nil
}

func scanStatementLine(row pgx.Row) (models.StatementLine, error) {
	var m models.StatementLine
	err := row.Scan(
		&m.LineID,
		&m.UploadID,
		&m.BankAccountID,
		&m.LineNumber,
		&m.TransactionDate,
		&m.Description,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.RunningBalance,
		&m.Currency,
		&m.ReconciliationStatus,
		&m.MatchedJournalLineID,
		&m.MatchedAt,
		&m.MatchedBy,
	)
	return m, err
}

// SaveUpload inserts the upload header and its lines in one batch.
func (r *PgxStatementRepository) SaveUpload(ctx context.Context, upload domain.StatementUpload, lines []domain.StatementLine) error {
	m := mapping.ToModelStatementUpload(upload)
	db := r.db(ctx)

	query := `
		INSERT INTO bank_statement_uploads (` + uploadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := db.Exec(ctx, query,
		m.UploadID,
		m.UploadNumber,
		m.BankAccountID,
		m.PeriodLabel,
		m.StartDate,
		m.EndDate,
		m.Currency,
		m.OpeningBalance,
		m.ClosingBalance,
		m.TotalDebits,
		m.TotalCredits,
		m.TransactionCount,
		m.SourceDocumentRef,
		m.FileName,
		m.Format,
		m.Status,
		m.UploadedBy,
		m.UploadedAt,
	)
	if err != nil {
		switch {
		case constraintViolated(err, "uq_bank_statement_uploads_number"):
			return fmt.Errorf("%w: upload number %s already used", apperrors.ErrConcurrentUpdate, m.UploadNumber)
		case constraintViolated(err, "uq_bank_statement_uploads_document"):
			return fmt.Errorf("%w: statement already uploaded for bank account %s", apperrors.ErrDuplicate, m.BankAccountID)
		}
		return storageError(err, "failed to insert statement upload %s", m.UploadNumber)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO bank_statement_lines (` + statementLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	for _, line := range lines {
		ml := mapping.ToModelStatementLine(line)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.UploadID,
			ml.BankAccountID,
			ml.LineNumber,
			ml.TransactionDate,
			ml.Description,
			ml.DebitAmount,
			ml.CreditAmount,
			ml.RunningBalance,
			ml.Currency,
			ml.ReconciliationStatus,
			ml.MatchedJournalLineID,
			ml.MatchedAt,
			ml.MatchedBy,
		)
	}
	br := db.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return storageError(err, "failed to insert lines for statement upload %s", m.UploadNumber)
	}
	return nil
}

func (r *PgxStatementRepository) findUpload(ctx context.Context, where string, what string, args ...any) (*domain.StatementUpload, error) {
	query := `SELECT ` + uploadColumns + ` FROM bank_statement_uploads WHERE ` + where + `;`
	upload, err := scanUpload(r.db(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(what)
		}
		return nil, storageError(err, "failed to find %s", what)
	}
	return &upload, nil
}

// FindUploadByID retrieves an upload header.
func (r *PgxStatementRepository) FindUploadByID(ctx context.Context, uploadID string) (*domain.StatementUpload, error) {
	return r.findUpload(ctx, "upload_id = $1", "statement upload "+uploadID, uploadID)
}

// FindUploadByDocument finds an earlier upload of the same document fingerprint.
func (r *PgxStatementRepository) FindUploadByDocument(ctx context.Context, bankAccountID string, sourceDocumentRef string) (*domain.StatementUpload, error) {
	return r.findUpload(ctx, "bank_account_id = $1 AND source_document_ref = $2",
		"statement upload for bank account "+bankAccountID, bankAccountID, sourceDocumentRef)
}

func (r *PgxStatementRepository) queryLines(ctx context.Context, query string, args ...any) ([]domain.StatementLine, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, storageError(err, "failed to query statement lines")
	}
	defer rows.Close()

	var lines []models.StatementLine
	for rows.Next() {
		m, err := scanStatementLine(rows)
		if err != nil {
			return nil, storageError(err, "failed to scan statement line")
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "error iterating statement lines")
	}
	return mapping.ToDomainStatementLineSlice(lines), nil
}

// ListLinesByUpload returns the lines of an upload in document order.
func (r *PgxStatementRepository) ListLinesByUpload(ctx context.Context, uploadID string) ([]domain.StatementLine, error) {
	query := `SELECT ` + statementLineColumns + ` FROM bank_statement_lines WHERE upload_id = $1 ORDER BY line_number;`
	return r.queryLines(ctx, query, uploadID)
}

// FindLineByID retrieves a single statement line.
func (r *PgxStatementRepository) FindLineByID(ctx context.Context, lineID string) (*domain.StatementLine, error) {
	query := `SELECT ` + statementLineColumns + ` FROM bank_statement_lines WHERE line_id = $1;`
	m, err := scanStatementLine(r.db(ctx).QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("statement line " + lineID)
		}
		return nil, storageError(err, "failed to find statement line %s", lineID)
	}
	line := mapping.ToDomainStatementLine(m)
	return &line, nil
}

// ListUnmatchedLines returns unmatched lines of a bank account, oldest first.
func (r *PgxStatementRepository) ListUnmatchedLines(ctx context.Context, bankAccountID string, limit int) ([]domain.StatementLine, error) {
	query := `
		SELECT ` + statementLineColumns + `
		FROM bank_statement_lines
		WHERE bank_account_id = $1 AND reconciliation_status = 'UNMATCHED'
		ORDER BY transaction_date, upload_id, line_number
		LIMIT $2;
	`
	return r.queryLines(ctx, query, bankAccountID, limit)
}

// MarkLineMatched links the line only while it is still UNMATCHED, so two concurrent
// matchers cannot both win.
func (r *PgxStatementRepository) MarkLineMatched(ctx context.Context, lineID string, journalLineID string, userID string, at time.Time) (bool, error) {
	query := `
		UPDATE bank_statement_lines
		SET reconciliation_status = 'MATCHED', matched_journal_line_id = $2, matched_at = $3, matched_by = $4
		WHERE line_id = $1 AND reconciliation_status = 'UNMATCHED';
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, lineID, journalLineID, at, userID)
	if err != nil {
		if constraintViolated(err, "uq_bank_statement_lines_journal_line") {
			return false, fmt.Errorf("%w: journal line %s is already matched to another statement line", apperrors.ErrConflict, journalLineID)
		}
		return false, storageError(err, "failed to match statement line %s", lineID)
	}
	return cmdTag.RowsAffected() == 1, nil
}

// MarkLineUnmatched clears the link of a MATCHED line.
func (r *PgxStatementRepository) MarkLineUnmatched(ctx context.Context, lineID string) (bool, error) {
	query := `
		UPDATE bank_statement_lines
		SET reconciliation_status = 'UNMATCHED', matched_journal_line_id = NULL, matched_at = NULL, matched_by = NULL
		WHERE line_id = $1 AND reconciliation_status = 'MATCHED';
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, lineID)
	if err != nil {
		return false, storageError(err, "failed to unmatch statement line %s", lineID)
	}
	return cmdTag.RowsAffected() == 1, nil
}

// UnlinkJournalLines resets every statement line pointing at one of the journal lines.
func (r *PgxStatementRepository) UnlinkJournalLines(ctx context.Context, journalLineIDs []string) (int64, error) {
	if len(journalLineIDs) == 0 {
		return 0, nil
	}
	query := `
		UPDATE bank_statement_lines
		SET reconciliation_status = 'UNMATCHED', matched_journal_line_id = NULL, matched_at = NULL, matched_by = NULL
		WHERE matched_journal_line_id = ANY($1);
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, journalLineIDs)
	if err != nil {
		return 0, storageError(err, "failed to unlink statement lines")
	}
	return cmdTag.RowsAffected(), nil
}
