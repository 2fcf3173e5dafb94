package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSequenceRepository struct {
	BaseRepository
}

func newPgxSequenceRepository(pool *pgxpool.Pool) *PgxSequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextValue increments the (kind, period) counter, creating it at 1. The row lock
// taken by the upsert serializes concurrent allocations until the caller's
// transaction ends.
func (r *PgxSequenceRepository) NextValue(ctx context.Context, kind domain.DocumentKind, periodKey string) (int64, error) {
	query := `
		INSERT INTO document_sequences (document_kind, period_key, last_value, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (document_kind, period_key)
		DO UPDATE SET last_value = document_sequences.last_value + 1, updated_at = NOW()
		RETURNING last_value;
	`
	var value int64
	if err := r.db(ctx).QueryRow(ctx, query, string(kind), periodKey).Scan(&value); err != nil {
		return 0, storageError(err, "failed to allocate %s sequence for period %q", kind, periodKey)
	}
	return value, nil
}

// CurrentValue returns the last allocated value, or 0 when the counter does not exist.
func (r *PgxSequenceRepository) CurrentValue(ctx context.Context, kind domain.DocumentKind, periodKey string) (int64, error) {
	query := `SELECT last_value FROM document_sequences WHERE document_kind = $1 AND period_key = $2;`
	var value int64
	err := r.db(ctx).QueryRow(ctx, query, string(kind), periodKey).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, storageError(err, "failed to read %s sequence for period %q", kind, periodKey)
	}
	return value, nil
}
