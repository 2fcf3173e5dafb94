package memory

import (
	"context"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
)

type sequenceRepository struct {
	store *Store
}

var _ portsrepo.SequenceRepository = (*sequenceRepository)(nil)

func (r *sequenceRepository) NextValue(ctx context.Context, kind domain.DocumentKind, periodKey string) (int64, error) {
	defer r.store.lock(ctx)()
	key := sequenceKey{kind: kind, periodKey: periodKey}
	r.store.state.sequences[key]++
	return r.store.state.sequences[key], nil
}

func (r *sequenceRepository) CurrentValue(ctx context.Context, kind domain.DocumentKind, periodKey string) (int64, error) {
	defer r.store.lock(ctx)()
	return r.store.state.sequences[sequenceKey{kind: kind, periodKey: periodKey}], nil
}
