package repositories

import (
	"context"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
)

// SequenceRepository allocates ordinals from per-(kind, period) counters.
type SequenceRepository interface {
	// NextValue atomically increments the counter and returns the new value.
	// Concurrent callers for the same counter are serialized by the store.
	NextValue(ctx context.Context, kind domain.DocumentKind, periodKey string) (int64, error)

	// CurrentValue returns the last allocated value, or 0 when the counter does not exist.
	CurrentValue(ctx context.Context, kind domain.DocumentKind, periodKey string) (int64, error)
}
