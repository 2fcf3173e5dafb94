package repositories

import (
	"context"
)

// TransactionManager runs work inside a single storage transaction.
type TransactionManager interface {
	// WithinTx runs fn in a transaction carried by the context passed to fn.
	// Repository calls made with that context join the transaction. Calling
	// WithinTx with a context that already carries a transaction joins it
	// instead of opening a nested one. The transaction commits when fn returns
	// nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	// InTx reports whether ctx already carries a transaction of this manager.
	InTx(ctx context.Context) bool
}
