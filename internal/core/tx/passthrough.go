package tx

import (
	"context"
)

// Passthrough is a Manager that runs the function directly with no
// database transaction. Used in unit tests with in-memory repositories,
// where atomicity is not observable.
type Passthrough struct{}

// RunInTransaction executes fn immediately.
func (Passthrough) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ReadOnly executes fn immediately.
func (Passthrough) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
