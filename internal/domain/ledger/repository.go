package ledger

import (
	"context"
	"time"

	"abacus/internal/core/id"
	"abacus/internal/core/types"
)

// Sums holds aggregate debit and credit totals for an account.
type Sums struct {
	Debit  types.Money `db:"debit" json:"debit"`
	Credit types.Money `db:"credit" json:"credit"`
}

// Net returns debit minus credit (the raw balance).
func (s Sums) Net() types.Money {
	return s.Debit.Sub(s.Credit)
}

// Repository defines persistence operations for ledger entries.
// The store is insert-only: no update or delete operations exist.
type Repository interface {
	// CreateEntries inserts a batch of entries. Callers are expected to
	// run this inside a transaction together with coupled mutations.
	CreateEntries(ctx context.Context, entries []*Entry) error

	// ListByAccount returns entries for an account ordered by
	// (transaction_date, id). Nil bounds mean unbounded.
	ListByAccount(ctx context.Context, accountID id.ID, from, to *time.Time) ([]*Entry, error)

	// SumByAccount returns debit/credit totals for an account up to and
	// including asOf. Nil asOf means all entries.
	SumByAccount(ctx context.Context, accountID id.ID, asOf *time.Time) (Sums, error)

	// SumByAccountPeriod returns totals within [start, end] inclusive.
	SumByAccountPeriod(ctx context.Context, accountID id.ID, start, end time.Time) (Sums, error)

	// HasEntries reports whether any entry references the account.
	HasEntries(ctx context.Context, accountID id.ID) (bool, error)
}
