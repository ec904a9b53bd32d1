// Package domaintest provides in-memory repository fakes for domain
// service tests. Fakes mirror the repository contracts, including the
// business errors the PostgreSQL implementations return.
package domaintest

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"abacus/internal/core/id"
	"abacus/internal/domain/ledger"
)

// FakeLedger is an in-memory ledger.Repository.
type FakeLedger struct {
	mu      sync.Mutex
	Entries []*ledger.Entry

	// FailCreate, when set, makes CreateEntries return this error.
	FailCreate error
}

// NewFakeLedger creates an empty fake ledger.
func NewFakeLedger() *FakeLedger {
	return &FakeLedger{}
}

func (f *FakeLedger) CreateEntries(ctx context.Context, entries []*ledger.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailCreate != nil {
		return f.FailCreate
	}
	f.Entries = append(f.Entries, entries...)
	return nil
}

func (f *FakeLedger) ListByAccount(ctx context.Context, accountID id.ID, from, to *time.Time) ([]*ledger.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*ledger.Entry
	for _, e := range f.Entries {
		if e.AccountID != accountID {
			continue
		}
		if from != nil && e.TransactionDate.Before(*from) {
			continue
		}
		if to != nil && e.TransactionDate.After(*to) {
			continue
		}
		out = append(out, e)
	}

	// (transaction_date, id) — UUIDv7 ids sort chronologically
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.Before(out[j].TransactionDate)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})

	return out, nil
}

func (f *FakeLedger) SumByAccount(ctx context.Context, accountID id.ID, asOf *time.Time) (ledger.Sums, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sums := zeroSums()
	for _, e := range f.Entries {
		if e.AccountID != accountID {
			continue
		}
		if asOf != nil && e.TransactionDate.After(*asOf) {
			continue
		}
		sums.Debit = sums.Debit.Add(e.Debit)
		sums.Credit = sums.Credit.Add(e.Credit)
	}
	return sums, nil
}

func (f *FakeLedger) SumByAccountPeriod(ctx context.Context, accountID id.ID, start, end time.Time) (ledger.Sums, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sums := zeroSums()
	for _, e := range f.Entries {
		if e.AccountID != accountID {
			continue
		}
		if e.TransactionDate.Before(start) || e.TransactionDate.After(end) {
			continue
		}
		sums.Debit = sums.Debit.Add(e.Debit)
		sums.Credit = sums.Credit.Add(e.Credit)
	}
	return sums, nil
}

func (f *FakeLedger) HasEntries(ctx context.Context, accountID id.ID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, e := range f.Entries {
		if e.AccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

// ByAccount returns all stored entries for an account (test helper).
func (f *FakeLedger) ByAccount(accountID id.ID) []*ledger.Entry {
	out, _ := f.ListByAccount(context.Background(), accountID, nil, nil)
	return out
}

var _ ledger.Repository = (*FakeLedger)(nil)
