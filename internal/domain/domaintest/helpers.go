package domaintest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"abacus/internal/core/types"
	"abacus/internal/domain/ledger"
	"abacus/pkg/numerator"
)

func zeroSums() ledger.Sums {
	return ledger.Sums{Debit: types.ZeroMoney(), Credit: types.ZeroMoney()}
}

// Date builds a UTC midnight timestamp for test documents.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SeqNumerator is an in-memory numerator.Generator producing
// PREFIX-NNNNN numbers per prefix.
type SeqNumerator struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewSeqNumerator creates a fresh sequence generator.
func NewSeqNumerator() *SeqNumerator {
	return &SeqNumerator{counters: make(map[string]int64)}
}

func (s *SeqNumerator) GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
	return s.next(cfg.Prefix, cfg.PadWidth), nil
}

func (s *SeqNumerator) Next(ctx context.Context, prefix string) (string, error) {
	return s.next(prefix, 5), nil
}

func (s *SeqNumerator) next(prefix string, pad int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pad == 0 {
		pad = 5
	}
	s.counters[prefix]++
	return fmt.Sprintf("%s-%0*d", prefix, pad, s.counters[prefix])
}

var _ numerator.Generator = (*SeqNumerator)(nil)
