package numerator

import (
	"context"
	"time"
)

// Generator is the interface document services depend on.
// *Service implements it; tests substitute an in-memory generator.
type Generator interface {
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)
	Next(ctx context.Context, prefix string) (string, error)
}

var _ Generator = (*Service)(nil)
