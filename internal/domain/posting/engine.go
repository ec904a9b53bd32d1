package posting

import (
	"context"
	"fmt"

	"abacus/internal/core/apperror"
	"abacus/internal/core/tenant"
	"abacus/internal/core/tx"
	"abacus/internal/domain/ledger"
	"abacus/pkg/logger"
)

// Mutation is a coupled side effect that must commit or roll back
// together with the ledger entries: stock adjustments, document status
// updates, bank balance movements.
type Mutation func(ctx context.Context) error

// Engine validates entry sets and persists them atomically.
type Engine struct {
	entries   ledger.Repository
	txManager tx.Manager // Optional. If nil, obtained from context (DB-per-tenant).
}

// NewEngine creates a posting engine.
func NewEngine(entries ledger.Repository, txManager tx.Manager) *Engine {
	return &Engine{
		entries:   entries,
		txManager: txManager,
	}
}

func (e *Engine) getTxManager(ctx context.Context) (tx.Manager, error) {
	if e.txManager != nil {
		return e.txManager, nil
	}
	return tenant.GetTxManager(ctx)
}

// Post validates the set, then persists its entries and runs the coupled
// mutations inside one transaction. If validation or any mutation fails,
// nothing is persisted.
func (e *Engine) Post(ctx context.Context, set *EntrySet, coupled ...Mutation) error {
	if err := set.Validate(ctx); err != nil {
		return err
	}

	txm, err := e.getTxManager(ctx)
	if err != nil {
		return apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}

	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := e.entries.CreateEntries(ctx, set.Entries()); err != nil {
			return fmt.Errorf("create entries: %w", err)
		}

		for _, fn := range coupled {
			if err := fn(ctx); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "entry set posted",
		"lines", len(set.Entries()),
		"total", set.TotalDebits().String(),
	)
	return nil
}
