package posting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/core/tx"
	"abacus/internal/core/types"
	"abacus/internal/domain/domaintest"
	"abacus/internal/domain/posting"
)

func TestEngine_Post_PersistsEntriesAndRunsMutations(t *testing.T) {
	store := domaintest.NewFakeLedger()
	engine := posting.NewEngine(store, tx.Passthrough{})

	debitAcc := id.New()
	creditAcc := id.New()
	set := posting.NewEntrySet(domaintest.Date(2026, 4, 1), "capital deposit").
		Debit(debitAcc, types.MustMoney("500.00")).
		Credit(creditAcc, types.MustMoney("500.00"))

	var order []string
	first := func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	}
	second := func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	}

	require.NoError(t, engine.Post(context.Background(), set, first, second))

	assert.Len(t, store.Entries, 2)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestEngine_Post_UnbalancedPersistsNothing(t *testing.T) {
	store := domaintest.NewFakeLedger()
	engine := posting.NewEngine(store, tx.Passthrough{})

	set := posting.NewEntrySet(domaintest.Date(2026, 4, 1), "lopsided").
		Debit(id.New(), types.MustMoney("100.00")).
		Credit(id.New(), types.MustMoney("90.00"))

	mutated := false
	err := engine.Post(context.Background(), set, func(ctx context.Context) error {
		mutated = true
		return nil
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnbalancedEntries, appErr.Code)
	assert.Empty(t, store.Entries, "no entries may persist for an unbalanced set")
	assert.False(t, mutated, "coupled mutations must not run for an unbalanced set")
}

func TestEngine_Post_CreateFailureSkipsMutations(t *testing.T) {
	store := domaintest.NewFakeLedger()
	store.FailCreate = errors.New("connection reset")
	engine := posting.NewEngine(store, tx.Passthrough{})

	set := posting.NewEntrySet(domaintest.Date(2026, 4, 1), "doomed").
		Debit(id.New(), types.MustMoney("10")).
		Credit(id.New(), types.MustMoney("10"))

	mutated := false
	err := engine.Post(context.Background(), set, func(ctx context.Context) error {
		mutated = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, mutated)
}

func TestEngine_Post_MutationErrorSurfaces(t *testing.T) {
	store := domaintest.NewFakeLedger()
	engine := posting.NewEngine(store, tx.Passthrough{})

	set := posting.NewEntrySet(domaintest.Date(2026, 4, 1), "coupled failure").
		Debit(id.New(), types.MustMoney("10")).
		Credit(id.New(), types.MustMoney("10"))

	sentinel := errors.New("stock would go negative")
	err := engine.Post(context.Background(), set, func(ctx context.Context) error {
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
}
