package posting_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/domaintest"
	"abacus/internal/domain/posting"
)

func TestEntrySet_TotalsAndBalance(t *testing.T) {
	debitAcc := id.New()
	creditAcc := id.New()

	set := posting.NewEntrySet(domaintest.Date(2026, 3, 15), "test posting").
		Debit(debitAcc, types.MustMoney("100.00")).
		Credit(creditAcc, types.MustMoney("60.00")).
		Credit(creditAcc, types.MustMoney("40.00"))

	assert.True(t, set.TotalDebits().Equal(types.MustMoney("100.00")),
		"debits = %s", set.TotalDebits())
	assert.True(t, set.TotalCredits().Equal(types.MustMoney("100.00")),
		"credits = %s", set.TotalCredits())
	assert.True(t, set.Balanced())
	require.NoError(t, set.Validate(context.Background()))
}

func TestEntrySet_AmountsQuantizedToCents(t *testing.T) {
	acc := id.New()

	// 3 * 11.111 = 33.333 must land in the ledger as 33.33
	set := posting.NewEntrySet(domaintest.Date(2026, 3, 15), "rounding").
		Debit(acc, types.MustMoney("33.333")).
		Credit(acc, types.MustMoney("33.333"))

	entries := set.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Debit.Equal(types.MustMoney("33.33")),
		"debit = %s", entries[0].Debit)
	assert.True(t, entries[1].Credit.Equal(types.MustMoney("33.33")),
		"credit = %s", entries[1].Credit)
}

func TestEntrySet_Validate_Empty(t *testing.T) {
	set := posting.NewEntrySet(domaintest.Date(2026, 3, 15), "empty")

	err := set.Validate(context.Background())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestEntrySet_Validate_Unbalanced(t *testing.T) {
	set := posting.NewEntrySet(domaintest.Date(2026, 3, 15), "unbalanced").
		Debit(id.New(), types.MustMoney("100.00")).
		Credit(id.New(), types.MustMoney("99.99"))

	err := set.Validate(context.Background())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnbalancedEntries, appErr.Code)
}

func TestEntrySet_WithLink_StampsEveryEntry(t *testing.T) {
	invoiceID := id.New()
	customerID := id.New()

	set := posting.NewEntrySet(domaintest.Date(2026, 3, 15), "linked").
		WithLink(posting.Link{InvoiceID: &invoiceID, CustomerID: &customerID}).
		Debit(id.New(), types.MustMoney("10")).
		Credit(id.New(), types.MustMoney("10"))

	for _, e := range set.Entries() {
		require.NotNil(t, e.InvoiceID)
		assert.Equal(t, invoiceID, *e.InvoiceID)
		require.NotNil(t, e.CustomerID)
		assert.Equal(t, customerID, *e.CustomerID)
		assert.Nil(t, e.BillID)
	}
}

func TestEntrySet_LineDescriptionFallsBackToSet(t *testing.T) {
	acc := id.New()

	set := posting.NewEntrySet(domaintest.Date(2026, 3, 15), "set level").
		DebitWith(acc, types.MustMoney("5"), "line level").
		Credit(acc, types.MustMoney("5"))

	entries := set.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "line level", entries[0].Description)
	assert.Equal(t, "set level", entries[1].Description)
}
