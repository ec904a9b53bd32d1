package accounts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/core/apperror"
	"abacus/internal/core/tx"
	"abacus/internal/core/types"
	"abacus/internal/domain/accounts"
	"abacus/internal/domain/domaintest"
	"abacus/internal/domain/ledger"
)

type fixture struct {
	repo    *domaintest.FakeAccounts
	entries *domaintest.FakeLedger
	svc     *accounts.Service
}

func newFixture() *fixture {
	repo := domaintest.NewFakeAccounts()
	entries := domaintest.NewFakeLedger()
	return &fixture{
		repo:    repo,
		entries: entries,
		svc:     accounts.NewService(repo, entries, tx.Passthrough{}),
	}
}

func (f *fixture) mustCreate(t *testing.T, code, name string, accType accounts.Type) *accounts.Account {
	t.Helper()
	acc := accounts.New(code, name, accType)
	require.NoError(t, f.svc.Create(context.Background(), acc))
	return acc
}

func (f *fixture) post(t *testing.T, acc *accounts.Account, debit, credit string) {
	t.Helper()
	e := ledger.NewEntry(domaintest.Date(2026, 1, 10), acc.ID,
		types.MustMoney(debit), types.MustMoney(credit), "test entry")
	require.NoError(t, f.entries.CreateEntries(context.Background(), []*ledger.Entry{e}))
}

func TestCreate_RejectsDuplicateCode(t *testing.T) {
	f := newFixture()
	f.mustCreate(t, "1000", "Cash", accounts.TypeAsset)

	err := f.svc.Create(context.Background(), accounts.New("1000", "Cash again", accounts.TypeAsset))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestCreate_RejectsUnknownType(t *testing.T) {
	f := newFixture()

	err := f.svc.Create(context.Background(), accounts.New("9000", "Mystery", accounts.Type("contra")))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestGetBalance_SignConvention(t *testing.T) {
	f := newFixture()
	cash := f.mustCreate(t, "1000", "Cash", accounts.TypeAsset)
	revenue := f.mustCreate(t, "4000", "Sales Revenue", accounts.TypeRevenue)

	// Cash: 100 in, 40 out. Revenue: credited 100.
	f.post(t, cash, "100.00", "0")
	f.post(t, cash, "0", "40.00")
	f.post(t, revenue, "0", "100.00")

	ctx := context.Background()

	cashBalance, err := f.svc.GetBalance(ctx, cash.ID, nil)
	require.NoError(t, err)
	assert.True(t, cashBalance.Equal(types.MustMoney("60.00")),
		"cash = %s", cashBalance)

	// Revenue is credit-normal: raw net is -100, reported as +100.
	revBalance, err := f.svc.GetBalance(ctx, revenue.ID, nil)
	require.NoError(t, err)
	assert.True(t, revBalance.Equal(types.MustMoney("100.00")),
		"revenue = %s", revBalance)
}

func TestGetBalance_AsOfExcludesLaterEntries(t *testing.T) {
	f := newFixture()
	cash := f.mustCreate(t, "1000", "Cash", accounts.TypeAsset)

	early := ledger.NewEntry(domaintest.Date(2026, 1, 10), cash.ID,
		types.MustMoney("100"), types.ZeroMoney(), "early")
	late := ledger.NewEntry(domaintest.Date(2026, 2, 10), cash.ID,
		types.MustMoney("50"), types.ZeroMoney(), "late")
	require.NoError(t, f.entries.CreateEntries(context.Background(), []*ledger.Entry{early, late}))

	asOf := domaintest.Date(2026, 1, 31)
	balance, err := f.svc.GetBalance(context.Background(), cash.ID, &asOf)
	require.NoError(t, err)
	assert.True(t, balance.Equal(types.MustMoney("100")), "balance = %s", balance)
}

func TestUpdate_TypeChangeBlockedWithEntries(t *testing.T) {
	f := newFixture()
	acc := f.mustCreate(t, "1500", "Prepaid Expenses", accounts.TypeAsset)
	f.post(t, acc, "10.00", "0")

	acc.Type = accounts.TypeExpense
	err := f.svc.Update(context.Background(), acc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestUpdate_TypeChangeAllowedWithoutEntries(t *testing.T) {
	f := newFixture()
	acc := f.mustCreate(t, "1500", "Prepaid Expenses", accounts.TypeAsset)

	acc.Type = accounts.TypeExpense
	require.NoError(t, f.svc.Update(context.Background(), acc))

	got, err := f.svc.GetByID(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, accounts.TypeExpense, got.Type)
}

func TestDelete_SystemAccountRefused(t *testing.T) {
	f := newFixture()
	acc := f.mustCreate(t, "1000", "Cash", accounts.TypeAsset)
	acc.System = true

	err := f.svc.Delete(context.Background(), acc.ID)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestDelete_AccountWithEntriesIsDeactivated(t *testing.T) {
	f := newFixture()
	acc := f.mustCreate(t, "5100", "Rent Expense", accounts.TypeExpense)
	f.post(t, acc, "500.00", "0")

	require.NoError(t, f.svc.Delete(context.Background(), acc.ID))

	// History survives: the account is still retrievable, just inactive.
	got, err := f.svc.GetByID(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.True(t, got.DeletionMark)
}

func TestDelete_UnusedAccountIsRemoved(t *testing.T) {
	f := newFixture()
	acc := f.mustCreate(t, "5100", "Rent Expense", accounts.TypeExpense)

	require.NoError(t, f.svc.Delete(context.Background(), acc.ID))

	_, err := f.svc.GetByID(context.Background(), acc.ID)
	assert.True(t, apperror.IsNotFound(err), "got %v", err)
}

func TestSeedDefaults_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.SeedDefaults(ctx))
	require.NoError(t, f.svc.SeedDefaults(ctx))

	accs, err := f.svc.List(ctx, accounts.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, accs, 8)

	for _, acc := range accs {
		assert.True(t, acc.System, "seeded account %s must be a system account", acc.Code)
		assert.True(t, acc.Active)
	}

	vat, err := f.svc.GetByCode(ctx, "2100")
	require.NoError(t, err)
	assert.Equal(t, accounts.TypeLiability, vat.Type)
}
