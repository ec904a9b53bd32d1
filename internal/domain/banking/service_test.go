package banking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/core/tx"
	"abacus/internal/core/types"
	"abacus/internal/domain/audit"
	"abacus/internal/domain/banking"
	"abacus/internal/domain/domaintest"
	"abacus/internal/domain/ledger"
	"abacus/internal/domain/posting"
)

type fixture struct {
	repo  *domaintest.FakeBanking
	store *domaintest.FakeLedger
	audit *domaintest.FakeAudit
	svc   *banking.Service
}

func newFixture() *fixture {
	repo := domaintest.NewFakeBanking()
	store := domaintest.NewFakeLedger()
	rec := domaintest.NewFakeAudit()
	engine := posting.NewEngine(store, tx.Passthrough{})
	return &fixture{
		repo:  repo,
		store: store,
		audit: rec,
		svc:   banking.NewService(repo, store, engine, domaintest.NewSeqNumerator(), rec),
	}
}

// bankAccount creates a bank account linked to a fresh chart account,
// with the given opening balance backed by a matching ledger entry so
// the cache starts consistent.
func (f *fixture) bankAccount(t *testing.T, code, balance string) *banking.BankAccount {
	t.Helper()

	chartID := id.New()
	acc := banking.New(code, "Account "+code)
	acc.ChartAccountID = &chartID
	acc.CurrentBalance = types.MustMoney(balance)
	require.NoError(t, f.repo.Create(context.Background(), acc))

	if acc.CurrentBalance.IsPositive() {
		e := ledger.NewEntry(domaintest.Date(2026, 1, 1), chartID,
			acc.CurrentBalance, types.ZeroMoney(), "opening balance")
		require.NoError(t, f.store.CreateEntries(context.Background(), []*ledger.Entry{e}))
	}
	return acc
}

func TestDeposit_PostsAndMovesBalance(t *testing.T) {
	f := newFixture()
	acc := f.bankAccount(t, "BNK-001", "0")
	equity := id.New()

	err := f.svc.Deposit(context.Background(), banking.MovementInput{
		BankAccountID:    acc.ID,
		Amount:           types.MustMoney("1000.00"),
		Date:             domaintest.Date(2026, 2, 1),
		Description:      "owner capital",
		CounterAccountID: equity,
	})
	require.NoError(t, err)

	got, err := f.svc.GetAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentBalance.Equal(types.MustMoney("1000.00")))

	// Dr bank chart / Cr counter.
	bankLegs := f.store.ByAccount(*acc.ChartAccountID)
	require.Len(t, bankLegs, 1)
	assert.True(t, bankLegs[0].Debit.Equal(types.MustMoney("1000.00")))

	counterLegs := f.store.ByAccount(equity)
	require.Len(t, counterLegs, 1)
	assert.True(t, counterLegs[0].Credit.Equal(types.MustMoney("1000.00")))
}

func TestWithdraw_PostsAndMovesBalance(t *testing.T) {
	f := newFixture()
	acc := f.bankAccount(t, "BNK-001", "500.00")
	expense := id.New()

	err := f.svc.Withdraw(context.Background(), banking.MovementInput{
		BankAccountID:    acc.ID,
		Amount:           types.MustMoney("200.00"),
		Date:             domaintest.Date(2026, 2, 1),
		CounterAccountID: expense,
	})
	require.NoError(t, err)

	got, err := f.svc.GetAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentBalance.Equal(types.MustMoney("300.00")))

	// Dr counter / Cr bank chart.
	expenseLegs := f.store.ByAccount(expense)
	require.Len(t, expenseLegs, 1)
	assert.True(t, expenseLegs[0].Debit.Equal(types.MustMoney("200.00")))
}

func TestWithdraw_InsufficientFundsPersistsNothing(t *testing.T) {
	f := newFixture()
	acc := f.bankAccount(t, "BNK-001", "100.00")

	before := len(f.store.Entries)
	err := f.svc.Withdraw(context.Background(), banking.MovementInput{
		BankAccountID:    acc.ID,
		Amount:           types.MustMoney("150.00"),
		CounterAccountID: id.New(),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientFunds, appErr.Code)

	assert.Len(t, f.store.Entries, before, "no ledger entries on a failed withdrawal")

	got, err := f.svc.GetAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentBalance.Equal(types.MustMoney("100.00")))
}

func TestMovement_MissingChartLinkIsConfigurationError(t *testing.T) {
	f := newFixture()

	acc := banking.New("BNK-001", "Unlinked Account")
	require.NoError(t, f.repo.Create(context.Background(), acc))

	err := f.svc.Deposit(context.Background(), banking.MovementInput{
		BankAccountID:    acc.ID,
		Amount:           types.MustMoney("10.00"),
		CounterAccountID: id.New(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConfiguration(err), "got %v", err)
}

func TestMovement_MissingCounterAccountRejected(t *testing.T) {
	f := newFixture()
	acc := f.bankAccount(t, "BNK-001", "100.00")

	err := f.svc.Deposit(context.Background(), banking.MovementInput{
		BankAccountID: acc.ID,
		Amount:        types.MustMoney("10.00"),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreateTransfer_MovesBothBalances(t *testing.T) {
	f := newFixture()
	from := f.bankAccount(t, "BNK-001", "800.00")
	to := f.bankAccount(t, "BNK-002", "0")

	tr, err := f.svc.CreateTransfer(context.Background(), banking.TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        types.MustMoney("300.00"),
		Date:          domaintest.Date(2026, 3, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, "FT-00001", tr.Number)
	assert.True(t, tr.Posted)

	gotFrom, err := f.svc.GetAccount(context.Background(), from.ID)
	require.NoError(t, err)
	assert.True(t, gotFrom.CurrentBalance.Equal(types.MustMoney("500.00")))

	gotTo, err := f.svc.GetAccount(context.Background(), to.ID)
	require.NoError(t, err)
	assert.True(t, gotTo.CurrentBalance.Equal(types.MustMoney("300.00")))

	// Dr destination chart / Cr source chart, linked to the FT document.
	toLegs := f.store.ByAccount(*to.ChartAccountID)
	require.Len(t, toLegs, 1)
	assert.True(t, toLegs[0].Debit.Equal(types.MustMoney("300.00")))
	require.NotNil(t, toLegs[0].TransferID)
	assert.Equal(t, tr.ID, *toLegs[0].TransferID)
}

func TestAuditTrail_RecordsMovementsAndTransfers(t *testing.T) {
	f := newFixture()
	from := f.bankAccount(t, "BNK-001", "800.00")
	to := f.bankAccount(t, "BNK-002", "0")

	require.NoError(t, f.svc.Deposit(context.Background(), banking.MovementInput{
		BankAccountID:    from.ID,
		Amount:           types.MustMoney("100.00"),
		Date:             domaintest.Date(2026, 3, 1),
		CounterAccountID: id.New(),
	}))

	tr, err := f.svc.CreateTransfer(context.Background(), banking.TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        types.MustMoney("300.00"),
		Date:          domaintest.Date(2026, 3, 2),
	})
	require.NoError(t, err)

	movements := f.audit.ByEntity("bank_account", from.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, audit.ActionPost, movements[0].Action)
	assert.Equal(t, "100.00", movements[0].Changes["amount"])

	transfers := f.audit.ByEntity("fund_transfer", tr.ID)
	require.Len(t, transfers, 1)
	assert.Equal(t, audit.ActionCreate, transfers[0].Action)
	assert.Equal(t, tr.Number, transfers[0].Changes["number"])
}

func TestCreateTransfer_SameAccountRejected(t *testing.T) {
	f := newFixture()
	acc := f.bankAccount(t, "BNK-001", "800.00")

	_, err := f.svc.CreateTransfer(context.Background(), banking.TransferInput{
		FromAccountID: acc.ID,
		ToAccountID:   acc.ID,
		Amount:        types.MustMoney("100.00"),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreateTransfer_InsufficientFunds(t *testing.T) {
	f := newFixture()
	from := f.bankAccount(t, "BNK-001", "50.00")
	to := f.bankAccount(t, "BNK-002", "0")

	_, err := f.svc.CreateTransfer(context.Background(), banking.TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        types.MustMoney("100.00"),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientFunds, appErr.Code)
	assert.Empty(t, f.repo.Transfers)
}

func TestReconcile_ConsistentAndMatching(t *testing.T) {
	f := newFixture()
	acc := f.bankAccount(t, "BNK-001", "750.00")

	asOf := domaintest.Date(2026, 4, 1)
	res, err := f.svc.Reconcile(context.Background(), acc.ID, types.MustMoney("750.00"), asOf)
	require.NoError(t, err)

	assert.True(t, res.CacheConsistent)
	assert.True(t, res.MatchesStatement)
	assert.True(t, res.StatementDifference.IsZero())

	got, err := f.svc.GetAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastReconciledAt)
	assert.Equal(t, asOf, *got.LastReconciledAt)
	require.NotNil(t, got.LastStatementBalance)
	assert.True(t, got.LastStatementBalance.Equal(types.MustMoney("750.00")))
}

func TestReconcile_ReportsStatementDifference(t *testing.T) {
	f := newFixture()
	acc := f.bankAccount(t, "BNK-001", "750.00")

	// The bank thinks there is less: an uncleared outgoing payment.
	res, err := f.svc.Reconcile(context.Background(), acc.ID,
		types.MustMoney("700.00"), domaintest.Date(2026, 4, 1))
	require.NoError(t, err)

	assert.True(t, res.CacheConsistent)
	assert.False(t, res.MatchesStatement)
	assert.True(t, res.StatementDifference.Equal(types.MustMoney("50.00")),
		"difference = %s", res.StatementDifference)
}

func TestReconcile_DetectsCacheDrift(t *testing.T) {
	f := newFixture()
	acc := f.bankAccount(t, "BNK-001", "750.00")

	// Drift the cache away from the ledger.
	acc.CurrentBalance = types.MustMoney("760.00")
	require.NoError(t, f.repo.Update(context.Background(), acc))

	res, err := f.svc.Reconcile(context.Background(), acc.ID,
		types.MustMoney("750.00"), domaintest.Date(2026, 4, 1))
	require.NoError(t, err)

	assert.False(t, res.CacheConsistent)
	assert.True(t, res.LedgerBalance.Equal(types.MustMoney("750.00")))
	assert.True(t, res.CurrentBalance.Equal(types.MustMoney("760.00")))
}
