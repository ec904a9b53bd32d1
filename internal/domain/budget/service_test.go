package budget_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/accounts"
	"abacus/internal/domain/budget"
	"abacus/internal/domain/domaintest"
	"abacus/internal/domain/ledger"
)

type fixture struct {
	repo     *domaintest.FakeBudgets
	accounts *domaintest.FakeAccounts
	store    *domaintest.FakeLedger
	svc      *budget.Service
}

func newFixture() *fixture {
	repo := domaintest.NewFakeBudgets()
	accs := domaintest.NewFakeAccounts()
	store := domaintest.NewFakeLedger()
	return &fixture{
		repo:     repo,
		accounts: accs,
		store:    store,
		svc:      budget.NewService(repo, accs, store),
	}
}

func (f *fixture) account(t *testing.T, code, name string, accType accounts.Type) *accounts.Account {
	t.Helper()
	acc := accounts.New(code, name, accType)
	require.NoError(t, f.accounts.Create(context.Background(), acc))
	return acc
}

func (f *fixture) post(t *testing.T, acc *accounts.Account, date time.Time, debit, credit string) {
	t.Helper()
	e := ledger.NewEntry(date, acc.ID,
		types.MustMoney(debit), types.MustMoney(credit), "activity")
	require.NoError(t, f.store.CreateEntries(context.Background(), []*ledger.Entry{e}))
}

func TestCreate_AssignsItemIDs(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "5000", "Operating Expenses", accounts.TypeExpense)

	b := budget.New("Operating plan", 2026)
	b.Items = []*budget.Item{
		{AccountID: acc.ID, Amount: types.MustMoney("1200.00")},
	}
	require.NoError(t, f.svc.Create(context.Background(), b))

	got, err := f.svc.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.False(t, id.IsNil(got.Items[0].ID))
	assert.Equal(t, b.ID, got.Items[0].BudgetID)
}

func TestCreate_InvalidMonthRejected(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "5000", "Operating Expenses", accounts.TypeExpense)

	month := 13
	b := budget.New("Bad plan", 2026)
	b.Items = []*budget.Item{
		{AccountID: acc.ID, Amount: types.MustMoney("100"), Month: &month},
	}

	err := f.svc.Create(context.Background(), b)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestVsActual_ExpenseAndRevenueSigns(t *testing.T) {
	f := newFixture()
	expense := f.account(t, "5000", "Operating Expenses", accounts.TypeExpense)
	revenue := f.account(t, "4000", "Sales Revenue", accounts.TypeRevenue)

	// Fiscal 2026 activity: 800 spent, 1500 earned.
	f.post(t, expense, domaintest.Date(2026, 6, 15), "800.00", "0")
	f.post(t, revenue, domaintest.Date(2026, 6, 15), "0", "1500.00")

	b := budget.New("2026 plan", 2026)
	b.Items = []*budget.Item{
		{AccountID: expense.ID, Amount: types.MustMoney("1000.00")},
		{AccountID: revenue.ID, Amount: types.MustMoney("2000.00")},
	}
	require.NoError(t, f.svc.Create(context.Background(), b))

	rows, err := f.svc.VsActual(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byCode := map[string]*budget.VsActualRow{}
	for _, row := range rows {
		byCode[row.AccountCode] = row
	}

	// Expense is debit-normal: actual reads straight off the net.
	assert.True(t, byCode["5000"].Actual.Equal(types.MustMoney("800.00")))
	assert.True(t, byCode["5000"].Variance.Equal(types.MustMoney("200.00")), "under budget")

	// Revenue is credit-normal: the flip makes earnings positive.
	assert.True(t, byCode["4000"].Actual.Equal(types.MustMoney("1500.00")))
	assert.True(t, byCode["4000"].Variance.Equal(types.MustMoney("500.00")), "short of plan")
}

func TestVsActual_IgnoresActivityOutsideFiscalYear(t *testing.T) {
	f := newFixture()
	expense := f.account(t, "5000", "Operating Expenses", accounts.TypeExpense)

	f.post(t, expense, domaintest.Date(2026, 6, 15), "300.00", "0")
	f.post(t, expense, domaintest.Date(2027, 1, 15), "999.00", "0")

	b := budget.New("2026 plan", 2026)
	b.Items = []*budget.Item{
		{AccountID: expense.ID, Amount: types.MustMoney("500.00")},
	}
	require.NoError(t, f.svc.Create(context.Background(), b))

	rows, err := f.svc.VsActual(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Actual.Equal(types.MustMoney("300.00")))
}
