package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/core/id"
	"abacus/internal/core/tx"
	"abacus/internal/core/types"
	"abacus/internal/domain/accounts"
	"abacus/internal/domain/documents/bill"
	"abacus/internal/domain/documents/invoice"
	"abacus/internal/domain/domaintest"
	"abacus/internal/domain/ledger"
	"abacus/internal/domain/reports"
)

type fixture struct {
	accounts *domaintest.FakeAccounts
	store    *domaintest.FakeLedger
	invoices *domaintest.FakeInvoices
	bills    *domaintest.FakeBills
	chart    map[string]*accounts.Account
	svc      *reports.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		accounts: domaintest.NewFakeAccounts(),
		store:    domaintest.NewFakeLedger(),
		invoices: domaintest.NewFakeInvoices(),
		bills:    domaintest.NewFakeBills(),
		chart:    make(map[string]*accounts.Account),
	}

	chart := []struct {
		code    string
		name    string
		accType accounts.Type
	}{
		{"1000", "Cash", accounts.TypeAsset},
		{"1100", "Accounts Receivable", accounts.TypeAsset},
		{"2000", "Accounts Payable", accounts.TypeLiability},
		{"3000", "Owner Equity", accounts.TypeEquity},
		{"4000", "Sales Revenue", accounts.TypeRevenue},
		{"5000", "Operating Expenses", accounts.TypeExpense},
	}
	for _, c := range chart {
		acc := accounts.New(c.code, c.name, c.accType)
		require.NoError(t, f.accounts.Create(context.Background(), acc))
		f.chart[c.code] = acc
	}

	f.svc = reports.NewService(f.accounts, f.store, f.invoices, f.bills)
	return f
}

func (f *fixture) post(t *testing.T, date time.Time, code, debit, credit string) {
	t.Helper()
	e := ledger.NewEntry(date, f.chart[code].ID,
		types.MustMoney(debit), types.MustMoney(credit), "test entry")
	require.NoError(t, f.store.CreateEntries(context.Background(), []*ledger.Entry{e}))
}

// seedActivity posts a small balanced history:
//
//	Jan 5:  capital 1000        (Dr Cash / Cr Equity)
//	Jan 20: cash sale 400       (Dr Cash / Cr Revenue)
//	Feb 3:  rent paid 150       (Dr Expenses / Cr Cash)
func (f *fixture) seedActivity(t *testing.T) {
	t.Helper()
	f.post(t, domaintest.Date(2026, 1, 5), "1000", "1000.00", "0")
	f.post(t, domaintest.Date(2026, 1, 5), "3000", "0", "1000.00")
	f.post(t, domaintest.Date(2026, 1, 20), "1000", "400.00", "0")
	f.post(t, domaintest.Date(2026, 1, 20), "4000", "0", "400.00")
	f.post(t, domaintest.Date(2026, 2, 3), "5000", "150.00", "0")
	f.post(t, domaintest.Date(2026, 2, 3), "1000", "0", "150.00")
}

func TestTrialBalance_BalancesAfterBalancedPostings(t *testing.T) {
	f := newFixture(t)
	f.seedActivity(t)

	tb, err := f.svc.TrialBalance(context.Background(), domaintest.Date(2026, 12, 31))
	require.NoError(t, err)

	assert.True(t, tb.TotalDebits.Equal(tb.TotalCredits),
		"debits %s != credits %s", tb.TotalDebits, tb.TotalCredits)
	assert.True(t, tb.TotalDebits.Equal(types.MustMoney("1550.00")))

	byCode := map[string]*reports.TrialBalanceRow{}
	for _, row := range tb.Rows {
		byCode[row.AccountCode] = row
	}

	// Cash: gross 1400 in and 150 out, netting to 1250.
	require.Contains(t, byCode, "1000")
	assert.True(t, byCode["1000"].Debit.Equal(types.MustMoney("1400.00")))
	assert.True(t, byCode["1000"].Credit.Equal(types.MustMoney("150.00")))
	assert.True(t, byCode["1000"].Balance.Equal(types.MustMoney("1250.00")))

	// Revenue: credit-heavy, so the net balance is negative.
	require.Contains(t, byCode, "4000")
	assert.True(t, byCode["4000"].Debit.IsZero())
	assert.True(t, byCode["4000"].Credit.Equal(types.MustMoney("400.00")))
	assert.True(t, byCode["4000"].Balance.Equal(types.MustMoney("-400.00")))

	// Accounts with no activity are omitted.
	assert.NotContains(t, byCode, "1100")
	assert.NotContains(t, byCode, "2000")
}

func TestTrialBalance_AsOfCutsOff(t *testing.T) {
	f := newFixture(t)
	f.seedActivity(t)

	tb, err := f.svc.TrialBalance(context.Background(), domaintest.Date(2026, 1, 31))
	require.NoError(t, err)

	byCode := map[string]*reports.TrialBalanceRow{}
	for _, row := range tb.Rows {
		byCode[row.AccountCode] = row
	}

	// February rent is outside the window.
	assert.NotContains(t, byCode, "5000")
	require.Contains(t, byCode, "1000")
	assert.True(t, byCode["1000"].Debit.Equal(types.MustMoney("1400.00")))
	assert.True(t, byCode["1000"].Credit.IsZero())
	assert.True(t, byCode["1000"].Balance.Equal(types.MustMoney("1400.00")))
}

func TestBalanceSheet_SectionsAndSigns(t *testing.T) {
	f := newFixture(t)
	f.seedActivity(t)

	bs, err := f.svc.BalanceSheet(context.Background(), domaintest.Date(2026, 12, 31))
	require.NoError(t, err)

	require.Len(t, bs.Assets, 1)
	assert.Equal(t, "1000", bs.Assets[0].AccountCode)
	assert.True(t, bs.Assets[0].Balance.Equal(types.MustMoney("1250.00")))

	// Equity is credit-normal: reported positive.
	require.Len(t, bs.Equity, 1)
	assert.True(t, bs.Equity[0].Balance.Equal(types.MustMoney("1000.00")))

	assert.Empty(t, bs.Liabilities)
	assert.True(t, bs.TotalAssets.Equal(types.MustMoney("1250.00")))
	assert.True(t, bs.TotalEquity.Equal(types.MustMoney("1000.00")))
}

func TestIncomeStatement_RevenueExpensesNet(t *testing.T) {
	f := newFixture(t)
	f.seedActivity(t)

	is, err := f.svc.IncomeStatement(context.Background(),
		domaintest.Date(2026, 1, 1), domaintest.Date(2026, 12, 31))
	require.NoError(t, err)

	assert.True(t, is.TotalRevenue.Equal(types.MustMoney("400.00")))
	assert.True(t, is.TotalExpenses.Equal(types.MustMoney("150.00")))
	assert.True(t, is.NetIncome.Equal(types.MustMoney("250.00")))

	require.Len(t, is.Revenue, 1)
	assert.Equal(t, "4000", is.Revenue[0].AccountCode)
	require.Len(t, is.Expenses, 1)
	assert.Equal(t, "5000", is.Expenses[0].AccountCode)
}

func TestIncomeStatement_PeriodBounds(t *testing.T) {
	f := newFixture(t)
	f.seedActivity(t)

	// January only: the February rent is out of range.
	is, err := f.svc.IncomeStatement(context.Background(),
		domaintest.Date(2026, 1, 1), domaintest.Date(2026, 1, 31))
	require.NoError(t, err)

	assert.True(t, is.TotalRevenue.Equal(types.MustMoney("400.00")))
	assert.True(t, is.TotalExpenses.IsZero())
	assert.True(t, is.NetIncome.Equal(types.MustMoney("400.00")))
}

func TestGeneralLedger_RunningBalance(t *testing.T) {
	f := newFixture(t)
	f.seedActivity(t)

	gl, err := f.svc.GeneralLedger(context.Background(), f.chart["1000"].ID, nil, nil)
	require.NoError(t, err)

	assert.True(t, gl.OpeningBalance.IsZero())
	require.Len(t, gl.Lines, 3)
	assert.True(t, gl.Lines[0].RunningBalance.Equal(types.MustMoney("1000.00")))
	assert.True(t, gl.Lines[1].RunningBalance.Equal(types.MustMoney("1400.00")))
	assert.True(t, gl.Lines[2].RunningBalance.Equal(types.MustMoney("1250.00")))
	assert.True(t, gl.ClosingBalance.Equal(types.MustMoney("1250.00")))
}

func TestGeneralLedger_OpeningBalanceFromEarlierEntries(t *testing.T) {
	f := newFixture(t)
	f.seedActivity(t)

	from := domaintest.Date(2026, 2, 1)
	gl, err := f.svc.GeneralLedger(context.Background(), f.chart["1000"].ID, &from, nil)
	require.NoError(t, err)

	// January activity folds into the opening balance.
	assert.True(t, gl.OpeningBalance.Equal(types.MustMoney("1400.00")))
	require.Len(t, gl.Lines, 1)
	assert.True(t, gl.ClosingBalance.Equal(types.MustMoney("1250.00")))
}

func TestGeneralLedger_ClosingMatchesAccountBalance(t *testing.T) {
	f := newFixture(t)
	f.seedActivity(t)

	gl, err := f.svc.GeneralLedger(context.Background(), f.chart["1000"].ID, nil, nil)
	require.NoError(t, err)

	accountSvc := accounts.NewService(f.accounts, f.store, tx.Passthrough{})
	balance, err := accountSvc.GetBalance(context.Background(), f.chart["1000"].ID, nil)
	require.NoError(t, err)

	// Replaying the ledger lands on the same figure as the balance query.
	assert.True(t, gl.ClosingBalance.Equal(balance),
		"closing %s != balance %s", gl.ClosingBalance, balance)
}

func TestBalanceSheet_DoesNotBalanceWithoutClosing(t *testing.T) {
	f := newFixture(t)
	f.seedActivity(t)

	bs, err := f.svc.BalanceSheet(context.Background(), domaintest.Date(2026, 12, 31))
	require.NoError(t, err)

	// Revenue and expenses are never closed into equity, so the accounting
	// equation holds only up to the unclosed net income (400 - 150 = 250).
	gap := bs.TotalAssets.Sub(bs.TotalLiabilities).Sub(bs.TotalEquity)
	assert.True(t, gap.Equal(types.MustMoney("250.00")), "gap = %s", gap)
}

func outstandingInvoice(t *testing.T, f *fixture, number string, total string, due *time.Time) *invoice.Invoice {
	t.Helper()
	inv := invoice.New(id.New())
	inv.Number = number
	inv.DueDate = due
	inv.TotalAmount = types.MustMoney(total)
	require.NoError(t, f.invoices.Create(context.Background(), inv))
	return inv
}

func TestAgingReceivables_Buckets(t *testing.T) {
	f := newFixture(t)
	asOf := domaintest.Date(2026, 6, 30)

	due45 := domaintest.Date(2026, 5, 16) // 45 days overdue
	due10 := domaintest.Date(2026, 6, 20) // 10 days overdue
	future := domaintest.Date(2026, 7, 15)

	outstandingInvoice(t, f, "INV-00001", "100.00", &due45)
	outstandingInvoice(t, f, "INV-00002", "200.00", &due10)
	outstandingInvoice(t, f, "INV-00003", "300.00", &future)
	outstandingInvoice(t, f, "INV-00004", "400.00", nil)

	// Fully paid invoices carry no outstanding and are excluded.
	paid := outstandingInvoice(t, f, "INV-00005", "500.00", &due45)
	paid.PaidAmount = types.MustMoney("500.00")
	paid.RecalcStatus()

	report, err := f.svc.AgingReceivables(context.Background(), asOf)
	require.NoError(t, err)

	require.Len(t, report.Rows, 4)
	assert.True(t, report.TotalOutstanding.Equal(types.MustMoney("1000.00")))

	byNumber := map[string]*reports.AgingRow{}
	for _, row := range report.Rows {
		byNumber[row.DocumentNumber] = row
	}

	assert.Equal(t, reports.Bucket31To60, byNumber["INV-00001"].Bucket)
	assert.Equal(t, 45, byNumber["INV-00001"].DaysOverdue)
	assert.Equal(t, reports.Bucket1To30, byNumber["INV-00002"].Bucket)
	assert.Equal(t, reports.BucketCurrent, byNumber["INV-00003"].Bucket, "not yet due")
	assert.Equal(t, reports.BucketCurrent, byNumber["INV-00004"].Bucket, "no due date")

	assert.True(t, report.Totals[reports.Bucket31To60].Equal(types.MustMoney("100.00")))
	assert.True(t, report.Totals[reports.BucketCurrent].Equal(types.MustMoney("700.00")))
}

func TestAgingReceivables_CountsWholeCalendarDays(t *testing.T) {
	f := newFixture(t)
	asOf := domaintest.Date(2026, 6, 30)

	// Due late in the evening of the previous day: less than 24 hours
	// before the cutoff, but a full calendar day overdue.
	due := domaintest.Date(2026, 6, 29).Add(23 * time.Hour)
	outstandingInvoice(t, f, "INV-00001", "100.00", &due)

	report, err := f.svc.AgingReceivables(context.Background(), asOf)
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, 1, report.Rows[0].DaysOverdue)
	assert.Equal(t, reports.Bucket1To30, report.Rows[0].Bucket)
}

func TestAgingPayables_Buckets(t *testing.T) {
	f := newFixture(t)
	asOf := domaintest.Date(2026, 6, 30)

	due100 := domaintest.Date(2026, 3, 22) // 100 days overdue
	due70 := domaintest.Date(2026, 4, 21)  // 70 days overdue

	b1 := bill.New(id.New())
	b1.Number = "PO-00001"
	b1.DueDate = &due100
	b1.TotalAmount = types.MustMoney("250.00")
	require.NoError(t, f.bills.Create(context.Background(), b1))

	b2 := bill.New(id.New())
	b2.Number = "PO-00002"
	b2.DueDate = &due70
	b2.TotalAmount = types.MustMoney("80.00")
	b2.PaidAmount = types.MustMoney("30.00")
	b2.Status = bill.StatusPartial
	require.NoError(t, f.bills.Create(context.Background(), b2))

	report, err := f.svc.AgingPayables(context.Background(), asOf)
	require.NoError(t, err)

	require.Len(t, report.Rows, 2)
	assert.True(t, report.Totals[reports.BucketOver90].Equal(types.MustMoney("250.00")))
	// Partial payment reduces the bucketed amount.
	assert.True(t, report.Totals[reports.Bucket61To90].Equal(types.MustMoney("50.00")))
	assert.True(t, report.TotalOutstanding.Equal(types.MustMoney("300.00")))
}
