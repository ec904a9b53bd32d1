package reports

import (
	"context"
	"fmt"
	"time"

	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/accounts"
	"abacus/internal/domain/documents/bill"
	"abacus/internal/domain/documents/invoice"
	"abacus/internal/domain/ledger"
)

// Service derives reports from the ledger and open documents.
type Service struct {
	accounts accounts.Repository
	entries  ledger.Repository
	invoices invoice.Repository
	bills    bill.Repository
}

// NewService creates a new reports service.
func NewService(
	accs accounts.Repository,
	entries ledger.Repository,
	invoices invoice.Repository,
	bills bill.Repository,
) *Service {
	return &Service{
		accounts: accs,
		entries:  entries,
		invoices: invoices,
		bills:    bills,
	}
}

// TrialBalance sums every active account as of the date and lists the
// ones with a non-zero net: gross debit and credit sums per row, plus
// the net balance.
func (s *Service) TrialBalance(ctx context.Context, asOf time.Time) (*TrialBalance, error) {
	accs, err := s.accounts.List(ctx, accounts.ListFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	tb := &TrialBalance{
		AsOf:         asOf,
		TotalDebits:  types.ZeroMoney(),
		TotalCredits: types.ZeroMoney(),
	}

	for _, acc := range accs {
		sums, err := s.entries.SumByAccount(ctx, acc.ID, &asOf)
		if err != nil {
			return nil, fmt.Errorf("sum account %s: %w", acc.Code, err)
		}

		net := sums.Net()
		if net.IsZero() {
			continue
		}

		tb.Rows = append(tb.Rows, &TrialBalanceRow{
			AccountID:   acc.ID,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			AccountType: acc.Type,
			Debit:       sums.Debit,
			Credit:      sums.Credit,
			Balance:     net,
		})
		tb.TotalDebits = tb.TotalDebits.Add(sums.Debit)
		tb.TotalCredits = tb.TotalCredits.Add(sums.Credit)
	}

	return tb, nil
}

// BalanceSheet groups account balances into assets, liabilities and
// equity as of the date. The credit-normal flip is applied, so every
// section reads positive for normal balances.
func (s *Service) BalanceSheet(ctx context.Context, asOf time.Time) (*BalanceSheet, error) {
	accs, err := s.accounts.List(ctx, accounts.ListFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	bs := &BalanceSheet{
		AsOf:             asOf,
		TotalAssets:      types.ZeroMoney(),
		TotalLiabilities: types.ZeroMoney(),
		TotalEquity:      types.ZeroMoney(),
	}

	for _, acc := range accs {
		var section *[]*BalanceSheetLine
		var total *types.Money
		switch acc.Type {
		case accounts.TypeAsset:
			section, total = &bs.Assets, &bs.TotalAssets
		case accounts.TypeLiability:
			section, total = &bs.Liabilities, &bs.TotalLiabilities
		case accounts.TypeEquity:
			section, total = &bs.Equity, &bs.TotalEquity
		default:
			continue
		}

		sums, err := s.entries.SumByAccount(ctx, acc.ID, &asOf)
		if err != nil {
			return nil, fmt.Errorf("sum account %s: %w", acc.Code, err)
		}

		balance := sums.Net()
		if acc.Type.CreditNormal() {
			balance = balance.Neg()
		}
		if balance.IsZero() {
			continue
		}

		*section = append(*section, &BalanceSheetLine{
			AccountID:   acc.ID,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			Balance:     balance,
		})
		*total = total.Add(balance)
	}

	return bs, nil
}

// IncomeStatement sums revenue and expense activity over [start, end].
// Revenue lines are credits minus debits, expense lines debits minus
// credits; net income is total revenue minus total expenses.
func (s *Service) IncomeStatement(ctx context.Context, start, end time.Time) (*IncomeStatement, error) {
	accs, err := s.accounts.List(ctx, accounts.ListFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	is := &IncomeStatement{
		Start:         start,
		End:           end,
		TotalRevenue:  types.ZeroMoney(),
		TotalExpenses: types.ZeroMoney(),
	}

	for _, acc := range accs {
		if acc.Type != accounts.TypeRevenue && acc.Type != accounts.TypeExpense {
			continue
		}

		sums, err := s.entries.SumByAccountPeriod(ctx, acc.ID, start, end)
		if err != nil {
			return nil, fmt.Errorf("sum account %s: %w", acc.Code, err)
		}

		var amount types.Money
		if acc.Type == accounts.TypeRevenue {
			amount = sums.Credit.Sub(sums.Debit)
		} else {
			amount = sums.Debit.Sub(sums.Credit)
		}
		if amount.IsZero() {
			continue
		}

		line := &IncomeStatementLine{
			AccountID:   acc.ID,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			Amount:      amount,
		}
		if acc.Type == accounts.TypeRevenue {
			is.Revenue = append(is.Revenue, line)
			is.TotalRevenue = is.TotalRevenue.Add(amount)
		} else {
			is.Expenses = append(is.Expenses, line)
			is.TotalExpenses = is.TotalExpenses.Add(amount)
		}
	}

	is.NetIncome = is.TotalRevenue.Sub(is.TotalExpenses)
	return is, nil
}

// GeneralLedger lists an account's entries in (date, id) order with a
// running balance. When from is set, the fold starts from the net of
// all earlier entries; the closing balance therefore always equals the
// account's raw balance as of the end of the range.
func (s *Service) GeneralLedger(ctx context.Context, accountID id.ID, from, to *time.Time) (*GeneralLedger, error) {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	gl := &GeneralLedger{
		AccountID:      acc.ID,
		AccountCode:    acc.Code,
		AccountName:    acc.Name,
		From:           from,
		To:             to,
		OpeningBalance: types.ZeroMoney(),
	}

	if from != nil {
		before := from.Add(-time.Nanosecond)
		sums, err := s.entries.SumByAccount(ctx, accountID, &before)
		if err != nil {
			return nil, fmt.Errorf("opening balance: %w", err)
		}
		gl.OpeningBalance = sums.Net()
	}

	entries, err := s.entries.ListByAccount(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	running := gl.OpeningBalance
	for _, e := range entries {
		running = running.Add(e.Amount())
		gl.Lines = append(gl.Lines, &GeneralLedgerLine{
			EntryID:         e.ID,
			TransactionDate: e.TransactionDate,
			Description:     e.Description,
			Debit:           e.Debit,
			Credit:          e.Credit,
			RunningBalance:  running,
		})
	}
	gl.ClosingBalance = running

	return gl, nil
}

// AgingReceivables buckets outstanding invoices by days overdue as of
// the date. Invoices without a due date fall in the current bucket.
func (s *Service) AgingReceivables(ctx context.Context, asOf time.Time) (*AgingReport, error) {
	invoices, err := s.invoices.ListOutstanding(ctx)
	if err != nil {
		return nil, fmt.Errorf("list outstanding invoices: %w", err)
	}

	report := newAgingReport(asOf)
	for _, inv := range invoices {
		outstanding := inv.Outstanding()
		if !outstanding.IsPositive() {
			continue
		}
		report.add(inv.ID, inv.Number, inv.CustomerID, inv.DueDate, outstanding)
	}
	return report, nil
}

// AgingPayables buckets outstanding bills by days overdue as of the date.
func (s *Service) AgingPayables(ctx context.Context, asOf time.Time) (*AgingReport, error) {
	bills, err := s.bills.ListOutstanding(ctx)
	if err != nil {
		return nil, fmt.Errorf("list outstanding bills: %w", err)
	}

	report := newAgingReport(asOf)
	for _, b := range bills {
		outstanding := b.Outstanding()
		if !outstanding.IsPositive() {
			continue
		}
		report.add(b.ID, b.Number, b.VendorID, b.DueDate, outstanding)
	}
	return report, nil
}

func newAgingReport(asOf time.Time) *AgingReport {
	return &AgingReport{
		AsOf: asOf,
		Totals: map[AgingBucket]types.Money{
			BucketCurrent: types.ZeroMoney(),
			Bucket1To30:   types.ZeroMoney(),
			Bucket31To60:  types.ZeroMoney(),
			Bucket61To90:  types.ZeroMoney(),
			BucketOver90:  types.ZeroMoney(),
		},
		TotalOutstanding: types.ZeroMoney(),
	}
}

func (r *AgingReport) add(docID id.ID, number string, counterparty id.ID, dueDate *time.Time, outstanding types.Money) {
	days := 0
	if dueDate != nil {
		// Whole calendar days: time-of-day on either side must not
		// shave a day off the overdue count.
		days = int(dateOnly(r.AsOf).Sub(dateOnly(*dueDate)).Hours() / 24)
	}

	row := &AgingRow{
		DocumentID:     docID,
		DocumentNumber: number,
		CounterpartyID: counterparty,
		DueDate:        dueDate,
		Outstanding:    outstanding,
		DaysOverdue:    days,
		Bucket:         bucketFor(days),
	}

	r.Rows = append(r.Rows, row)
	r.Totals[row.Bucket] = r.Totals[row.Bucket].Add(outstanding)
	r.TotalOutstanding = r.TotalOutstanding.Add(outstanding)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func bucketFor(daysOverdue int) AgingBucket {
	switch {
	case daysOverdue <= 0:
		return BucketCurrent
	case daysOverdue <= 30:
		return Bucket1To30
	case daysOverdue <= 60:
		return Bucket31To60
	case daysOverdue <= 90:
		return Bucket61To90
	default:
		return BucketOver90
	}
}
