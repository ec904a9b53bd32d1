// Package reports derives financial reports from the ledger.
// Nothing here writes: every report is a pure fold over entries.
package reports

import (
	"time"

	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/accounts"
)

// TrialBalanceRow is one account's position as of a date: the gross
// debit and credit sums plus the net balance (debit minus credit).
// Accounts with a zero net are omitted.
type TrialBalanceRow struct {
	AccountID   id.ID         `json:"accountId"`
	AccountCode string        `json:"accountCode"`
	AccountName string        `json:"accountName"`
	AccountType accounts.Type `json:"accountType"`

	Debit   types.Money `json:"debit"`
	Credit  types.Money `json:"credit"`
	Balance types.Money `json:"balance"`
}

// TrialBalance lists all accounts with a non-zero net. When every
// posted entry set was balanced, the gross TotalDebits equals
// TotalCredits.
type TrialBalance struct {
	AsOf time.Time          `json:"asOf"`
	Rows []*TrialBalanceRow `json:"rows"`

	TotalDebits  types.Money `json:"totalDebits"`
	TotalCredits types.Money `json:"totalCredits"`
}

// BalanceSheetLine is one account with its signed balance
// (credit-normal flip applied).
type BalanceSheetLine struct {
	AccountID   id.ID       `json:"accountId"`
	AccountCode string      `json:"accountCode"`
	AccountName string      `json:"accountName"`
	Balance     types.Money `json:"balance"`
}

// BalanceSheet groups balances by section. Assets = Liabilities + Equity
// holds only when every movement flowed through balanced postings that
// touch these sections consistently; retained earnings are not plugged
// in, so the identity is reported but not enforced.
type BalanceSheet struct {
	AsOf time.Time `json:"asOf"`

	Assets      []*BalanceSheetLine `json:"assets"`
	Liabilities []*BalanceSheetLine `json:"liabilities"`
	Equity      []*BalanceSheetLine `json:"equity"`

	TotalAssets      types.Money `json:"totalAssets"`
	TotalLiabilities types.Money `json:"totalLiabilities"`
	TotalEquity      types.Money `json:"totalEquity"`
}

// IncomeStatementLine is one revenue or expense account over a period.
type IncomeStatementLine struct {
	AccountID   id.ID       `json:"accountId"`
	AccountCode string      `json:"accountCode"`
	AccountName string      `json:"accountName"`
	Amount      types.Money `json:"amount"`
}

// IncomeStatement summarizes revenue and expenses over [Start, End].
type IncomeStatement struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Revenue  []*IncomeStatementLine `json:"revenue"`
	Expenses []*IncomeStatementLine `json:"expenses"`

	TotalRevenue  types.Money `json:"totalRevenue"`
	TotalExpenses types.Money `json:"totalExpenses"`
	NetIncome     types.Money `json:"netIncome"`
}

// GeneralLedgerLine is one entry with the running balance after it.
type GeneralLedgerLine struct {
	EntryID         id.ID       `json:"entryId"`
	TransactionDate time.Time   `json:"transactionDate"`
	Description     string      `json:"description"`
	Debit           types.Money `json:"debit"`
	Credit          types.Money `json:"credit"`

	// RunningBalance folds debit minus credit over the lines in
	// (date, id) order, starting from OpeningBalance.
	RunningBalance types.Money `json:"runningBalance"`
}

// GeneralLedger is the per-account entry listing with running balance.
type GeneralLedger struct {
	AccountID   id.ID  `json:"accountId"`
	AccountCode string `json:"accountCode"`
	AccountName string `json:"accountName"`

	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`

	// OpeningBalance is the raw net of all entries before From.
	OpeningBalance types.Money `json:"openingBalance"`

	Lines []*GeneralLedgerLine `json:"lines"`

	// ClosingBalance equals the last running balance (or the opening
	// balance when no lines fall in the range).
	ClosingBalance types.Money `json:"closingBalance"`
}

// AgingBucket names the standard receivables/payables aging buckets.
type AgingBucket string

const (
	BucketCurrent AgingBucket = "current"
	Bucket1To30   AgingBucket = "1-30"
	Bucket31To60  AgingBucket = "31-60"
	Bucket61To90  AgingBucket = "61-90"
	BucketOver90  AgingBucket = "over_90"
)

// AgingRow is one open document with its outstanding amount and bucket.
type AgingRow struct {
	DocumentID     id.ID       `json:"documentId"`
	DocumentNumber string      `json:"documentNumber"`
	CounterpartyID id.ID       `json:"counterpartyId"`
	DueDate        *time.Time  `json:"dueDate,omitempty"`
	Outstanding    types.Money `json:"outstanding"`
	DaysOverdue    int         `json:"daysOverdue"`
	Bucket         AgingBucket `json:"bucket"`
}

// AgingReport buckets outstanding documents by days overdue.
type AgingReport struct {
	AsOf time.Time   `json:"asOf"`
	Rows []*AgingRow `json:"rows"`

	// Totals per bucket
	Totals map[AgingBucket]types.Money `json:"totals"`

	TotalOutstanding types.Money `json:"totalOutstanding"`
}
