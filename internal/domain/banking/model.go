// Package banking provides bank accounts, fund transfers and
// reconciliation against the ledger.
package banking

import (
	"context"
	"time"

	"abacus/internal/core/apperror"
	"abacus/internal/core/entity"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
)

// BankAccount is a cash/bank account with a denormalized running
// balance. CurrentBalance is a cache over the linked chart account's
// ledger balance; Reconcile verifies the two agree.
type BankAccount struct {
	entity.Catalog

	BankName      string `db:"bank_name" json:"bankName"`
	AccountNumber string `db:"account_number" json:"accountNumber"`
	Currency      string `db:"currency" json:"currency"`

	// CurrentBalance is maintained transactionally with every posting
	// that touches this account.
	CurrentBalance types.Money `db:"current_balance" json:"currentBalance"`

	// ChartAccountID links to the chart of accounts. Postings fail with
	// a configuration error when the link is missing.
	ChartAccountID *id.ID `db:"chart_account_id" json:"chartAccountId,omitempty"`

	LastReconciledAt     *time.Time   `db:"last_reconciled_at" json:"lastReconciledAt,omitempty"`
	LastStatementBalance *types.Money `db:"last_statement_balance" json:"lastStatementBalance,omitempty"`
}

// New creates a bank account with a generated ID.
func New(code, name string) *BankAccount {
	return &BankAccount{
		Catalog:  entity.NewCatalog(code, name),
		Currency: "USD",
	}
}

// Validate implements entity.Validatable.
func (a *BankAccount) Validate(ctx context.Context) error {
	if err := a.Catalog.Validate(ctx); err != nil {
		return err
	}
	if a.CurrentBalance.IsNegative() {
		return apperror.NewValidation("balance must be non-negative")
	}
	return nil
}

// ChartAccount returns the linked chart account or a configuration
// error. A bank account without a ledger link cannot post.
func (a *BankAccount) ChartAccount() (id.ID, error) {
	if a.ChartAccountID == nil || id.IsNil(*a.ChartAccountID) {
		return id.Nil(), apperror.NewConfiguration(
			"Bank account is not linked to a chart account",
		).WithDetail("bank_account_id", a.ID.String()).
			WithDetail("name", a.Name)
	}
	return *a.ChartAccountID, nil
}

// Transfer moves funds between two bank accounts. Number format: FT-NNNNN.
type Transfer struct {
	entity.Document

	FromAccountID id.ID `db:"from_account_id" json:"fromAccountId"`
	ToAccountID   id.ID `db:"to_account_id" json:"toAccountId"`

	Amount      types.Money `db:"amount" json:"amount"`
	Description string      `db:"description" json:"description,omitempty"`
}

// ReconcileResult reports the three balances the reconciliation
// compares: the denormalized cache, the ledger-derived balance of the
// linked chart account, and the bank statement.
type ReconcileResult struct {
	BankAccountID    id.ID       `json:"bankAccountId"`
	CurrentBalance   types.Money `json:"currentBalance"`
	LedgerBalance    types.Money `json:"ledgerBalance"`
	StatementBalance types.Money `json:"statementBalance"`

	// CacheConsistent is true when CurrentBalance equals LedgerBalance.
	// False means the denormalized balance drifted from the ledger.
	CacheConsistent bool `json:"cacheConsistent"`

	// MatchesStatement is true when CurrentBalance equals the statement.
	MatchesStatement bool `json:"matchesStatement"`

	// StatementDifference is CurrentBalance minus StatementBalance.
	StatementDifference types.Money `json:"statementDifference"`
}
