// Package budget provides fiscal-year budgets and budget-vs-actual
// comparison against the ledger.
package budget

import (
	"context"

	"abacus/internal/core/apperror"
	"abacus/internal/core/entity"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
)

// Item budgets one account for the fiscal year, optionally by month.
type Item struct {
	ID        id.ID `db:"id" json:"id"`
	BudgetID  id.ID `db:"budget_id" json:"budgetId"`
	AccountID id.ID `db:"account_id" json:"accountId"`

	Amount types.Money `db:"amount" json:"amount"`

	// Month 1-12, nil for an annual amount
	Month *int `db:"month" json:"month,omitempty"`
}

// Budget is a named fiscal-year plan.
type Budget struct {
	entity.BaseDocument

	Name       string `db:"name" json:"name"`
	FiscalYear int    `db:"fiscal_year" json:"fiscalYear"`

	Items []*Item `db:"-" json:"items"`
}

// New creates a budget with a generated ID.
func New(name string, fiscalYear int) *Budget {
	return &Budget{
		BaseDocument: entity.NewBaseDocument(),
		Name:         name,
		FiscalYear:   fiscalYear,
	}
}

// Validate checks budget invariants.
func (b *Budget) Validate(ctx context.Context) error {
	if b.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if b.FiscalYear < 1900 || b.FiscalYear > 9999 {
		return apperror.NewValidation("fiscal year is out of range").
			WithDetail("field", "fiscalYear")
	}
	for i, item := range b.Items {
		if id.IsNil(item.AccountID) {
			return apperror.NewValidation("item account is required").
				WithDetail("item", i)
		}
		if item.Amount.IsNegative() {
			return apperror.NewValidation("item amount must be non-negative").
				WithDetail("item", i)
		}
		if item.Month != nil && (*item.Month < 1 || *item.Month > 12) {
			return apperror.NewValidation("item month must be 1-12").
				WithDetail("item", i)
		}
	}
	return nil
}

// VsActualRow compares one budgeted account against ledger activity.
type VsActualRow struct {
	AccountID   id.ID  `json:"accountId"`
	AccountCode string `json:"accountCode"`
	AccountName string `json:"accountName"`

	Budgeted types.Money `json:"budgeted"`

	// Actual is the signed ledger activity for the fiscal year, with
	// the credit-normal flip applied for revenue accounts.
	Actual types.Money `json:"actual"`

	// Variance is budgeted minus actual.
	Variance types.Money `json:"variance"`
}
