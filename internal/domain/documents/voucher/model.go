// Package voucher provides the journal voucher document: a manual,
// free-form balanced ledger entry.
package voucher

import (
	"context"

	"abacus/internal/core/apperror"
	"abacus/internal/core/entity"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
)

// Line is one debit or credit leg of a voucher.
type Line struct {
	ID        id.ID       `db:"id" json:"id"`
	VoucherID id.ID       `db:"voucher_id" json:"voucherId"`
	AccountID id.ID       `db:"account_id" json:"accountId"`
	Debit     types.Money `db:"debit" json:"debit"`
	Credit    types.Money `db:"credit" json:"credit"`

	// Description overrides the voucher description for this leg
	Description string `db:"description" json:"description,omitempty"`
}

// JournalVoucher is a manual accounting entry. Number format: JV-NNNNN.
type JournalVoucher struct {
	entity.Document

	Description string `db:"description" json:"description"`

	// Reference is an optional external document reference
	Reference string `db:"reference" json:"reference,omitempty"`

	Lines []*Line `db:"-" json:"lines"`
}

// New creates an unposted voucher with a generated ID.
func New() *JournalVoucher {
	return &JournalVoucher{
		Document: entity.NewDocument(),
	}
}

// TotalDebits sums the debit side of the lines.
func (v *JournalVoucher) TotalDebits() types.Money {
	total := types.ZeroMoney()
	for _, l := range v.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredits sums the credit side of the lines.
func (v *JournalVoucher) TotalCredits() types.Money {
	total := types.ZeroMoney()
	for _, l := range v.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// Validate checks voucher invariants: at least two lines, valid amounts,
// and a balanced total. Runs before anything persists.
func (v *JournalVoucher) Validate(ctx context.Context) error {
	if err := v.Document.Validate(ctx); err != nil {
		return err
	}

	if len(v.Lines) < 2 {
		return apperror.NewValidation("voucher requires at least two lines")
	}

	for i, l := range v.Lines {
		if id.IsNil(l.AccountID) {
			return apperror.NewValidation("line account is required").
				WithDetail("line", i)
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return apperror.NewValidation("line amounts must be non-negative").
				WithDetail("line", i)
		}
		if l.Debit.IsZero() && l.Credit.IsZero() {
			return apperror.NewValidation("line must carry a debit or a credit").
				WithDetail("line", i)
		}
		if l.Debit.IsPositive() && l.Credit.IsPositive() {
			return apperror.NewValidation("line cannot carry both a debit and a credit").
				WithDetail("line", i)
		}
	}

	if !v.TotalDebits().Equal(v.TotalCredits()) {
		return apperror.NewUnbalanced(
			v.TotalDebits().String(),
			v.TotalCredits().String(),
		)
	}

	return nil
}
