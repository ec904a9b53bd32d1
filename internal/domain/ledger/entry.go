// Package ledger provides the append-only general ledger store.
//
// Entries are immutable: once written they are never updated or deleted.
// Corrections are made by posting reversing entries (credit notes, debit
// notes, write-offs), so the ledger remains a complete audit trail.
package ledger

import (
	"context"
	"time"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
)

// Entry is a single ledger line. Exactly one of Debit or Credit is
// normally non-zero; both are always non-negative.
type Entry struct {
	// ID is a UUIDv7, so (TransactionDate, ID) ordering is stable and
	// reflects insertion order within a date.
	ID id.ID `db:"id" json:"id"`

	TransactionDate time.Time `db:"transaction_date" json:"transactionDate"`
	Description     string    `db:"description" json:"description"`

	AccountID id.ID `db:"account_id" json:"accountId"`

	Debit  types.Money `db:"debit" json:"debit"`
	Credit types.Money `db:"credit" json:"credit"`

	// Source document links (nullable)
	VoucherID  *id.ID `db:"voucher_id" json:"voucherId,omitempty"`
	InvoiceID  *id.ID `db:"invoice_id" json:"invoiceId,omitempty"`
	BillID     *id.ID `db:"bill_id" json:"billId,omitempty"`
	TransferID *id.ID `db:"transfer_id" json:"transferId,omitempty"`

	// Counterparty links (nullable)
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`
	VendorID   *id.ID `db:"vendor_id" json:"vendorId,omitempty"`

	// BranchID scopes the entry to a branch within the tenant (nullable)
	BranchID *id.ID `db:"branch_id" json:"branchId,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewEntry creates an entry with a generated ID and timestamp.
func NewEntry(date time.Time, accountID id.ID, debit, credit types.Money, description string) *Entry {
	return &Entry{
		ID:              id.New(),
		TransactionDate: date,
		Description:     description,
		AccountID:       accountID,
		Debit:           debit,
		Credit:          credit,
		CreatedAt:       time.Now().UTC(),
	}
}

// Validate checks entry invariants.
func (e *Entry) Validate(ctx context.Context) error {
	if id.IsNil(e.AccountID) {
		return apperror.NewValidation("account is required").
			WithDetail("field", "accountId")
	}
	if e.TransactionDate.IsZero() {
		return apperror.NewValidation("transaction date is required").
			WithDetail("field", "transactionDate")
	}
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return apperror.NewValidation("debit and credit must be non-negative").
			WithDetail("debit", e.Debit.String()).
			WithDetail("credit", e.Credit.String())
	}
	return nil
}

// Amount returns the signed movement of the entry: debit minus credit.
func (e *Entry) Amount() types.Money {
	return e.Debit.Sub(e.Credit)
}
