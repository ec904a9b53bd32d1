// Package bill provides the purchase bill document and its follow-on
// operations: payments and debit notes (purchase returns).
package bill

import (
	"context"
	"time"

	"abacus/internal/core/apperror"
	"abacus/internal/core/entity"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
)

// Status tracks bill settlement.
type Status string

const (
	StatusUnpaid  Status = "Unpaid"
	StatusPartial Status = "Partial"
	StatusPaid    Status = "Paid"
)

// Item is one bill line.
type Item struct {
	ID        id.ID `db:"id" json:"id"`
	BillID    id.ID `db:"bill_id" json:"billId"`
	ProductID id.ID `db:"product_id" json:"productId"`

	Description string         `db:"description" json:"description,omitempty"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	UnitCost    types.Money    `db:"unit_cost" json:"unitCost"`
	LineTotal   types.Money    `db:"line_total" json:"lineTotal"`

	// ReturnedQuantity accumulates debit note returns against this line
	ReturnedQuantity types.Quantity `db:"returned_quantity" json:"returnedQuantity"`
}

// Bill is a purchase bill. Number format: PO-NNNNN.
type Bill struct {
	entity.Document

	VendorID id.ID      `db:"vendor_id" json:"vendorId"`
	DueDate  *time.Time `db:"due_date" json:"dueDate,omitempty"`

	SubTotal    types.Money `db:"sub_total" json:"subTotal"`
	VATAmount   types.Money `db:"vat_amount" json:"vatAmount"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// PaidAmount accumulates recorded payments
	PaidAmount types.Money `db:"paid_amount" json:"paidAmount"`

	// DebitedAmount accumulates debit note totals
	DebitedAmount types.Money `db:"debited_amount" json:"debitedAmount"`

	Status Status `db:"status" json:"status"`

	Items []*Item `db:"-" json:"items"`
}

// New creates an unposted bill with a generated ID.
func New(vendorID id.ID) *Bill {
	return &Bill{
		Document: entity.NewDocument(),
		VendorID: vendorID,
		Status:   StatusUnpaid,
	}
}

// EffectiveTotal is the bill total reduced by debit notes.
func (b *Bill) EffectiveTotal() types.Money {
	return b.TotalAmount.Sub(b.DebitedAmount)
}

// Outstanding is the unsettled amount: effective total minus payments.
func (b *Bill) Outstanding() types.Money {
	return b.EffectiveTotal().Sub(b.PaidAmount)
}

// RecalcStatus derives the settlement status from the amounts.
func (b *Bill) RecalcStatus() {
	switch {
	case b.PaidAmount.GreaterThanOrEqual(b.EffectiveTotal()):
		b.Status = StatusPaid
	case b.PaidAmount.IsPositive():
		b.Status = StatusPartial
	default:
		b.Status = StatusUnpaid
	}
}

// Validate checks bill invariants before creation.
func (b *Bill) Validate(ctx context.Context) error {
	if err := b.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(b.VendorID) {
		return apperror.NewValidation("vendor is required").
			WithDetail("field", "vendorId")
	}

	if len(b.Items) == 0 {
		return apperror.NewValidation("bill requires at least one item")
	}

	for i, item := range b.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("item product is required").
				WithDetail("item", i)
		}
		if !item.Quantity.IsPositive() {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("item", i)
		}
		if item.UnitCost.IsNegative() {
			return apperror.NewValidation("item cost must be non-negative").
				WithDetail("item", i)
		}
	}

	return nil
}

// DebitNoteItem is one returned line of a debit note.
type DebitNoteItem struct {
	ID          id.ID `db:"id" json:"id"`
	DebitNoteID id.ID `db:"debit_note_id" json:"debitNoteId"`
	ProductID   id.ID `db:"product_id" json:"productId"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitCost  types.Money    `db:"unit_cost" json:"unitCost"`
	LineTotal types.Money    `db:"line_total" json:"lineTotal"`
}

// DebitNote reverses part or all of a bill and removes the returned
// items from stock. Number format: DN-NNNNN.
type DebitNote struct {
	entity.Document

	BillID id.ID `db:"bill_id" json:"billId"`

	SubTotal    types.Money `db:"sub_total" json:"subTotal"`
	VATAmount   types.Money `db:"vat_amount" json:"vatAmount"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	Reason string `db:"reason" json:"reason,omitempty"`

	Items []*DebitNoteItem `db:"-" json:"items"`
}
