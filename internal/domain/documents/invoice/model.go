// Package invoice provides the sales invoice document and its follow-on
// operations: payments, write-offs and credit notes.
package invoice

import (
	"context"
	"time"

	"abacus/internal/core/apperror"
	"abacus/internal/core/entity"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
)

// Status tracks invoice settlement.
type Status string

const (
	StatusUnpaid     Status = "Unpaid"
	StatusPartial    Status = "Partial"
	StatusPaid       Status = "Paid"
	StatusWrittenOff Status = "Written Off"
)

// Item is one invoice line.
type Item struct {
	ID        id.ID `db:"id" json:"id"`
	InvoiceID id.ID `db:"invoice_id" json:"invoiceId"`
	ProductID id.ID `db:"product_id" json:"productId"`

	Description string         `db:"description" json:"description,omitempty"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice   types.Money    `db:"unit_price" json:"unitPrice"`
	LineTotal   types.Money    `db:"line_total" json:"lineTotal"`

	// ReturnedQuantity accumulates credit note returns against this line
	ReturnedQuantity types.Quantity `db:"returned_quantity" json:"returnedQuantity"`
}

// Invoice is a sales invoice. Number format: INV-NNNNN.
type Invoice struct {
	entity.Document

	CustomerID id.ID      `db:"customer_id" json:"customerId"`
	DueDate    *time.Time `db:"due_date" json:"dueDate,omitempty"`

	SubTotal    types.Money `db:"sub_total" json:"subTotal"`
	VATAmount   types.Money `db:"vat_amount" json:"vatAmount"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// PaidAmount accumulates recorded payments
	PaidAmount types.Money `db:"paid_amount" json:"paidAmount"`

	// CreditedAmount accumulates credit note totals
	CreditedAmount types.Money `db:"credited_amount" json:"creditedAmount"`

	Status Status `db:"status" json:"status"`

	Items []*Item `db:"-" json:"items"`
}

// New creates an unposted invoice with a generated ID.
func New(customerID id.ID) *Invoice {
	return &Invoice{
		Document:   entity.NewDocument(),
		CustomerID: customerID,
		Status:     StatusUnpaid,
	}
}

// EffectiveTotal is the amount still owed in principle: the invoice
// total reduced by credit notes.
func (inv *Invoice) EffectiveTotal() types.Money {
	return inv.TotalAmount.Sub(inv.CreditedAmount)
}

// Outstanding is the unsettled amount: effective total minus payments.
func (inv *Invoice) Outstanding() types.Money {
	return inv.EffectiveTotal().Sub(inv.PaidAmount)
}

// RecalcStatus derives the settlement status from the amounts.
// A written-off invoice stays written off.
func (inv *Invoice) RecalcStatus() {
	if inv.Status == StatusWrittenOff {
		return
	}
	switch {
	case inv.PaidAmount.GreaterThanOrEqual(inv.EffectiveTotal()):
		inv.Status = StatusPaid
	case inv.PaidAmount.IsPositive():
		inv.Status = StatusPartial
	default:
		inv.Status = StatusUnpaid
	}
}

// Validate checks invoice invariants before creation.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(inv.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}

	if len(inv.Items) == 0 {
		return apperror.NewValidation("invoice requires at least one item")
	}

	for i, item := range inv.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("item product is required").
				WithDetail("item", i)
		}
		if !item.Quantity.IsPositive() {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("item", i)
		}
		if item.UnitPrice.IsNegative() {
			return apperror.NewValidation("item price must be non-negative").
				WithDetail("item", i)
		}
	}

	return nil
}

// CreditNoteItem is one returned line of a credit note.
type CreditNoteItem struct {
	ID           id.ID `db:"id" json:"id"`
	CreditNoteID id.ID `db:"credit_note_id" json:"creditNoteId"`
	ProductID    id.ID `db:"product_id" json:"productId"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`
	LineTotal types.Money    `db:"line_total" json:"lineTotal"`
}

// CreditNote reverses part or all of an invoice and restocks the
// returned items. Number format: CN-NNNNN.
type CreditNote struct {
	entity.Document

	InvoiceID id.ID `db:"invoice_id" json:"invoiceId"`

	SubTotal    types.Money `db:"sub_total" json:"subTotal"`
	VATAmount   types.Money `db:"vat_amount" json:"vatAmount"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	Reason string `db:"reason" json:"reason,omitempty"`

	Items []*CreditNoteItem `db:"-" json:"items"`
}
