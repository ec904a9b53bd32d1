package dto

import (
	"time"

	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/documents/bill"
	"abacus/internal/domain/documents/invoice"
	"abacus/internal/domain/documents/voucher"
)

// --- Journal Voucher ---

// VoucherLineRequest is one debit or credit leg.
type VoucherLineRequest struct {
	AccountID   id.ID       `json:"accountId" binding:"required"`
	Debit       types.Money `json:"debit"`
	Credit      types.Money `json:"credit"`
	Description string      `json:"description"`
}

// CreateVoucherRequest for posting a manual journal entry.
type CreateVoucherRequest struct {
	Date        time.Time            `json:"date"`
	Description string               `json:"description"`
	Reference   string               `json:"reference"`
	BranchID    *id.ID               `json:"branchId"`
	Lines       []VoucherLineRequest `json:"lines" binding:"required,min=2"`
}

// ToEntity converts the request to a domain voucher.
func (r CreateVoucherRequest) ToEntity() *voucher.JournalVoucher {
	v := voucher.New()
	if !r.Date.IsZero() {
		v.Date = r.Date
	}
	v.Description = r.Description
	v.Reference = r.Reference
	v.BranchID = r.BranchID
	for _, l := range r.Lines {
		v.Lines = append(v.Lines, &voucher.Line{
			ID:          id.New(),
			VoucherID:   v.ID,
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		})
	}
	return v
}

// --- Sales Invoice ---

// InvoiceItemRequest is one invoice line.
type InvoiceItemRequest struct {
	ProductID   id.ID          `json:"productId" binding:"required"`
	Description string         `json:"description"`
	Quantity    types.Quantity `json:"quantity" binding:"required"`

	// UnitPrice zero means the product catalog price.
	UnitPrice types.Money `json:"unitPrice"`
}

// CreateInvoiceRequest for posting a sales invoice.
type CreateInvoiceRequest struct {
	CustomerID id.ID                `json:"customerId" binding:"required"`
	Date       time.Time            `json:"date"`
	DueDate    *time.Time           `json:"dueDate"`
	BranchID   *id.ID               `json:"branchId"`
	Comment    string               `json:"comment"`
	Items      []InvoiceItemRequest `json:"items" binding:"required,min=1"`
}

// ToEntity converts the request to a domain invoice.
func (r CreateInvoiceRequest) ToEntity() *invoice.Invoice {
	inv := invoice.New(r.CustomerID)
	if !r.Date.IsZero() {
		inv.Date = r.Date
	}
	inv.DueDate = r.DueDate
	inv.BranchID = r.BranchID
	inv.Comment = r.Comment
	for _, item := range r.Items {
		inv.Items = append(inv.Items, &invoice.Item{
			ID:          id.New(),
			InvoiceID:   inv.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return inv
}

// PaymentRequest records a payment against an invoice or bill.
type PaymentRequest struct {
	Amount types.Money `json:"amount" binding:"required"`
	Date   time.Time   `json:"date"`

	// AccountID is the chart account the money moves through.
	// Nil means the well-known cash account.
	AccountID *id.ID `json:"accountId"`
}

// WriteOffRequest expenses the outstanding balance of an invoice.
type WriteOffRequest struct {
	Date time.Time `json:"date"`
}

// ReturnItemRequest selects a document line and return quantity.
type ReturnItemRequest struct {
	ItemID   id.ID          `json:"itemId" binding:"required"`
	Quantity types.Quantity `json:"quantity" binding:"required"`
}

// CreateCreditNoteRequest reverses part of an invoice.
type CreateCreditNoteRequest struct {
	Date   time.Time           `json:"date"`
	Reason string              `json:"reason"`
	Items  []ReturnItemRequest `json:"items" binding:"required,min=1"`
}

// ToInput converts the request to a credit note input.
func (r CreateCreditNoteRequest) ToInput(invoiceID id.ID) invoice.CreditNoteInput {
	in := invoice.CreditNoteInput{
		InvoiceID: invoiceID,
		Date:      r.Date,
		Reason:    r.Reason,
	}
	for _, item := range r.Items {
		in.Items = append(in.Items, invoice.CreditNoteItemInput{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
		})
	}
	return in
}

// --- Purchase Bill ---

// BillItemRequest is one bill line.
type BillItemRequest struct {
	ProductID   id.ID          `json:"productId" binding:"required"`
	Description string         `json:"description"`
	Quantity    types.Quantity `json:"quantity" binding:"required"`

	// UnitCost zero means the product catalog cost.
	UnitCost types.Money `json:"unitCost"`
}

// CreateBillRequest for posting a purchase bill.
type CreateBillRequest struct {
	VendorID id.ID             `json:"vendorId" binding:"required"`
	Date     time.Time         `json:"date"`
	DueDate  *time.Time        `json:"dueDate"`
	BranchID *id.ID            `json:"branchId"`
	Comment  string            `json:"comment"`
	Items    []BillItemRequest `json:"items" binding:"required,min=1"`
}

// ToEntity converts the request to a domain bill.
func (r CreateBillRequest) ToEntity() *bill.Bill {
	b := bill.New(r.VendorID)
	if !r.Date.IsZero() {
		b.Date = r.Date
	}
	b.DueDate = r.DueDate
	b.BranchID = r.BranchID
	b.Comment = r.Comment
	for _, item := range r.Items {
		b.Items = append(b.Items, &bill.Item{
			ID:          id.New(),
			BillID:      b.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
		})
	}
	return b
}

// CreateDebitNoteRequest reverses part of a bill.
type CreateDebitNoteRequest struct {
	Date   time.Time           `json:"date"`
	Reason string              `json:"reason"`
	Items  []ReturnItemRequest `json:"items" binding:"required,min=1"`
}

// ToInput converts the request to a debit note input.
func (r CreateDebitNoteRequest) ToInput(billID id.ID) bill.DebitNoteInput {
	in := bill.DebitNoteInput{
		BillID: billID,
		Date:   r.Date,
		Reason: r.Reason,
	}
	for _, item := range r.Items {
		in.Items = append(in.Items, bill.DebitNoteItemInput{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
		})
	}
	return in
}
