package invoice

import (
	"context"
	"time"

	"abacus/internal/core/id"
)

// ListFilter narrows invoice listings.
type ListFilter struct {
	CustomerID *id.ID
	Status     Status

	From *time.Time
	To   *time.Time

	Limit  int
	Offset int
}

// Repository defines persistence operations for invoices and credit notes.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Update(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error)
	List(ctx context.Context, f ListFilter) ([]*Invoice, error)

	SaveItems(ctx context.Context, invoiceID id.ID, items []*Item) error
	GetItems(ctx context.Context, invoiceID id.ID) ([]*Item, error)

	// ListOutstanding returns invoices whose outstanding amount is
	// positive (unpaid or partially paid). Used by the aging report.
	ListOutstanding(ctx context.Context) ([]*Invoice, error)

	CreateCreditNote(ctx context.Context, cn *CreditNote) error
	SaveCreditNoteItems(ctx context.Context, creditNoteID id.ID, items []*CreditNoteItem) error
	GetCreditNotes(ctx context.Context, invoiceID id.ID) ([]*CreditNote, error)
}
