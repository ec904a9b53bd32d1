package bill

import (
	"context"
	"time"

	"abacus/internal/core/id"
)

// ListFilter narrows bill listings.
type ListFilter struct {
	VendorID *id.ID
	Status   Status

	From *time.Time
	To   *time.Time

	Limit  int
	Offset int
}

// Repository defines persistence operations for bills and debit notes.
type Repository interface {
	Create(ctx context.Context, b *Bill) error
	Update(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, billID id.ID) (*Bill, error)
	List(ctx context.Context, f ListFilter) ([]*Bill, error)

	SaveItems(ctx context.Context, billID id.ID, items []*Item) error
	GetItems(ctx context.Context, billID id.ID) ([]*Item, error)

	// ListOutstanding returns bills whose outstanding amount is positive.
	// Used by the payables aging report.
	ListOutstanding(ctx context.Context) ([]*Bill, error)

	CreateDebitNote(ctx context.Context, dn *DebitNote) error
	SaveDebitNoteItems(ctx context.Context, debitNoteID id.ID, items []*DebitNoteItem) error
	GetDebitNotes(ctx context.Context, billID id.ID) ([]*DebitNote, error)
}
