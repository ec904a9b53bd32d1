package voucher

import (
	"context"
	"time"

	"abacus/internal/core/id"
)

// ListFilter narrows voucher listings.
type ListFilter struct {
	From *time.Time
	To   *time.Time

	Search string

	Limit  int
	Offset int
}

// Repository defines persistence operations for journal vouchers.
type Repository interface {
	Create(ctx context.Context, v *JournalVoucher) error
	Update(ctx context.Context, v *JournalVoucher) error
	GetByID(ctx context.Context, voucherID id.ID) (*JournalVoucher, error)
	List(ctx context.Context, f ListFilter) ([]*JournalVoucher, error)

	SaveLines(ctx context.Context, voucherID id.ID, lines []*Line) error
	GetLines(ctx context.Context, voucherID id.ID) ([]*Line, error)
}
