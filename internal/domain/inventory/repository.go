package inventory

import (
	"context"

	"abacus/internal/core/id"
	"abacus/internal/core/types"
)

// ListFilter narrows product listings.
type ListFilter struct {
	// Search matches code or name substring
	Search string

	// LowStockOnly keeps products at or below their reorder level
	LowStockOnly bool

	IncludeDeleted bool

	Limit  int
	Offset int
}

// Repository defines persistence operations for products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	List(ctx context.Context, f ListFilter) ([]*Product, error)
	Delete(ctx context.Context, productID id.ID) error

	// AdjustStock atomically moves stock_quantity by delta (positive or
	// negative) and fails with INSUFFICIENT_STOCK when the result would
	// go negative. Run inside the posting transaction so a failed
	// adjustment rolls back the ledger entries too.
	AdjustStock(ctx context.Context, productID id.ID, delta types.Quantity) error
}
