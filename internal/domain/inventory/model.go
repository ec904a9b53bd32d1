// Package inventory provides the product catalog and stock tracking.
package inventory

import (
	"context"

	"abacus/internal/core/apperror"
	"abacus/internal/core/entity"
	"abacus/internal/core/types"
)

// Product is a stocked item. Code doubles as the SKU.
type Product struct {
	entity.Catalog

	// Price is the default selling price per unit
	Price types.Money `db:"price" json:"price"`

	// Cost is the purchase cost per unit
	Cost types.Money `db:"cost" json:"cost"`

	// StockQuantity is the on-hand quantity. Never negative.
	StockQuantity types.Quantity `db:"stock_quantity" json:"stockQuantity"`

	// ReorderLevel triggers the low-stock listing
	ReorderLevel types.Quantity `db:"reorder_level" json:"reorderLevel"`
}

// New creates an active product with a generated ID.
func New(code, name string, price types.Money) *Product {
	return &Product{
		Catalog: entity.NewCatalog(code, name),
		Price:   price,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}
	if p.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if p.Price.IsNegative() || p.Cost.IsNegative() {
		return apperror.NewValidation("price and cost must be non-negative")
	}
	if p.StockQuantity.IsNegative() {
		return apperror.NewValidation("stock quantity must be non-negative")
	}
	return nil
}

// IsLowStock reports whether on-hand stock fell to the reorder level.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity.LessThanOrEqual(p.ReorderLevel)
}
