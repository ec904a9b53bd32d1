package dto

import (
	"abacus/internal/core/types"
	"abacus/internal/domain/inventory"
)

// CreateProductRequest for adding a product.
type CreateProductRequest struct {
	Code          string         `json:"code" binding:"required"`
	Name          string         `json:"name" binding:"required"`
	Price         types.Money    `json:"price"`
	Cost          types.Money    `json:"cost"`
	StockQuantity types.Quantity `json:"stockQuantity"`
	ReorderLevel  types.Quantity `json:"reorderLevel"`
}

// ToEntity converts the request to a domain product.
func (r CreateProductRequest) ToEntity() *inventory.Product {
	p := inventory.New(r.Code, r.Name, r.Price)
	p.Cost = r.Cost
	p.StockQuantity = r.StockQuantity
	p.ReorderLevel = r.ReorderLevel
	return p
}

// UpdateProductRequest for modifying a product.
// Nil fields keep their current value. Stock is excluded: it only moves
// through postings and explicit adjustments.
type UpdateProductRequest struct {
	Name         *string         `json:"name"`
	Price        *types.Money    `json:"price"`
	Cost         *types.Money    `json:"cost"`
	ReorderLevel *types.Quantity `json:"reorderLevel"`
	Version      int             `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the request onto an existing product.
func (r UpdateProductRequest) ApplyTo(p *inventory.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Cost != nil {
		p.Cost = *r.Cost
	}
	if r.ReorderLevel != nil {
		p.ReorderLevel = *r.ReorderLevel
	}
	p.Version = r.Version
}

// AdjustStockRequest moves on-hand stock by a signed delta.
type AdjustStockRequest struct {
	Delta types.Quantity `json:"delta" binding:"required"`
}
