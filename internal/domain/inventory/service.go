package inventory

import (
	"context"
	"fmt"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/pkg/logger"
)

// Service provides business operations for the product catalog.
type Service struct {
	repo Repository
}

// NewService creates a new inventory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a product.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.GetByCode(ctx, p.Code)
	if err != nil && !apperror.IsNotFound(err) {
		return fmt.Errorf("check code: %w", err)
	}
	if exists != nil {
		return apperror.NewDuplicate("product", "code", p.Code)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	logger.Info(ctx, "product created", "id", p.ID, "code", p.Code)
	return nil
}

// Update modifies a product.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List retrieves products with filtering.
func (s *Service) List(ctx context.Context, f ListFilter) ([]*Product, error) {
	return s.repo.List(ctx, f)
}

// ListLowStock returns products at or below their reorder level.
func (s *Service) ListLowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.List(ctx, ListFilter{LowStockOnly: true})
}

// AdjustStock moves on-hand stock by delta. A delta that would drive the
// quantity negative fails and, when called inside a posting transaction,
// rolls back the whole posting.
func (s *Service) AdjustStock(ctx context.Context, productID id.ID, delta types.Quantity) error {
	if delta.IsZero() {
		return nil
	}
	return s.repo.AdjustStock(ctx, productID, delta)
}

// Delete soft-deletes a product.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	return s.repo.Delete(ctx, productID)
}
