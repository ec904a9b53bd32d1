package assets

import (
	"context"

	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/pkg/logger"
)

// Service provides business operations for fixed assets.
type Service struct {
	repo Repository
}

// NewService creates a new assets service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a fixed asset.
func (s *Service) Create(ctx context.Context, a *FixedAsset) error {
	if err := a.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	logger.Info(ctx, "fixed asset created", "id", a.ID, "name", a.Name)
	return nil
}

// GetByID retrieves an asset.
func (s *Service) GetByID(ctx context.Context, assetID id.ID) (*FixedAsset, error) {
	return s.repo.GetByID(ctx, assetID)
}

// List returns all fixed assets.
func (s *Service) List(ctx context.Context) ([]*FixedAsset, error) {
	return s.repo.List(ctx)
}

// Update modifies an asset.
func (s *Service) Update(ctx context.Context, a *FixedAsset) error {
	if err := a.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, a)
}

// RecordDepreciation applies a depreciation amount to the asset.
// A zero amount applies one year of straight-line depreciation, capped
// at the remaining depreciable value.
func (s *Service) RecordDepreciation(ctx context.Context, assetID id.ID, amount types.Money) (*FixedAsset, error) {
	a, err := s.repo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if amount.IsZero() {
		amount = a.AnnualDepreciation()
		remaining := a.BookValue().Sub(a.SalvageValue)
		if amount.GreaterThan(remaining) {
			amount = remaining
		}
	}

	if err := a.RecordDepreciation(amount); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	logger.Info(ctx, "depreciation recorded",
		"asset", a.Name,
		"amount", amount.String(),
		"book_value", a.BookValue().String(),
	)
	return a, nil
}

// Delete removes an asset from the register.
func (s *Service) Delete(ctx context.Context, assetID id.ID) error {
	return s.repo.Delete(ctx, assetID)
}
