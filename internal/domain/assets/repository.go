package assets

import (
	"context"

	"abacus/internal/core/id"
)

// Repository defines persistence operations for fixed assets.
type Repository interface {
	Create(ctx context.Context, a *FixedAsset) error
	Update(ctx context.Context, a *FixedAsset) error
	GetByID(ctx context.Context, assetID id.ID) (*FixedAsset, error)
	List(ctx context.Context) ([]*FixedAsset, error)
	Delete(ctx context.Context, assetID id.ID) error
}
