package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"abacus/internal/core/id"
	"abacus/internal/domain/assets"
	"abacus/internal/infrastructure/storage/postgres"
)

const assetsTable = "cat_fixed_assets"

// FixedAssetRepo implements assets.Repository.
type FixedAssetRepo struct {
	*BaseCatalogRepo[*assets.FixedAsset]
}

// NewFixedAssetRepo creates a new fixed asset repository.
func NewFixedAssetRepo() *FixedAssetRepo {
	return &FixedAssetRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*assets.FixedAsset](
			assetsTable,
			postgres.ExtractDBColumns[assets.FixedAsset](),
			func() *assets.FixedAsset { return &assets.FixedAsset{} },
		),
	}
}

// List retrieves all non-deleted assets ordered by code.
func (r *FixedAssetRepo) List(ctx context.Context) ([]*assets.FixedAsset, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("code ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*assets.FixedAsset
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	return items, nil
}

// Delete soft-deletes an asset.
func (r *FixedAssetRepo) Delete(ctx context.Context, assetID id.ID) error {
	return r.SetDeletionMark(ctx, assetID, true)
}

var _ assets.Repository = (*FixedAssetRepo)(nil)
