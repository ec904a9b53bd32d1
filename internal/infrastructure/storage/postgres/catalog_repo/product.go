package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/inventory"
	"abacus/internal/infrastructure/storage/postgres"
)

const productsTable = "cat_products"

// ProductRepo implements inventory.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*inventory.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo() *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*inventory.Product](
			productsTable,
			postgres.ExtractDBColumns[inventory.Product](),
			func() *inventory.Product { return &inventory.Product{} },
		),
	}
}

// List retrieves products with filtering, ordered by code.
func (r *ProductRepo) List(ctx context.Context, f inventory.ListFilter) ([]*inventory.Product, error) {
	q := r.baseSelect()

	if !f.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if f.LowStockOnly {
		q = q.Where(squirrel.Expr("stock_quantity <= reorder_level"))
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"name": pattern},
		})
	}

	q = q.OrderBy("code ASC")

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*inventory.Product
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return items, nil
}

// Delete soft-deletes a product.
func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	return r.SetDeletionMark(ctx, productID, true)
}

// AdjustStock atomically moves the on-hand quantity by delta. The guard
// in the WHERE clause keeps stock from going negative under concurrency;
// a zero row count then distinguishes missing product from short stock.
func (r *ProductRepo) AdjustStock(ctx context.Context, productID id.ID, delta types.Quantity) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	result, err := querier.Exec(ctx, `
		UPDATE cat_products
		SET stock_quantity = stock_quantity + $1,
		    version = version + 1
		WHERE id = $2 AND stock_quantity + $1 >= 0
	`, delta, productID)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}

	if result.RowsAffected() > 0 {
		return nil
	}

	// No row updated: either the product is missing or stock is short.
	var available types.Quantity
	err = querier.QueryRow(ctx, `
		SELECT stock_quantity FROM cat_products WHERE id = $1
	`, productID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFound(productsTable, productID.String())
		}
		return fmt.Errorf("check stock: %w", err)
	}

	return apperror.NewInsufficientStock(
		productID.String(),
		delta.Neg().String(),
		available.String(),
	)
}

var _ inventory.Repository = (*ProductRepo)(nil)
