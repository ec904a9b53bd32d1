package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"abacus/internal/domain/accounts"
	"abacus/internal/infrastructure/storage/postgres"
)

const accountsTable = "cat_accounts"

// AccountRepo implements accounts.Repository.
type AccountRepo struct {
	*BaseCatalogRepo[*accounts.Account]
}

// NewAccountRepo creates a new chart of accounts repository.
func NewAccountRepo() *AccountRepo {
	return &AccountRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*accounts.Account](
			accountsTable,
			postgres.ExtractDBColumns[accounts.Account](),
			func() *accounts.Account { return &accounts.Account{} },
		),
	}
}

// List retrieves accounts with filtering, ordered by code.
func (r *AccountRepo) List(ctx context.Context, f accounts.ListFilter) ([]*accounts.Account, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false})

	if f.Type != "" {
		q = q.Where(squirrel.Eq{"type": f.Type})
	}

	if f.ActiveOnly {
		q = q.Where(squirrel.Eq{"active": true})
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

	var items []*accounts.Account
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return items, nil
}

var _ accounts.Repository = (*AccountRepo)(nil)
