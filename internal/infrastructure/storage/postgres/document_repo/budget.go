package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"abacus/internal/core/id"
	"abacus/internal/domain/budget"
	"abacus/internal/infrastructure/storage/postgres"
)

const (
	budgetsTable     = "doc_budgets"
	budgetItemsTable = "doc_budget_items"
)

// BudgetRepo implements budget.Repository.
type BudgetRepo struct {
	*BaseDocumentRepo[*budget.Budget]
}

// NewBudgetRepo creates a new budget repository.
func NewBudgetRepo() *BudgetRepo {
	return &BudgetRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*budget.Budget](
			budgetsTable,
			postgres.ExtractDBColumns[budget.Budget](),
			func() *budget.Budget { return &budget.Budget{} },
		),
	}
}

// List retrieves budgets, optionally scoped to a fiscal year.
func (r *BudgetRepo) List(ctx context.Context, fiscalYear int) ([]*budget.Budget, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false})

	if fiscalYear != 0 {
		q = q.Where(squirrel.Eq{"fiscal_year": fiscalYear})
	}

	q = q.OrderBy("fiscal_year DESC", "name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*budget.Budget
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	return items, nil
}

// GetItems retrieves items for a budget.
func (r *BudgetRepo) GetItems(ctx context.Context, budgetID id.ID) ([]*budget.Item, error) {
	q := r.Builder().
		Select("id", "budget_id", "account_id", "amount", "month").
		From(budgetItemsTable).
		Where(squirrel.Eq{"budget_id": budgetID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*budget.Item
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

// SaveItems saves items for a budget (delete existing + insert new).
func (r *BudgetRepo) SaveItems(ctx context.Context, budgetID id.ID, items []*budget.Item) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + budgetItemsTable + " WHERE budget_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, budgetID); err != nil {
		return fmt.Errorf("delete existing items: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(budgetItemsTable).
		Columns("id", "budget_id", "account_id", "amount", "month")

	for _, item := range items {
		q = q.Values(item.ID, budgetID, item.AccountID, item.Amount, item.Month)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}

	return nil
}

var _ budget.Repository = (*BudgetRepo)(nil)
