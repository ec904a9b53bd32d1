package budget

import (
	"context"

	"abacus/internal/core/id"
)

// Repository defines persistence operations for budgets.
type Repository interface {
	Create(ctx context.Context, b *Budget) error
	Update(ctx context.Context, b *Budget) error
	GetByID(ctx context.Context, budgetID id.ID) (*Budget, error)
	List(ctx context.Context, fiscalYear int) ([]*Budget, error)

	SaveItems(ctx context.Context, budgetID id.ID, items []*Item) error
	GetItems(ctx context.Context, budgetID id.ID) ([]*Item, error)
}
