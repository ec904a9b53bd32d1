package accounts

import (
	"context"

	"abacus/internal/core/id"
)

// ListFilter narrows account listings.
type ListFilter struct {
	// Type filters by account type (empty = all)
	Type Type

	// ActiveOnly excludes deactivated accounts
	ActiveOnly bool

	// Search matches code or name substring
	Search string

	Limit  int
	Offset int
}

// Repository defines persistence operations for accounts.
type Repository interface {
	Create(ctx context.Context, acc *Account) error
	Update(ctx context.Context, acc *Account) error
	GetByID(ctx context.Context, accountID id.ID) (*Account, error)
	GetByCode(ctx context.Context, code string) (*Account, error)
	List(ctx context.Context, f ListFilter) ([]*Account, error)

	// HardDelete physically removes the account row.
	// Only valid for accounts with no ledger entries; the service enforces this.
	HardDelete(ctx context.Context, accountID id.ID) error

	ExistsByCode(ctx context.Context, code string) (bool, error)
}
