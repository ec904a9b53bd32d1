package banking

import (
	"context"

	"abacus/internal/core/id"
	"abacus/internal/core/types"
)

// Repository defines persistence operations for bank accounts and transfers.
type Repository interface {
	Create(ctx context.Context, a *BankAccount) error
	Update(ctx context.Context, a *BankAccount) error
	GetByID(ctx context.Context, accountID id.ID) (*BankAccount, error)
	List(ctx context.Context) ([]*BankAccount, error)

	// AdjustBalance atomically moves current_balance by delta and fails
	// with INSUFFICIENT_FUNDS when the result would go negative. Run
	// inside the posting transaction.
	AdjustBalance(ctx context.Context, accountID id.ID, delta types.Money) error

	CreateTransfer(ctx context.Context, t *Transfer) error
	GetTransfer(ctx context.Context, transferID id.ID) (*Transfer, error)
	ListTransfers(ctx context.Context, accountID *id.ID) ([]*Transfer, error)
}
