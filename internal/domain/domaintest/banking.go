package domaintest

import (
	"context"
	"sync"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/banking"
)

// FakeBanking is an in-memory banking.Repository.
type FakeBanking struct {
	mu        sync.Mutex
	Accounts  map[id.ID]*banking.BankAccount
	Transfers []*banking.Transfer
}

// NewFakeBanking creates an empty fake bank-account store.
func NewFakeBanking() *FakeBanking {
	return &FakeBanking{Accounts: make(map[id.ID]*banking.BankAccount)}
}

func (f *FakeBanking) Create(ctx context.Context, a *banking.BankAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Accounts[a.ID] = a
	return nil
}

func (f *FakeBanking) Update(ctx context.Context, a *banking.BankAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Accounts[a.ID]; !ok {
		return apperror.NewNotFound("bank account", a.ID.String())
	}
	f.Accounts[a.ID] = a
	return nil
}

func (f *FakeBanking) GetByID(ctx context.Context, accountID id.ID) (*banking.BankAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.Accounts[accountID]
	if !ok {
		return nil, apperror.NewNotFound("bank account", accountID.String())
	}
	return a, nil
}

func (f *FakeBanking) List(ctx context.Context) ([]*banking.BankAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*banking.BankAccount
	for _, a := range f.Accounts {
		out = append(out, a)
	}
	return out, nil
}

func (f *FakeBanking) AdjustBalance(ctx context.Context, accountID id.ID, delta types.Money) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.Accounts[accountID]
	if !ok {
		return apperror.NewNotFound("bank account", accountID.String())
	}

	next := a.CurrentBalance.Add(delta)
	if next.IsNegative() {
		return apperror.NewInsufficientFunds(
			accountID.String(),
			delta.Neg().String(),
			a.CurrentBalance.String(),
		)
	}
	a.CurrentBalance = next
	return nil
}

func (f *FakeBanking) CreateTransfer(ctx context.Context, t *banking.Transfer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Transfers = append(f.Transfers, t)
	return nil
}

func (f *FakeBanking) GetTransfer(ctx context.Context, transferID id.ID) (*banking.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.Transfers {
		if t.ID == transferID {
			return t, nil
		}
	}
	return nil, apperror.NewNotFound("transfer", transferID.String())
}

func (f *FakeBanking) ListTransfers(ctx context.Context, accountID *id.ID) ([]*banking.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*banking.Transfer
	for _, t := range f.Transfers {
		if accountID != nil && t.FromAccountID != *accountID && t.ToAccountID != *accountID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

var _ banking.Repository = (*FakeBanking)(nil)
