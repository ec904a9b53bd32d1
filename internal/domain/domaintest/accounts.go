package domaintest

import (
	"context"
	"strings"
	"sync"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/domain/accounts"
)

// FakeAccounts is an in-memory accounts.Repository.
type FakeAccounts struct {
	mu    sync.Mutex
	byID  map[id.ID]*accounts.Account
	order []id.ID
}

// NewFakeAccounts creates an empty fake chart of accounts.
func NewFakeAccounts() *FakeAccounts {
	return &FakeAccounts{byID: make(map[id.ID]*accounts.Account)}
}

func (f *FakeAccounts) Create(ctx context.Context, acc *accounts.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.byID[acc.ID] = acc
	f.order = append(f.order, acc.ID)
	return nil
}

func (f *FakeAccounts) Update(ctx context.Context, acc *accounts.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[acc.ID]; !ok {
		return apperror.NewNotFound("account", acc.ID.String())
	}
	f.byID[acc.ID] = acc
	return nil
}

func (f *FakeAccounts) GetByID(ctx context.Context, accountID id.ID) (*accounts.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	acc, ok := f.byID[accountID]
	if !ok {
		return nil, apperror.NewNotFound("account", accountID.String())
	}
	return acc, nil
}

func (f *FakeAccounts) GetByCode(ctx context.Context, code string) (*accounts.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, accID := range f.order {
		acc := f.byID[accID]
		if acc != nil && acc.Code == code {
			return acc, nil
		}
	}
	return nil, apperror.NewNotFound("account", code)
}

func (f *FakeAccounts) List(ctx context.Context, filter accounts.ListFilter) ([]*accounts.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*accounts.Account
	for _, accID := range f.order {
		acc := f.byID[accID]
		if acc == nil {
			continue
		}
		if filter.Type != "" && acc.Type != filter.Type {
			continue
		}
		if filter.ActiveOnly && (!acc.Active || acc.DeletionMark) {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(acc.Code, filter.Search) &&
			!strings.Contains(acc.Name, filter.Search) {
			continue
		}
		out = append(out, acc)
	}
	return out, nil
}

func (f *FakeAccounts) HardDelete(ctx context.Context, accountID id.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[accountID]; !ok {
		return apperror.NewNotFound("account", accountID.String())
	}
	delete(f.byID, accountID)
	return nil
}

func (f *FakeAccounts) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := f.GetByCode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var _ accounts.Repository = (*FakeAccounts)(nil)
