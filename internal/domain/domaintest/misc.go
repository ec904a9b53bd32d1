package domaintest

import (
	"context"
	"sync"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/domain/assets"
	"abacus/internal/domain/budget"
)

// FakeBudgets is an in-memory budget.Repository.
type FakeBudgets struct {
	mu      sync.Mutex
	Budgets map[id.ID]*budget.Budget
	Items   map[id.ID][]*budget.Item
}

// NewFakeBudgets creates an empty fake budget store.
func NewFakeBudgets() *FakeBudgets {
	return &FakeBudgets{
		Budgets: make(map[id.ID]*budget.Budget),
		Items:   make(map[id.ID][]*budget.Item),
	}
}

func (f *FakeBudgets) Create(ctx context.Context, b *budget.Budget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Budgets[b.ID] = b
	return nil
}

func (f *FakeBudgets) Update(ctx context.Context, b *budget.Budget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Budgets[b.ID]; !ok {
		return apperror.NewNotFound("budget", b.ID.String())
	}
	f.Budgets[b.ID] = b
	return nil
}

func (f *FakeBudgets) GetByID(ctx context.Context, budgetID id.ID) (*budget.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.Budgets[budgetID]
	if !ok {
		return nil, apperror.NewNotFound("budget", budgetID.String())
	}
	return b, nil
}

func (f *FakeBudgets) List(ctx context.Context, fiscalYear int) ([]*budget.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*budget.Budget
	for _, b := range f.Budgets {
		if fiscalYear != 0 && b.FiscalYear != fiscalYear {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *FakeBudgets) SaveItems(ctx context.Context, budgetID id.ID, items []*budget.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Items[budgetID] = items
	return nil
}

func (f *FakeBudgets) GetItems(ctx context.Context, budgetID id.ID) ([]*budget.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Items[budgetID], nil
}

var _ budget.Repository = (*FakeBudgets)(nil)

// FakeAssets is an in-memory assets.Repository.
type FakeAssets struct {
	mu     sync.Mutex
	Assets map[id.ID]*assets.FixedAsset
}

// NewFakeAssets creates an empty fake asset register.
func NewFakeAssets() *FakeAssets {
	return &FakeAssets{Assets: make(map[id.ID]*assets.FixedAsset)}
}

func (f *FakeAssets) Create(ctx context.Context, a *assets.FixedAsset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Assets[a.ID] = a
	return nil
}

func (f *FakeAssets) Update(ctx context.Context, a *assets.FixedAsset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Assets[a.ID]; !ok {
		return apperror.NewNotFound("asset", a.ID.String())
	}
	f.Assets[a.ID] = a
	return nil
}

func (f *FakeAssets) GetByID(ctx context.Context, assetID id.ID) (*assets.FixedAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.Assets[assetID]
	if !ok {
		return nil, apperror.NewNotFound("asset", assetID.String())
	}
	return a, nil
}

func (f *FakeAssets) List(ctx context.Context) ([]*assets.FixedAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*assets.FixedAsset
	for _, a := range f.Assets {
		out = append(out, a)
	}
	return out, nil
}

func (f *FakeAssets) Delete(ctx context.Context, assetID id.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.Assets[assetID]
	if !ok {
		return apperror.NewNotFound("asset", assetID.String())
	}
	a.MarkDeleted()
	return nil
}

var _ assets.Repository = (*FakeAssets)(nil)
