package domaintest

import (
	"context"
	"strings"
	"sync"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/inventory"
)

// FakeProducts is an in-memory inventory.Repository.
type FakeProducts struct {
	mu    sync.Mutex
	byID  map[id.ID]*inventory.Product
	order []id.ID
}

// NewFakeProducts creates an empty fake product catalog.
func NewFakeProducts() *FakeProducts {
	return &FakeProducts{byID: make(map[id.ID]*inventory.Product)}
}

func (f *FakeProducts) Create(ctx context.Context, p *inventory.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.byID[p.ID] = p
	f.order = append(f.order, p.ID)
	return nil
}

func (f *FakeProducts) Update(ctx context.Context, p *inventory.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[p.ID]; !ok {
		return apperror.NewNotFound("product", p.ID.String())
	}
	f.byID[p.ID] = p
	return nil
}

func (f *FakeProducts) GetByID(ctx context.Context, productID id.ID) (*inventory.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.byID[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return p, nil
}

func (f *FakeProducts) GetByCode(ctx context.Context, code string) (*inventory.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, pid := range f.order {
		p := f.byID[pid]
		if p != nil && p.Code == code {
			return p, nil
		}
	}
	return nil, apperror.NewNotFound("product", code)
}

func (f *FakeProducts) List(ctx context.Context, filter inventory.ListFilter) ([]*inventory.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*inventory.Product
	for _, pid := range f.order {
		p := f.byID[pid]
		if p == nil {
			continue
		}
		if !filter.IncludeDeleted && p.DeletionMark {
			continue
		}
		if filter.LowStockOnly && !p.IsLowStock() {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(p.Code, filter.Search) &&
			!strings.Contains(p.Name, filter.Search) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *FakeProducts) Delete(ctx context.Context, productID id.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.byID[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	p.MarkDeleted()
	return nil
}

func (f *FakeProducts) AdjustStock(ctx context.Context, productID id.ID, delta types.Quantity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.byID[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}

	next := p.StockQuantity.Add(delta)
	if next.IsNegative() {
		return apperror.NewInsufficientStock(
			productID.String(),
			delta.Neg().String(),
			p.StockQuantity.String(),
		)
	}
	p.StockQuantity = next
	return nil
}

var _ inventory.Repository = (*FakeProducts)(nil)
