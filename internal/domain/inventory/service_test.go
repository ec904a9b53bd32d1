package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/core/apperror"
	"abacus/internal/core/types"
	"abacus/internal/domain/domaintest"
	"abacus/internal/domain/inventory"
)

func newService() (*domaintest.FakeProducts, *inventory.Service) {
	repo := domaintest.NewFakeProducts()
	return repo, inventory.NewService(repo)
}

func mustCreate(t *testing.T, svc *inventory.Service, code string, stock int64) *inventory.Product {
	t.Helper()
	p := inventory.New(code, "Product "+code, types.MustMoney("9.99"))
	p.StockQuantity = types.NewQuantityFromInt(stock)
	require.NoError(t, svc.Create(context.Background(), p))
	return p
}

func TestCreate_RejectsDuplicateCode(t *testing.T) {
	_, svc := newService()
	mustCreate(t, svc, "PRD-001", 0)

	err := svc.Create(context.Background(), inventory.New("PRD-001", "Again", types.MustMoney("1")))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestAdjustStock_NeverGoesNegative(t *testing.T) {
	_, svc := newService()
	p := mustCreate(t, svc, "PRD-001", 5)

	ctx := context.Background()

	require.NoError(t, svc.AdjustStock(ctx, p.ID, types.NewQuantityFromInt(-5)))

	err := svc.AdjustStock(ctx, p.ID, types.NewQuantityFromInt(-1))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQuantity.IsZero())
}

func TestAdjustStock_ZeroDeltaIsNoop(t *testing.T) {
	_, svc := newService()
	p := mustCreate(t, svc, "PRD-001", 5)

	require.NoError(t, svc.AdjustStock(context.Background(), p.ID, types.NewQuantityFromInt(0)))

	got, err := svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQuantity.Equal(types.NewQuantityFromInt(5)))
}

func TestListLowStock(t *testing.T) {
	_, svc := newService()

	low := mustCreate(t, svc, "PRD-001", 2)
	low.ReorderLevel = types.NewQuantityFromInt(5)
	require.NoError(t, svc.Update(context.Background(), low))

	ok := mustCreate(t, svc, "PRD-002", 50)
	ok.ReorderLevel = types.NewQuantityFromInt(5)
	require.NoError(t, svc.Update(context.Background(), ok))

	products, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "PRD-001", products[0].Code)
}
