package assets_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/core/apperror"
	"abacus/internal/core/types"
	"abacus/internal/domain/assets"
	"abacus/internal/domain/domaintest"
)

func newService() (*domaintest.FakeAssets, *assets.Service) {
	repo := domaintest.NewFakeAssets()
	return repo, assets.NewService(repo)
}

func mustCreate(t *testing.T, svc *assets.Service, cost, salvage string, lifeYears int) *assets.FixedAsset {
	t.Helper()
	a := assets.New("AST-001", "Delivery Van", types.MustMoney(cost), lifeYears)
	a.PurchaseDate = domaintest.Date(2026, 1, 1)
	a.SalvageValue = types.MustMoney(salvage)
	require.NoError(t, svc.Create(context.Background(), a))
	return a
}

func TestAnnualDepreciation_StraightLine(t *testing.T) {
	_, svc := newService()
	a := mustCreate(t, svc, "12000.00", "2000.00", 5)

	// (12000 - 2000) / 5 = 2000 per year
	assert.True(t, a.AnnualDepreciation().Equal(types.MustMoney("2000.00")),
		"annual = %s", a.AnnualDepreciation())
}

func TestAnnualDepreciation_RoundsToCents(t *testing.T) {
	_, svc := newService()
	a := mustCreate(t, svc, "1000.00", "0", 3)

	// 1000 / 3 = 333.333... -> 333.33
	assert.True(t, a.AnnualDepreciation().Equal(types.MustMoney("333.33")),
		"annual = %s", a.AnnualDepreciation())
}

func TestCreate_SalvageAboveCostRejected(t *testing.T) {
	_, svc := newService()

	a := assets.New("AST-001", "Van", types.MustMoney("1000"), 5)
	a.SalvageValue = types.MustMoney("1500")

	err := svc.Create(context.Background(), a)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRecordDepreciation_ZeroAmountAppliesAnnual(t *testing.T) {
	_, svc := newService()
	a := mustCreate(t, svc, "12000.00", "2000.00", 5)

	got, err := svc.RecordDepreciation(context.Background(), a.ID, types.ZeroMoney())
	require.NoError(t, err)

	assert.True(t, got.AccumulatedDepreciation.Equal(types.MustMoney("2000.00")))
	assert.True(t, got.BookValue().Equal(types.MustMoney("10000.00")))
}

func TestRecordDepreciation_AnnualCappedAtSalvageFloor(t *testing.T) {
	_, svc := newService()
	a := mustCreate(t, svc, "12000.00", "2000.00", 5)

	ctx := context.Background()

	// Depreciate down to 500 above salvage, then one more annual run.
	_, err := svc.RecordDepreciation(ctx, a.ID, types.MustMoney("9500.00"))
	require.NoError(t, err)

	got, err := svc.RecordDepreciation(ctx, a.ID, types.ZeroMoney())
	require.NoError(t, err)

	// The final year takes only the remaining 500, not the full 2000.
	assert.True(t, got.BookValue().Equal(types.MustMoney("2000.00")),
		"book = %s", got.BookValue())
	assert.True(t, got.AccumulatedDepreciation.Equal(types.MustMoney("10000.00")))
}

func TestRecordDepreciation_BelowSalvageRejected(t *testing.T) {
	_, svc := newService()
	a := mustCreate(t, svc, "12000.00", "2000.00", 5)

	_, err := svc.RecordDepreciation(context.Background(), a.ID, types.MustMoney("10500.00"))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)

	// Nothing recorded.
	got, err := svc.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, got.AccumulatedDepreciation.IsZero())
}

func TestRecordDepreciation_NegativeAmountRejected(t *testing.T) {
	_, svc := newService()
	a := mustCreate(t, svc, "12000.00", "2000.00", 5)

	_, err := svc.RecordDepreciation(context.Background(), a.ID, types.MustMoney("-100"))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
