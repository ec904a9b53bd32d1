// Package assets provides the fixed asset register with straight-line
// depreciation tracking. Depreciation adjusts book values only; it posts
// no ledger entries.
package assets

import (
	"context"
	"time"

	"abacus/internal/core/apperror"
	"abacus/internal/core/entity"
	"abacus/internal/core/types"
)

// Method names the depreciation method.
type Method string

const (
	MethodStraightLine Method = "straight_line"
)

// FixedAsset is one depreciable asset.
type FixedAsset struct {
	entity.Catalog

	PurchaseDate time.Time   `db:"purchase_date" json:"purchaseDate"`
	PurchaseCost types.Money `db:"purchase_cost" json:"purchaseCost"`
	SalvageValue types.Money `db:"salvage_value" json:"salvageValue"`

	// UsefulLifeYears over which the asset depreciates
	UsefulLifeYears int    `db:"useful_life_years" json:"usefulLifeYears"`
	Method          Method `db:"method" json:"method"`

	AccumulatedDepreciation types.Money `db:"accumulated_depreciation" json:"accumulatedDepreciation"`
}

// New creates a fixed asset with a generated ID.
func New(code, name string, cost types.Money, lifeYears int) *FixedAsset {
	return &FixedAsset{
		Catalog:         entity.NewCatalog(code, name),
		PurchaseCost:    cost,
		UsefulLifeYears: lifeYears,
		Method:          MethodStraightLine,
	}
}

// Validate implements entity.Validatable.
func (a *FixedAsset) Validate(ctx context.Context) error {
	if err := a.Catalog.Validate(ctx); err != nil {
		return err
	}
	if a.PurchaseCost.IsNegative() || a.SalvageValue.IsNegative() {
		return apperror.NewValidation("cost and salvage value must be non-negative")
	}
	if a.SalvageValue.GreaterThan(a.PurchaseCost) {
		return apperror.NewValidation("salvage value cannot exceed purchase cost")
	}
	if a.UsefulLifeYears <= 0 {
		return apperror.NewValidation("useful life must be positive").
			WithDetail("field", "usefulLifeYears")
	}
	return nil
}

// BookValue is purchase cost minus accumulated depreciation.
func (a *FixedAsset) BookValue() types.Money {
	return a.PurchaseCost.Sub(a.AccumulatedDepreciation)
}

// AnnualDepreciation returns the straight-line yearly amount:
// (cost - salvage) / useful life, quantized to cents.
func (a *FixedAsset) AnnualDepreciation() types.Money {
	depreciable := a.PurchaseCost.Sub(a.SalvageValue)
	return types.Round2(depreciable.Div(types.NewMoneyFromInt(int64(a.UsefulLifeYears))))
}

// RecordDepreciation adds amount to accumulated depreciation. The book
// value never drops below salvage value.
func (a *FixedAsset) RecordDepreciation(amount types.Money) error {
	if !amount.IsPositive() {
		return apperror.NewValidation("depreciation amount must be positive")
	}

	floor := a.SalvageValue
	newBook := a.BookValue().Sub(amount)
	if newBook.LessThan(floor) {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Depreciation would drop book value below salvage value",
		).WithDetail("book_value", a.BookValue().String()).
			WithDetail("salvage_value", floor.String()).
			WithDetail("amount", amount.String())
	}

	a.AccumulatedDepreciation = a.AccumulatedDepreciation.Add(amount)
	return nil
}
