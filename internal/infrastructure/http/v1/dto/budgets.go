package dto

import (
	"time"

	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/assets"
	"abacus/internal/domain/budget"
)

// BudgetItemRequest budgets one account for the fiscal year.
type BudgetItemRequest struct {
	AccountID id.ID       `json:"accountId" binding:"required"`
	Amount    types.Money `json:"amount"`

	// Month 1-12, nil for an annual amount
	Month *int `json:"month"`
}

// CreateBudgetRequest for creating a fiscal-year budget.
type CreateBudgetRequest struct {
	Name       string              `json:"name" binding:"required"`
	FiscalYear int                 `json:"fiscalYear" binding:"required"`
	Items      []BudgetItemRequest `json:"items"`
}

// ToEntity converts the request to a domain budget.
func (r CreateBudgetRequest) ToEntity() *budget.Budget {
	b := budget.New(r.Name, r.FiscalYear)
	for _, item := range r.Items {
		b.Items = append(b.Items, &budget.Item{
			ID:        id.New(),
			BudgetID:  b.ID,
			AccountID: item.AccountID,
			Amount:    item.Amount,
			Month:     item.Month,
		})
	}
	return b
}

// --- Fixed Assets ---

// CreateAssetRequest for registering a fixed asset.
type CreateAssetRequest struct {
	Code            string      `json:"code" binding:"required"`
	Name            string      `json:"name" binding:"required"`
	PurchaseDate    time.Time   `json:"purchaseDate"`
	PurchaseCost    types.Money `json:"purchaseCost" binding:"required"`
	SalvageValue    types.Money `json:"salvageValue"`
	UsefulLifeYears int         `json:"usefulLifeYears" binding:"required,min=1"`
}

// ToEntity converts the request to a domain asset.
func (r CreateAssetRequest) ToEntity() *assets.FixedAsset {
	a := assets.New(r.Code, r.Name, r.PurchaseCost, r.UsefulLifeYears)
	a.PurchaseDate = r.PurchaseDate
	a.SalvageValue = r.SalvageValue
	return a
}

// DepreciationRequest applies depreciation to an asset.
// A zero amount applies one year of straight-line depreciation.
type DepreciationRequest struct {
	Amount types.Money `json:"amount"`
}
