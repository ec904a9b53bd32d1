// Package accounts provides the chart of accounts catalog.
package accounts

import (
	"context"

	"abacus/internal/core/apperror"
	"abacus/internal/core/entity"
)

// Type classifies an account. The type determines the account's normal
// balance side: asset and expense accounts are debit-normal, liability,
// equity and revenue accounts are credit-normal.
type Type string

const (
	TypeAsset     Type = "asset"
	TypeLiability Type = "liability"
	TypeEquity    Type = "equity"
	TypeRevenue   Type = "revenue"
	TypeExpense   Type = "expense"
)

// Valid reports whether t is a known account type.
func (t Type) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense:
		return true
	}
	return false
}

// CreditNormal reports whether accounts of this type carry a credit-normal
// balance. Raw ledger balances (debits minus credits) are negated for
// credit-normal accounts so that reports show positive values.
func (t Type) CreditNormal() bool {
	switch t {
	case TypeLiability, TypeEquity, TypeRevenue:
		return true
	}
	return false
}

// Account is a node in the chart of accounts.
type Account struct {
	entity.Catalog

	// Type determines the normal balance side
	Type Type `db:"type" json:"type"`

	// Description is optional free text
	Description string `db:"description" json:"description,omitempty"`

	// Active controls whether the account accepts new entries
	Active bool `db:"active" json:"active"`

	// System marks accounts required by the posting configuration.
	// System accounts cannot be deleted.
	System bool `db:"system" json:"system"`
}

// New creates an active account with a generated ID.
func New(code, name string, accType Type) *Account {
	return &Account{
		Catalog: entity.NewCatalog(code, name),
		Type:    accType,
		Active:  true,
	}
}

// Validate implements entity.Validatable.
func (a *Account) Validate(ctx context.Context) error {
	if err := a.Catalog.Validate(ctx); err != nil {
		return err
	}
	if a.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if !a.Type.Valid() {
		return apperror.NewValidation("unknown account type").
			WithDetail("field", "type").
			WithDetail("value", string(a.Type))
	}
	return nil
}
