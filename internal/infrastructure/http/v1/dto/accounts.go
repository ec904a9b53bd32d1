package dto

import (
	"abacus/internal/domain/accounts"
)

// CreateAccountRequest for adding a chart account.
type CreateAccountRequest struct {
	Code        string        `json:"code" binding:"required"`
	Name        string        `json:"name" binding:"required"`
	Type        accounts.Type `json:"type" binding:"required"`
	Description string        `json:"description"`
}

// ToEntity converts the request to a domain account.
func (r CreateAccountRequest) ToEntity() *accounts.Account {
	acc := accounts.New(r.Code, r.Name, r.Type)
	acc.Description = r.Description
	return acc
}

// UpdateAccountRequest for modifying a chart account.
// Nil fields keep their current value.
type UpdateAccountRequest struct {
	Name        *string        `json:"name"`
	Type        *accounts.Type `json:"type"`
	Description *string        `json:"description"`
	Active      *bool          `json:"active"`
	Version     int            `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the request onto an existing account.
func (r UpdateAccountRequest) ApplyTo(acc *accounts.Account) {
	if r.Name != nil {
		acc.Name = *r.Name
	}
	if r.Type != nil {
		acc.Type = *r.Type
	}
	if r.Description != nil {
		acc.Description = *r.Description
	}
	if r.Active != nil {
		acc.Active = *r.Active
	}
	acc.Version = r.Version
}
