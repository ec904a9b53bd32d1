// Package posting provides the double-entry posting engine.
//
// Document services describe the entries a business event produces as an
// EntrySet and hand it to the Engine, which validates the set (balanced,
// non-negative) and persists it atomically together with any coupled
// mutations (stock adjustments, document status, bank balances).
package posting

import (
	"abacus/internal/core/id"
)

// WellKnown names the system accounts the posting rules depend on.
// Each maps to a fixed code in the default chart of accounts.
type WellKnown int

const (
	Cash WellKnown = iota
	AccountsReceivable
	AccountsPayable
	SalesRevenue
	Inventory
	VATPayable
	OperatingExpenses
)

// wellKnownCodes maps each well-known account to its chart code.
var wellKnownCodes = map[WellKnown]string{
	Cash:               "1000",
	AccountsReceivable: "1100",
	Inventory:          "1200",
	AccountsPayable:    "2000",
	VATPayable:         "2100",
	SalesRevenue:       "4000",
	OperatingExpenses:  "5000",
}

// String returns the human-readable account role name.
func (w WellKnown) String() string {
	switch w {
	case Cash:
		return "Cash"
	case AccountsReceivable:
		return "Accounts Receivable"
	case AccountsPayable:
		return "Accounts Payable"
	case SalesRevenue:
		return "Sales Revenue"
	case Inventory:
		return "Inventory"
	case VATPayable:
		return "VAT Payable"
	case OperatingExpenses:
		return "Operating Expenses"
	}
	return "Unknown"
}

// Code returns the chart code the role resolves through.
func (w WellKnown) Code() string {
	return wellKnownCodes[w]
}

// AccountSet maps well-known roles to resolved account IDs for a tenant.
type AccountSet map[WellKnown]id.ID

// Has reports whether the role is resolved.
func (s AccountSet) Has(w WellKnown) bool {
	_, ok := s[w]
	return ok
}
