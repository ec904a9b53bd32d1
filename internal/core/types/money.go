// Package types provides common type aliases and monetary helpers.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with exact decimal arithmetic.
// Floating point is never used for amounts: the debit == credit
// invariant of the ledger does not survive binary rounding.
type Money = decimal.Decimal

// ZeroMoney returns the zero monetary value.
func ZeroMoney() Money {
	return decimal.Zero
}

// NewMoneyFromString parses a Money value from its decimal string form.
// This is the preferred constructor for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney parses a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewMoneyFromInt creates a whole-unit Money value.
func NewMoneyFromInt(v int64) Money {
	return decimal.NewFromInt(v)
}

// Round2 quantizes an amount to 2 decimal places (cent precision).
// Applied at document boundaries: line math runs at full precision,
// stored totals and ledger amounts are quantized.
func Round2(m Money) Money {
	return m.Round(2)
}

// Quantity is an exact decimal quantity of stock.
// Shares the decimal representation with Money so that qty * price
// stays exact.
type Quantity = decimal.Decimal

// NewQuantityFromInt creates a whole-unit Quantity.
func NewQuantityFromInt(v int64) Quantity {
	return decimal.NewFromInt(v)
}
