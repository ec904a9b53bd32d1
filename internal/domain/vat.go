// Package domain provides shared business types used across document services.
package domain

import (
	"context"

	"abacus/internal/core/tenant"
	"abacus/internal/core/types"
)

// VATRateFunc supplies the VAT percentage (e.g. 20 for 20%) applied to
// document totals. Tests substitute a fixed rate.
type VATRateFunc func(ctx context.Context) types.Money

// TenantVATRate reads the VAT rate from the tenant settings in context.
// Missing tenant or setting means zero VAT.
func TenantVATRate(ctx context.Context) types.Money {
	return tenant.GetTenant(ctx).VATRate()
}

// FixedVATRate returns a VATRateFunc with a constant percentage.
func FixedVATRate(rate types.Money) VATRateFunc {
	return func(context.Context) types.Money {
		return rate
	}
}

// VATOf computes the VAT portion for a net amount at the given
// percentage, quantized to cents.
func VATOf(net, rate types.Money) types.Money {
	return types.Round2(net.Mul(rate).Div(types.NewMoneyFromInt(100)))
}
