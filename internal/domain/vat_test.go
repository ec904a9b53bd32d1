package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"abacus/internal/core/types"
	"abacus/internal/domain"
)

func TestVATOf(t *testing.T) {
	tests := []struct {
		name string
		net  string
		rate int64
		want string
	}{
		{"whole amount", "100.00", 20, "20.00"},
		{"zero rate", "100.00", 0, "0"},
		{"rounds to cents", "33.33", 15, "5.00"}, // 4.9995 -> 5.00
		{"small amount", "0.10", 20, "0.02"},
		{"rounds half up", "12.25", 10, "1.23"}, // 1.225 -> 1.23
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.VATOf(types.MustMoney(tt.net), types.NewMoneyFromInt(tt.rate))
			assert.True(t, got.Equal(types.MustMoney(tt.want)),
				"VATOf(%s, %d%%) = %s, want %s", tt.net, tt.rate, got, tt.want)
		})
	}
}

func TestFixedVATRate(t *testing.T) {
	rate := domain.FixedVATRate(types.NewMoneyFromInt(20))
	assert.True(t, rate(context.Background()).Equal(types.NewMoneyFromInt(20)))
}
