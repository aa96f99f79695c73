package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponAmount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   Coupon
		subtotal float64
		want     float64
	}{
		{"percentage rate", Coupon{Code: "SAVE10", Discount: 0.10}, 20.0, 2.0},
		{"flat amount below subtotal", Coupon{Code: "FIRST5", Discount: 5}, 20.0, 5.0},
		{"flat amount clamped to subtotal", Coupon{Code: "FIRST5", Discount: 5}, 3.0, 3.0},
		{"rate on zero subtotal", Coupon{Code: "SAVE20", Discount: 0.20}, 0, 0},
		{"flat on zero subtotal", Coupon{Code: "FIRST5", Discount: 5}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.coupon.Amount(tt.subtotal), 1e-9)
		})
	}
}

func TestCanonicalCouponCode(t *testing.T) {
	assert.Equal(t, "SAVE10", CanonicalCouponCode("save10"))
	assert.Equal(t, "SAVE10", CanonicalCouponCode("  Save10 "))
}

func TestCouponTableLookup(t *testing.T) {
	table := NewCouponTable(BuiltinCoupons())

	coupon, ok := table.Lookup("save20")
	require.True(t, ok)
	assert.Equal(t, "SAVE20", coupon.Code)
	assert.Equal(t, 0.20, coupon.Discount)

	_, ok = table.Lookup("NOPE")
	assert.False(t, ok)
}

func TestCouponTableLaterGroupOverrides(t *testing.T) {
	table := NewCouponTable(
		BuiltinCoupons(),
		[]Coupon{{Code: "save10", Discount: 0.50, Rule: "subtotal >= 100.0"}},
	)

	coupon, ok := table.Lookup("SAVE10")
	require.True(t, ok)
	assert.Equal(t, 0.50, coupon.Discount)
	assert.Equal(t, "subtotal >= 100.0", coupon.Rule)
}
