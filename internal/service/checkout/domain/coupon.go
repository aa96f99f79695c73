// internal/service/checkout/domain/coupon.go
package domain

import (
	"math"
	"strings"
)

// Coupon 是一张优惠券的定义。
// Discount < 1 表示折扣率（百分比减免），>= 1 表示固定金额减免。
// Rule 是可选的 CEL 适用条件表达式，为空表示无条件适用。
type Coupon struct {
	Code     string
	Discount float64
	Rule     string
}

// Amount 根据小计计算本券的优惠金额。
// 固定金额会被钳制到不超过小计（总价永远不会为负）；
// 折扣率因为 < 1 天然不会超过小计，保持不钳制，这个不对称是刻意保留的策略。
func (c Coupon) Amount(subtotal float64) float64 {
	if c.Discount < 1 {
		return subtotal * c.Discount
	}
	return math.Min(c.Discount, subtotal)
}

// AppliedCoupon 是购物车上当前生效的优惠状态。
// 同一时刻最多一张券生效，重复 Apply 直接替换。
type AppliedCoupon struct {
	Code   string
	Amount float64
}

// CanonicalCouponCode 统一把券码归一化为大写。
func CanonicalCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// BuiltinCoupons 是内置的静态优惠券表。
func BuiltinCoupons() []Coupon {
	return []Coupon{
		{Code: "SAVE10", Discount: 0.10},
		{Code: "SAVE20", Discount: 0.20},
		{Code: "FIRST5", Discount: 5},
		{Code: "WELCOME", Discount: 0.15},
	}
}

// CouponTable 是只读的券码查找表，启动时构建。
type CouponTable struct {
	byCode map[string]Coupon
}

// NewCouponTable 从若干来源的券合并构建查找表，后加入的同码券覆盖先前的。
func NewCouponTable(coupons ...[]Coupon) *CouponTable {
	t := &CouponTable{byCode: make(map[string]Coupon)}
	for _, group := range coupons {
		for _, c := range group {
			c.Code = CanonicalCouponCode(c.Code)
			t.byCode[c.Code] = c
		}
	}
	return t
}

// Lookup 按归一化后的券码查找。
func (t *CouponTable) Lookup(code string) (Coupon, bool) {
	c, ok := t.byCode[CanonicalCouponCode(code)]
	return c, ok
}
