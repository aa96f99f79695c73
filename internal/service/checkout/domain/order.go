// internal/service/checkout/domain/order.go
package domain

import (
	"math"
	"time"
)

// PaymentMethod 是结账时选择的支付方式。
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// ParsePaymentMethod 校验并解析支付方式。
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCard:
		return PaymentCard, nil
	case PaymentCash:
		return PaymentCash, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// Order 是一次已完成购买的不可变记录。
// 创建后追加进订单历史，本核心不会再修改或删除它。
type Order struct {
	ID            string        `json:"id"`
	Items         []CartItem    `json:"items"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Date          time.Time     `json:"date"`
	Discount      float64       `json:"discount,omitempty"`
	CouponCode    string        `json:"couponCode,omitempty"`
}

// NewOrder 把当前购物车 + 优惠状态物化为订单快照。
// items 必须是调用方持有的副本；总价 = max(0, 小计 − 优惠金额)。
func NewOrder(id string, items []CartItem, subtotal float64, coupon *AppliedCoupon, method PaymentMethod, at time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &Order{
		ID:            id,
		Items:         items,
		PaymentMethod: method,
		Date:          at,
	}
	var discount float64
	if coupon != nil {
		discount = coupon.Amount
		order.Discount = discount
		order.CouponCode = coupon.Code
	}
	order.Total = math.Max(0, subtotal-discount)
	return order, nil
}

// ItemsSold 返回订单内所有行的数量之和。
func (o *Order) ItemsSold() int {
	var n int
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// ShortID 返回用于小票展示的前 8 位订单号。
func (o *Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}
