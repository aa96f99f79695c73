// internal/service/checkout/application/dto.go
package application

import (
	"time"

	"quickmart/internal/service/checkout/domain"
)

// ProductView 是目录查询的响应条目。
type ProductView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
	Barcode  string  `json:"barcode"`
}

func toProductView(p domain.Product, lang string) ProductView {
	return ProductView{
		ID:       p.ID,
		Name:     p.LocalizedName(lang),
		Price:    p.Price,
		Category: p.Category,
		Image:    p.Image,
		Barcode:  p.Barcode,
	}
}

// CartLineView 是购物车的一行。
type CartLineView struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// CartView 是购物车 + 优惠状态的完整视图。
type CartView struct {
	Items      []CartLineView `json:"items"`
	Subtotal   float64        `json:"subtotal"`
	Discount   float64        `json:"discount"`
	CouponCode string         `json:"couponCode,omitempty"`
	Total      float64        `json:"total"`
}

// AddItemResult 告诉界面这次加购是新行还是数量递增，用于不同的提示文案。
type AddItemResult struct {
	Cart    CartView `json:"cart"`
	Product string   `json:"product"`
	// NewLine 为 true 表示商品第一次进入购物车
	NewLine bool `json:"newLine"`
}

// CouponView 是应用优惠券成功后的响应。
type CouponView struct {
	Code     string   `json:"code"`
	Discount float64  `json:"discount"`
	Cart     CartView `json:"cart"`
}

// OrderView 是订单历史的响应条目。
type OrderView struct {
	ID            string         `json:"id"`
	Items         []CartLineView `json:"items"`
	Total         float64        `json:"total"`
	PaymentMethod string         `json:"paymentMethod"`
	Date          string         `json:"date"`
	Discount      float64        `json:"discount,omitempty"`
	CouponCode    string         `json:"couponCode,omitempty"`
}

func toOrderView(order domain.Order) OrderView {
	return OrderView{
		ID:            order.ID,
		Items:         toCartLineViews(order.Items),
		Total:         order.Total,
		PaymentMethod: string(order.PaymentMethod),
		Date:          order.Date.Format(time.RFC3339),
		Discount:      order.Discount,
		CouponCode:    order.CouponCode,
	}
}

func toOrderViews(orders []domain.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderView(order))
	}
	return out
}

func toCartLineViews(items []domain.CartItem) []CartLineView {
	out := make([]CartLineView, 0, len(items))
	for _, item := range items {
		out = append(out, CartLineView{
			ID:        item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}
	return out
}
