// internal/service/checkout/infrastructure/mapper.go
package infrastructure

import (
	"encoding/json"

	"quickmart/internal/service/checkout/domain"
)

// FromDomainOrder 将领域订单转换为数据库模型。
// 行项目以 JSON 整体存储：订单是不可变快照，永远整条读写，不需要行级查询。
func FromDomainOrder(order *domain.Order) (*OrderModel, error) {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, err
	}
	return &OrderModel{
		OrderID:       order.ID,
		ItemsJSON:     string(itemsJSON),
		Total:         order.Total,
		PaymentMethod: string(order.PaymentMethod),
		Date:          order.Date,
		Discount:      order.Discount,
		CouponCode:    order.CouponCode,
	}, nil
}

// ToDomainOrder 将数据库模型转换为领域订单。
func ToDomainOrder(model *OrderModel) (domain.Order, error) {
	var items []domain.CartItem
	if model.ItemsJSON != "" {
		if err := json.Unmarshal([]byte(model.ItemsJSON), &items); err != nil {
			return domain.Order{}, err
		}
	}
	return domain.Order{
		ID:            model.OrderID,
		Items:         items,
		Total:         model.Total,
		PaymentMethod: domain.PaymentMethod(model.PaymentMethod),
		Date:          model.Date,
		Discount:      model.Discount,
		CouponCode:    model.CouponCode,
	}, nil
}
