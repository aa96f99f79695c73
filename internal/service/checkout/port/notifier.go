// internal/service/checkout/port/notifier.go
package port

import (
	"context"

	"quickmart/internal/service/checkout/domain"
)

// OrderNotifier 在订单完成后向下游发布事件（目前走 Kafka）。
// 发布失败不影响结账结果，由实现负责记录。
type OrderNotifier interface {
	OrderCompleted(ctx context.Context, order *domain.Order) error
}
