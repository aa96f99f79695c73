// internal/service/checkout/domain/repository.go
package domain

import "context"

// CartRepository 定义购物车的持久化接口：启动时整体读取，每次变更整体覆写。
// 它位于领域层，由基础设施层实现。
type CartRepository interface {
	// Load 读取持久化的购物车快照，不存在时返回空切片。
	Load(ctx context.Context) ([]CartItem, error)

	// Save 用 items 整体覆写持久化的购物车。
	Save(ctx context.Context, items []CartItem) error
}

// OrderRepository 定义订单历史的持久化接口。
// 订单历史只允许追加，读取按最近优先排序。
type OrderRepository interface {
	// Save 追加一条不可变订单记录。
	Save(ctx context.Context, order *Order) error

	// ListAll 返回全部历史订单，最近的在最前面。
	ListAll(ctx context.Context) ([]Order, error)
}
