// internal/service/checkout/infrastructure/memory_cart_repository.go
package infrastructure

import (
	"context"
	"sync"

	"quickmart/internal/service/checkout/domain"
)

// MemoryCartRepository 是纯内存的购物车存储。
// Redis 不可用时作为降级实现使用，终端重启后购物车丢失。
type MemoryCartRepository struct {
	mu    sync.Mutex
	items []domain.CartItem
}

func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{}
}

func (r *MemoryCartRepository) Load(ctx context.Context) ([]domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CartItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *MemoryCartRepository) Save(ctx context.Context, items []domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make([]domain.CartItem, len(items))
	copy(r.items, items)
	return nil
}
