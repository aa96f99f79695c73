// internal/service/checkout/infrastructure/redis_cart_repository.go
package infrastructure

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"quickmart/internal/service/checkout/domain"
)

// 终端只有一个活动购物车，用固定 key 整体覆写。
const cartKey = "pos:cart"

// RedisCartRepository 把购物车台账持久化到 Redis，终端重启后恢复。
type RedisCartRepository struct {
	client goredis.UniversalClient
}

func NewRedisCartRepository(client goredis.UniversalClient) *RedisCartRepository {
	return &RedisCartRepository{client: client}
}

// Load 读取上次保存的购物车。key 不存在视为空车。
func (r *RedisCartRepository) Load(ctx context.Context) ([]domain.CartItem, error) {
	raw, err := r.client.Get(ctx, cartKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(domain.ErrStorageUnavailable, err.Error())
	}

	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// 存储内容损坏时从空车开始，而不是让终端无法启动
		return nil, nil
	}
	return items, nil
}

// Save 整体覆写购物车快照。
func (r *RedisCartRepository) Save(ctx context.Context, items []domain.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "marshal cart")
	}
	if err := r.client.Set(ctx, cartKey, raw, 0).Err(); err != nil {
		return errors.Wrap(domain.ErrStorageUnavailable, err.Error())
	}
	return nil
}
