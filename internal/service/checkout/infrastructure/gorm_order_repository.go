// internal/service/checkout/infrastructure/gorm_order_repository.go
package infrastructure

import (
	"context"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"quickmart/internal/service/checkout/domain"
)

// GormOrderRepository 是 OrderRepository 的 GORM 实现。
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository 创建仓储实例并确保表结构存在。
func NewGormOrderRepository(db *gorm.DB) (*GormOrderRepository, error) {
	if err := db.AutoMigrate(&OrderModel{}); err != nil {
		return nil, errors.Wrap(err, "migrate orders table")
	}
	return &GormOrderRepository{db: db}, nil
}

// Save 追加一条订单记录。订单 ID 重复说明同一次结账被提交了两次，按已保存处理。
func (r *GormOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	model, err := FromDomainOrder(order)
	if err != nil {
		return errors.Wrap(err, "map order")
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil
		}
		return errors.Wrap(domain.ErrStorageUnavailable, err.Error())
	}
	return nil
}

// ListAll 返回全部订单，最近优先。同一时间戳的订单按插入顺序的倒序排。
func (r *GormOrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	var models []OrderModel
	if err := r.db.WithContext(ctx).Order("date DESC, seq DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(domain.ErrStorageUnavailable, err.Error())
	}

	orders := make([]domain.Order, 0, len(models))
	for i := range models {
		order, err := ToDomainOrder(&models[i])
		if err != nil {
			return nil, errors.Wrapf(err, "decode order %s", models[i].OrderID)
		}
		orders = append(orders, order)
	}
	return orders, nil
}
