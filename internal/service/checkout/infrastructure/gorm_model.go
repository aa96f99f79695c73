// internal/service/checkout/infrastructure/gorm_model.go
package infrastructure

import (
	"time"
)

// OrderModel 对应数据库中的 orders 表。
// Seq 是自增主键，用来在同一时间戳的订单之间保持稳定的插入顺序。
type OrderModel struct {
	Seq           int64     `gorm:"primaryKey;autoIncrement"`
	OrderID       string    `gorm:"uniqueIndex;size:36"`
	ItemsJSON     string    `gorm:"column:items_json;type:json"`
	Total         float64   `gorm:"type:decimal(10,2)"`
	PaymentMethod string    `gorm:"size:8"`
	Date          time.Time `gorm:"index"`
	Discount      float64   `gorm:"type:decimal(10,2)"`
	CouponCode    string    `gorm:"size:32"`
	CreatedAt     time.Time
}

// TableName 指定 GORM 应该使用的表名
func (OrderModel) TableName() string {
	return "orders"
}
