// internal/service/checkout/infrastructure/kafka_notifier.go
package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"quickmart/internal/pkg/mq"
	"quickmart/internal/service/checkout/domain"
)

// OrderCompletedEvent 是发往下游（门店看板、会员系统）的结账完成事件。
type OrderCompletedEvent struct {
	OrderID       string    `json:"orderId"`
	Total         float64   `json:"total"`
	Discount      float64   `json:"discount,omitempty"`
	CouponCode    string    `json:"couponCode,omitempty"`
	PaymentMethod string    `json:"paymentMethod"`
	ItemsSold     int       `json:"itemsSold"`
	Date          time.Time `json:"date"`
}

// KafkaOrderNotifier 把结账完成事件发布到 Kafka，key 取订单 ID。
type KafkaOrderNotifier struct {
	writer *kafka.Writer
}

func NewKafkaOrderNotifier(writer *kafka.Writer) *KafkaOrderNotifier {
	return &KafkaOrderNotifier{writer: writer}
}

func (n *KafkaOrderNotifier) OrderCompleted(ctx context.Context, order *domain.Order) error {
	event := OrderCompletedEvent{
		OrderID:       order.ID,
		Total:         order.Total,
		Discount:      order.Discount,
		CouponCode:    order.CouponCode,
		PaymentMethod: string(order.PaymentMethod),
		ItemsSold:     order.ItemsSold(),
		Date:          order.Date,
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal order completed event")
	}
	return mq.ProduceMessage(ctx, n.writer, []byte(order.ID), eventBytes)
}
