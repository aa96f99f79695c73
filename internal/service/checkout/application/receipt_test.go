package application

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickmart/internal/pkg/i18n"
	"quickmart/internal/service/checkout/domain"
)

func newTestRenderer(t *testing.T) *ReceiptRenderer {
	t.Helper()
	labels, err := i18n.Load()
	require.NoError(t, err)
	renderer, err := NewReceiptRenderer(labels)
	require.NoError(t, err)
	return renderer
}

func receiptOrder() *domain.Order {
	return &domain.Order{
		ID: "a79f63e2-1b40-4ce5-9f10-000000000000",
		Items: []domain.CartItem{
			{Product: domain.Product{ID: "1", Name: "Fresh Apples", Price: 3.99}, Quantity: 2},
			{Product: domain.Product{ID: "2", Name: "Organic Milk", Price: 4.49}, Quantity: 1},
		},
		Total:         11.17,
		Discount:      1.3,
		CouponCode:    "SAVE10",
		PaymentMethod: domain.PaymentCard,
		Date:          time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC),
	}
}

func TestRenderReceipt(t *testing.T) {
	renderer := newTestRenderer(t)

	doc, err := renderer.Render(receiptOrder(), "en")
	require.NoError(t, err)

	assert.Contains(t, doc, "a79f63e2", "short order id")
	assert.Contains(t, doc, "2x Fresh Apples")
	assert.Contains(t, doc, "$7.98", "line total with two decimals")
	// 小计从 total + discount 反推
	assert.Contains(t, doc, "$12.47")
	assert.Contains(t, doc, "SAVE10")
	assert.Contains(t, doc, "-$1.30")
	assert.Contains(t, doc, "$11.17")
	assert.Contains(t, doc, "Items Purchased: 3")
	assert.Contains(t, doc, "Card")
	assert.Contains(t, doc, "Your Friendly Neighborhood Store")
}

func TestRenderReceiptWithoutDiscount(t *testing.T) {
	renderer := newTestRenderer(t)
	order := receiptOrder()
	order.Discount = 0
	order.CouponCode = ""
	order.Total = 12.47

	doc, err := renderer.Render(order, "en")
	require.NoError(t, err)
	assert.NotContains(t, doc, "Discount")
	assert.Contains(t, doc, "$12.47")
}

func TestRenderReceiptLocalized(t *testing.T) {
	renderer := newTestRenderer(t)

	doc, err := renderer.Render(receiptOrder(), "es")
	require.NoError(t, err)
	assert.Contains(t, doc, "Recibo de Autopago")
	assert.Contains(t, doc, "Tarjeta")
	// 语言只影响标签,商品名保持订单里的文本
	assert.Contains(t, doc, "Fresh Apples")
}

func TestRenderReceiptEscapesProductNames(t *testing.T) {
	renderer := newTestRenderer(t)
	order := receiptOrder()
	order.Items[0].Name = `<script>alert("x")</script>`

	doc, err := renderer.Render(order, "en")
	require.NoError(t, err)
	assert.NotContains(t, doc, "<script>alert")
	assert.True(t, strings.Contains(doc, "&lt;script&gt;"))
}

func TestRenderReceiptCashPayment(t *testing.T) {
	renderer := newTestRenderer(t)
	order := receiptOrder()
	order.PaymentMethod = domain.PaymentCash

	doc, err := renderer.Render(order, "en")
	require.NoError(t, err)
	assert.Contains(t, doc, "Cash")
}
