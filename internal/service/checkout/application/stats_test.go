package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickmart/internal/service/checkout/domain"
)

func statsOrder(id string, total float64, method domain.PaymentMethod, date time.Time, items ...domain.CartItem) domain.Order {
	return domain.Order{ID: id, Total: total, PaymentMethod: method, Date: date, Items: items}
}

func TestComputeStatisticsEmptyHistory(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	stats := ComputeStatistics(nil, now, 5)

	assert.Zero(t, stats.TotalRevenue)
	assert.Zero(t, stats.TotalOrders)
	assert.Zero(t, stats.AverageOrder)
	assert.Zero(t, stats.ItemsSold)
	assert.Zero(t, stats.Last7Days)
	assert.Zero(t, stats.Last7DaysOrders)
	assert.Empty(t, stats.PaymentMethodMix)
	assert.Empty(t, stats.TopProducts)
}

func TestComputeStatisticsAggregates(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	apples := domain.CartItem{Product: domain.Product{ID: "1", Name: "Fresh Apples", Price: 3.0}, Quantity: 3}
	milk := domain.CartItem{Product: domain.Product{ID: "2", Name: "Organic Milk", Price: 5.0}, Quantity: 1}

	orders := []domain.Order{
		statsOrder("a", 14.0, domain.PaymentCard, now.AddDate(0, 0, -1), apples, milk),
		statsOrder("b", 5.0, domain.PaymentCash, now.AddDate(0, 0, -3), milk),
		statsOrder("c", 9.0, domain.PaymentCard, now.AddDate(0, 0, -30), apples),
	}

	stats := ComputeStatistics(orders, now, 5)

	assert.InDelta(t, 28.0, stats.TotalRevenue, 1e-9)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.InDelta(t, 28.0/3, stats.AverageOrder, 1e-9)
	assert.Equal(t, 9, stats.ItemsSold)
	assert.InDelta(t, 19.0, stats.Last7Days, 1e-9, "the 30-day-old order falls outside the window")
	assert.Equal(t, 2, stats.Last7DaysOrders)
	assert.Equal(t, map[string]int{"card": 2, "cash": 1}, stats.PaymentMethodMix)
}

func TestComputeStatisticsWindowBoundaryInclusive(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		statsOrder("edge", 10.0, domain.PaymentCard, now.AddDate(0, 0, -7)),
		statsOrder("now", 5.0, domain.PaymentCard, now),
	}
	stats := ComputeStatistics(orders, now, 5)
	assert.InDelta(t, 15.0, stats.Last7Days, 1e-9)
	assert.Equal(t, 2, stats.Last7DaysOrders)
}

func TestComputeStatisticsWindowHasNoUpperBound(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		statsOrder("future", 8.0, domain.PaymentCard, now.Add(time.Hour)),
		statsOrder("old", 4.0, domain.PaymentCash, now.AddDate(0, 0, -10)),
	}
	stats := ComputeStatistics(orders, now, 5)
	assert.InDelta(t, 8.0, stats.Last7Days, 1e-9, "an order dated after now still counts")
	assert.Equal(t, 1, stats.Last7DaysOrders)
}

func TestComputeStatisticsTopProducts(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	// productX: 3 件共 $9,productY: 1 件共 $5
	x := domain.CartItem{Product: domain.Product{ID: "x", Name: "productX", Price: 3.0}, Quantity: 3}
	y := domain.CartItem{Product: domain.Product{ID: "y", Name: "productY", Price: 5.0}, Quantity: 1}

	stats := ComputeStatistics([]domain.Order{statsOrder("a", 14.0, domain.PaymentCard, now, x, y)}, now, 5)

	require.Len(t, stats.TopProducts, 2)
	assert.Equal(t, TopProductEntry{Name: "productX", Quantity: 3, Revenue: 9.0}, stats.TopProducts[0])
	assert.Equal(t, TopProductEntry{Name: "productY", Quantity: 1, Revenue: 5.0}, stats.TopProducts[1])
}

func TestComputeStatisticsTopProductsTiesKeepEncounterOrder(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	a := domain.CartItem{Product: domain.Product{ID: "a", Name: "First Seen", Price: 5.0}, Quantity: 1}
	b := domain.CartItem{Product: domain.Product{ID: "b", Name: "Second Seen", Price: 5.0}, Quantity: 1}

	stats := ComputeStatistics([]domain.Order{statsOrder("o", 10.0, domain.PaymentCash, now, a, b)}, now, 5)

	require.Len(t, stats.TopProducts, 2)
	assert.Equal(t, "First Seen", stats.TopProducts[0].Name)
	assert.Equal(t, "Second Seen", stats.TopProducts[1].Name)
}

func TestComputeStatisticsTopNLimit(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	var items []domain.CartItem
	for i := 0; i < 7; i++ {
		items = append(items, domain.CartItem{
			Product:  domain.Product{ID: string(rune('a' + i)), Name: "P", Price: float64(i + 1)},
			Quantity: 1,
		})
	}
	stats := ComputeStatistics([]domain.Order{statsOrder("o", 28.0, domain.PaymentCard, now, items...)}, now, 5)
	assert.Len(t, stats.TopProducts, 5)
	// 收入最高的排最前
	assert.InDelta(t, 7.0, stats.TopProducts[0].Revenue, 1e-9)
}

func TestComputeStatisticsAggregatesSameProductAcrossOrders(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	apples := domain.CartItem{Product: domain.Product{ID: "1", Name: "Fresh Apples", Price: 2.0}, Quantity: 2}

	stats := ComputeStatistics([]domain.Order{
		statsOrder("a", 4.0, domain.PaymentCard, now, apples),
		statsOrder("b", 4.0, domain.PaymentCash, now, apples),
	}, now, 5)

	require.Len(t, stats.TopProducts, 1)
	assert.Equal(t, 4, stats.TopProducts[0].Quantity)
	assert.InDelta(t, 8.0, stats.TopProducts[0].Revenue, 1e-9)
}
