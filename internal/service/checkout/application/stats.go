// internal/service/checkout/application/stats.go
package application

import (
	"sort"
	"time"

	"quickmart/internal/service/checkout/domain"
)

// Statistics 是订单历史的聚合快照，每次查询基于全量历史重新计算。
type Statistics struct {
	TotalRevenue     float64           `json:"totalRevenue"`
	TotalOrders      int               `json:"totalOrders"`
	AverageOrder     float64           `json:"averageOrder"`
	ItemsSold        int               `json:"itemsSold"`
	Last7Days        float64           `json:"last7Days"`
	Last7DaysOrders  int               `json:"last7DaysOrders"`
	PaymentMethodMix map[string]int    `json:"paymentMethodMix"`
	TopProducts      []TopProductEntry `json:"topProducts"`
}

// TopProductEntry 是按营收排名的商品条目。
type TopProductEntry struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// ComputeStatistics 对订单历史做一次纯函数聚合。
// 历史为空时全部指标为零值（均单价取 0 而不是 NaN）。
// last7Days 的窗口是 now 往前 7 天，只有下界且下界含端点。
// topProducts 按营收降序取前 topN，营收相同的保持首次出现的顺序。
func ComputeStatistics(orders []domain.Order, now time.Time, topN int) Statistics {
	stats := Statistics{
		PaymentMethodMix: make(map[string]int),
		TopProducts:      []TopProductEntry{},
	}

	windowStart := now.AddDate(0, 0, -7)
	type productAgg struct {
		name     string
		quantity int
		revenue  float64
	}
	var productOrder []string
	productTotals := make(map[string]*productAgg)

	for _, order := range orders {
		stats.TotalRevenue += order.Total
		stats.TotalOrders++
		stats.ItemsSold += order.ItemsSold()
		stats.PaymentMethodMix[string(order.PaymentMethod)]++

		if !order.Date.Before(windowStart) {
			stats.Last7Days += order.Total
			stats.Last7DaysOrders++
		}

		for _, item := range order.Items {
			agg, ok := productTotals[item.ID]
			if !ok {
				agg = &productAgg{name: item.Name}
				productTotals[item.ID] = agg
				productOrder = append(productOrder, item.ID)
			}
			agg.quantity += item.Quantity
			agg.revenue += item.LineTotal()
		}
	}

	if stats.TotalOrders > 0 {
		stats.AverageOrder = stats.TotalRevenue / float64(stats.TotalOrders)
	}

	entries := make([]TopProductEntry, 0, len(productOrder))
	for _, id := range productOrder {
		agg := productTotals[id]
		entries = append(entries, TopProductEntry{Name: agg.name, Quantity: agg.quantity, Revenue: agg.revenue})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Revenue > entries[j].Revenue
	})
	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	stats.TopProducts = entries

	return stats
}
