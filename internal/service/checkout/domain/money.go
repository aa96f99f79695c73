// internal/service/checkout/domain/money.go
package domain

import "fmt"

// FormatAmount 是所有货币展示的唯一格式化入口，固定两位小数。
// 购物车、结账、小票、统计必须共用它，避免不同界面出现舍入不一致。
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
