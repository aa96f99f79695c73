// internal/service/checkout/domain/rule.go
package domain

// Fact 是规则评估时可见的购物车事实。
type Fact struct {
	Subtotal  float64 `json:"subtotal"`
	ItemCount int     `json:"itemCount"`
}

// RuleEngine 评估一条优惠券适用规则。
// 位于领域层，由基础设施层的具体引擎实现。
type RuleEngine interface {
	// Evaluate 对 fact 评估 rule 表达式；rule 为空应返回 true。
	Evaluate(rule string, fact Fact) (bool, error)
}
