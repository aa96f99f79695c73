// internal/service/checkout/domain/cart.go
package domain

// AddOutcome 区分加购的两种结果，界面据此给出不同的提示。
type AddOutcome int

const (
	// AddOutcomeNewLine 该商品第一次进入购物车
	AddOutcomeNewLine AddOutcome = iota
	// AddOutcomeIncremented 已有行的数量 +1
	AddOutcomeIncremented
)

// Cart 是购物车台账：按商品 ID 索引的行集合，保留加入顺序。
// 所有修改都是同步的单写者操作，由上层保证互斥。
type Cart struct {
	items []CartItem
}

// NewCart 创建空购物车。
func NewCart() *Cart {
	return &Cart{}
}

// RestoreCart 从持久化快照恢复购物车（启动时读取）。
func RestoreCart(items []CartItem) *Cart {
	c := &Cart{items: make([]CartItem, 0, len(items))}
	for _, item := range items {
		// 防御脏数据：数量不合法的行直接丢弃
		if item.Quantity >= 1 {
			c.items = append(c.items, item)
		}
	}
	return c
}

// Add 把商品加入购物车：已存在则数量 +1，否则新建数量为 1 的行。
// 永远成功。
func (c *Cart) Add(p Product) AddOutcome {
	for i := range c.items {
		if c.items[i].ID == p.ID {
			c.items[i].Quantity++
			return AddOutcomeIncremented
		}
	}
	c.items = append(c.items, CartItem{Product: p, Quantity: 1})
	return AddOutcomeNewLine
}

// UpdateQuantity 给指定行的数量加上 delta（可为负）。
// 结果 <= 0 时整行移除；id 不存在是 no-op，不算错误。
func (c *Cart) UpdateQuantity(id string, delta int) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity += delta
			if c.items[i].Quantity <= 0 {
				c.items = append(c.items[:i], c.items[i+1:]...)
			}
			return
		}
	}
}

// Remove 无条件删除指定行（如果存在）。
func (c *Cart) Remove(id string) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear 清空购物车。
func (c *Cart) Clear() {
	c.items = nil
}

// Subtotal 返回所有行 price × quantity 之和，空车为 0。
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, item := range c.items {
		sum += item.LineTotal()
	}
	return sum
}

// IsEmpty 报告购物车是否为空。
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Len 返回行数。
func (c *Cart) Len() int {
	return len(c.items)
}

// ItemCount 返回所有行数量之和。
func (c *Cart) ItemCount() int {
	var n int
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// Snapshot 返回当前行的副本。订单快照和持久化都必须用副本，
// 不允许与活跃购物车共享可变引用。
func (c *Cart) Snapshot() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}
