// internal/service/checkout/domain/product.go
package domain

// Product 是商品目录中的一个条目。加载后不可变。
type Product struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
	// Translations 是可选的按语言标签索引的名称表
	Translations map[string]string `json:"translations,omitempty" yaml:"translations"`
	Category     string            `json:"category" yaml:"category"`
	Image        string            `json:"image" yaml:"image"`
	// Barcode 实际数据中不保证唯一，目录查找按先到先得处理
	Barcode string `json:"barcode" yaml:"barcode"`
}

// LocalizedName 返回 lang 语言下的商品名，没有译文时回退到默认名称。
func (p Product) LocalizedName(lang string) string {
	if name, ok := p.Translations[lang]; ok && name != "" {
		return name
	}
	return p.Name
}

// CartItem 是购物车里的一行：商品字段加数量。
// 不变式：数量 >= 1；数量减到 0 的行会被整行移除，不会以 0 存在。
type CartItem struct {
	Product  `yaml:",inline"`
	Quantity int `json:"quantity" yaml:"quantity"`
}

// LineTotal 返回该行的小计。
func (c CartItem) LineTotal() float64 {
	return c.Price * float64(c.Quantity)
}
