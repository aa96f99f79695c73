// internal/service/checkout/domain/catalog.go
package domain

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var productsYAML []byte

// Catalog 是静态的商品目录，启动时加载一次，运行期只读。
type Catalog struct {
	products []Product
	byID     map[string]*Product
}

// LoadCatalog 解析内置的商品数据。
func LoadCatalog() (*Catalog, error) {
	var products []Product
	if err := yaml.Unmarshal(productsYAML, &products); err != nil {
		return nil, err
	}
	return NewCatalog(products), nil
}

// NewCatalog 从给定的商品列表构建目录，保留原始顺序。
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{
		products: products,
		byID:     make(map[string]*Product, len(products)),
	}
	for i := range c.products {
		p := &c.products[i]
		if _, exists := c.byID[p.ID]; !exists {
			c.byID[p.ID] = p
		}
	}
	return c
}

// All 返回目录中的全部商品（目录顺序）。
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// FindByID 按商品 ID 查找。
func (c *Catalog) FindByID(id string) (Product, bool) {
	if p, ok := c.byID[id]; ok {
		return *p, true
	}
	return Product{}, false
}

// FindByBarcode 按条码精确匹配。
// 条码在数据中不保证唯一，按目录顺序返回第一个命中。
func (c *Catalog) FindByBarcode(barcode string) (Product, bool) {
	for _, p := range c.products {
		if p.Barcode == barcode {
			return p, true
		}
	}
	return Product{}, false
}

// Categories 返回全部分类，按首次出现的顺序去重。
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Search 按名称/分类子串过滤，query 为空匹配全部；
// category 为空或 "all" 表示不过滤分类。
func (c *Catalog) Search(query, category string) []Product {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []Product
	for _, p := range c.products {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Category), query) {
			continue
		}
		if category != "" && category != "all" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}
