package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/glabrego/homefeed/internal/shop"
)

var ErrNotFound = errors.New("product not found")

// Catalog is the in-memory product store served by the backend. Page 0 holds
// the newest products.
type Catalog struct {
	mu       sync.RWMutex
	products []shop.Product
	pageSize int
}

func NewCatalog(seed []shop.Product, pageSize int) *Catalog {
	if pageSize < 1 {
		pageSize = 10
	}
	products := make([]shop.Product, len(seed))
	copy(products, seed)
	return &Catalog{products: products, pageSize: pageSize}
}

// LoadCatalogFile reads a JSON array of products.
func LoadCatalogFile(path string, pageSize int) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var products []shop.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return NewCatalog(products, pageSize), nil
}

func (c *Catalog) Page(page int) []shop.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	start := page * c.pageSize
	if page < 0 || start >= len(c.products) {
		return []shop.Product{}
	}
	end := min(start+c.pageSize, len(c.products))
	out := make([]shop.Product, end-start)
	copy(out, c.products[start:end])
	return out
}

func (c *Catalog) PageCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return (len(c.products) + c.pageSize - 1) / c.pageSize
}

func (c *Catalog) Get(id int64) (shop.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return shop.Product{}, ErrNotFound
}

func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return shop.CategoryNames(c.products)
}

// SampleProducts is the built-in catalog used when no catalog file is configured.
func SampleProducts() []shop.Product {
	type row struct {
		name, category, description, price string
	}
	rows := []row{
		{"Pixel Tee", "Shirts", "<p>Soft <strong>cotton</strong> tee with a pixel print.</p>", "19.90"},
		{"Gopher Tee", "Shirts", "<p>The classic gopher, front and back.</p>", "21.90"},
		{"Linen Shirt", "Shirts", "<p>Breathable linen for summer.</p>", "39.00"},
		{"Flannel Shirt", "Shirts", "<p>Warm flannel, <em>checkered</em>.</p>", "34.50"},
		{"Oxford Shirt", "Shirts", "<p>Button-down oxford cloth.</p>", "42.00"},
		{"Canvas Cap", "Hats", "<p>Adjustable canvas cap.</p>", "14.00"},
		{"Beanie", "Hats", "<p>Ribbed knit beanie.</p>", "12.50"},
		{"Bucket Hat", "Hats", "<p>Reversible bucket hat.</p>", "18.00"},
		{"Trail Runner", "Shoes", "<p>Grippy outsole for muddy trails.</p>", "89.00"},
		{"Court Sneaker", "Shoes", "<p>Low-top leather sneaker.</p>", "74.90"},
		{"Chino Shorts", "Shorts", "<p>Stretch chino, 7&quot; inseam.</p>", "29.00"},
		{"Board Shorts", "Shorts", "<p>Quick-dry board shorts.</p>", "32.00"},
		{"Cargo Shorts", "Shorts", "<p>Six pockets. Enough said.</p>", "27.50"},
		{"Sweat Shorts", "Shorts", "<p>Brushed fleece shorts.</p>", "24.00"},
		{"Loafer", "Shoes", "<p>Suede penny loafer.</p>", "99.00"},
		{"Desert Boot", "Shoes", "<p>Crepe sole chukka.</p>", "119.00"},
		{"Polo Shirt", "Shirts", "<p>Pique polo with contrast collar.</p>", "29.90"},
		{"Sun Hat", "Hats", "<p>Wide brim straw hat.</p>", "22.00"},
		{"Swim Shorts", "Shorts", "<p>Lined swim shorts.</p>", "26.00"},
		{"Slip-On", "Shoes", "<p>Canvas slip-on.</p>", "49.00"},
		{"Henley", "Shirts", "<p>Waffle-knit henley.</p>", "31.00"},
		{"Trucker Cap", "Hats", "<p>Mesh back trucker cap.</p>", "16.00"},
		{"Running Shorts", "Shorts", "<p>Split-hem running shorts.</p>", "28.00"},
		{"High-Top", "Shoes", "<p>Canvas high-top sneaker.</p>", "64.00"},
	}

	products := make([]shop.Product, 0, len(rows))
	for i, r := range rows {
		products = append(products, shop.Product{
			ID:          int64(i + 1),
			Name:        r.name,
			Category:    r.category,
			Description: r.description,
			ImageURL:    fmt.Sprintf("/images/%d.jpg", i+1),
			Price:       decimal.RequireFromString(r.price),
		})
	}
	return products
}
