package shop

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is one catalog entry as served by the product backend.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Price       decimal.Decimal `json:"price"`
}

func (p Product) Equal(other Product) bool {
	return p.ID == other.ID &&
		p.Name == other.Name &&
		p.Category == other.Category &&
		p.Description == other.Description &&
		p.ImageURL == other.ImageURL &&
		p.Price.Equal(other.Price)
}

// FilterByCategory keeps the products of the named category in their original order.
func FilterByCategory(products []Product, category string) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func CategoryNames(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	names := make([]string, 0)
	for _, p := range products {
		name := strings.TrimSpace(p.Category)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ProductDetail is a product as shown on its detail screen.
type ProductDetail struct {
	Product
	InCart bool
}

// Listing is a set of products for one screen. FromCache is set when the
// backend was unreachable and the local cache answered instead.
type Listing struct {
	Products  []Product
	FromCache bool
}

// Search keeps the products whose name, category or description contains
// every word of query, ignoring case. A blank query matches nothing.
func Search(products []Product, query string) []Product {
	terms := strings.Fields(strings.ToLower(query))
	out := make([]Product, 0)
	if len(terms) == 0 {
		return out
	}
	for _, p := range products {
		haystack := strings.ToLower(p.Name + " " + p.Category + " " + p.Description)
		matched := true
		for _, term := range terms {
			if !strings.Contains(haystack, term) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, p)
		}
	}
	return out
}
