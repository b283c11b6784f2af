package feed

import (
	"fmt"

	"github.com/glabrego/homefeed/internal/shop"
)

// Item is one row of the home feed. The set of variants is closed:
// ProductItem, SectionHeader and AdditionalItemsLoadable.
type Item interface {
	Equal(other Item) bool
	feedItem()
}

type ProductItem struct {
	Product shop.Product
}

// SectionHeader starts the run of one category.
type SectionHeader struct {
	Name string
}

// AdditionalItemsLoadable closes a category run when the category has more
// products than the feed currently shows.
type AdditionalItemsLoadable struct {
	MoreItemsCount int
	CategoryName   string
	IsLoading      bool
	LoadingError   error
}

func (ProductItem) feedItem()             {}
func (SectionHeader) feedItem()           {}
func (AdditionalItemsLoadable) feedItem() {}

func (p ProductItem) Equal(other Item) bool {
	o, ok := other.(ProductItem)
	return ok && p.Product.Equal(o.Product)
}

func (h SectionHeader) Equal(other Item) bool {
	o, ok := other.(SectionHeader)
	return ok && h.Name == o.Name
}

func (a AdditionalItemsLoadable) Equal(other Item) bool {
	o, ok := other.(AdditionalItemsLoadable)
	return ok &&
		a.MoreItemsCount == o.MoreItemsCount &&
		a.CategoryName == o.CategoryName &&
		a.IsLoading == o.IsLoading &&
		SameError(a.LoadingError, o.LoadingError)
}

func (p ProductItem) String() string {
	return fmt.Sprintf("Product(%d %q)", p.Product.ID, p.Product.Name)
}

func (h SectionHeader) String() string {
	return fmt.Sprintf("SectionHeader(%q)", h.Name)
}

func (a AdditionalItemsLoadable) String() string {
	return fmt.Sprintf("AdditionalItemsLoadable(%d, %q, loading=%t, err=%v)", a.MoreItemsCount, a.CategoryName, a.IsLoading, a.LoadingError)
}

// SameError reports whether two errors render the same way. Load errors are
// produced fresh on every attempt, so identity comparison would never match.
func SameError(a, b error) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b || a.Error() == b.Error()
}

func ItemsEqual(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func ProductItems(products []shop.Product) []Item {
	items := make([]Item, 0, len(products))
	for _, p := range products {
		items = append(items, ProductItem{Product: p})
	}
	return items
}
