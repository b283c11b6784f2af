package feed

import "github.com/glabrego/homefeed/internal/shop"

const DefaultVisiblePerCategory = 3

// Group turns one page of products into feed runs, one per category in
// first-seen order: the section header, the first visible products and, when
// the category has more, an AdditionalItemsLoadable counting the rest.
func Group(products []shop.Product, visible int) []Item {
	if visible < 1 {
		visible = DefaultVisiblePerCategory
	}

	order := make([]string, 0)
	byCategory := make(map[string][]shop.Product)
	for _, p := range products {
		if _, ok := byCategory[p.Category]; !ok {
			order = append(order, p.Category)
		}
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	items := make([]Item, 0, len(products)+2*len(order))
	for _, category := range order {
		group := byCategory[category]
		shown := min(visible, len(group))

		items = append(items, SectionHeader{Name: category})
		items = append(items, ProductItems(group[:shown])...)
		if remaining := len(group) - shown; remaining > 0 {
			items = append(items, AdditionalItemsLoadable{
				MoreItemsCount: remaining,
				CategoryName:   category,
			})
		}
	}
	return items
}
