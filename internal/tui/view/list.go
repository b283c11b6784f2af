package view

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/glabrego/homefeed/internal/feed"
	"github.com/glabrego/homefeed/internal/shop"
	tuitheme "github.com/glabrego/homefeed/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// RenderItemLine renders one feed row. Unknown item types render empty.
func RenderItemLine(item feed.Item, width int, active bool, th tuitheme.Theme) string {
	switch it := item.(type) {
	case feed.SectionHeader:
		return RenderSectionLine(it.Name, active, th)
	case feed.ProductItem:
		return RenderProductLine(it.Product, width, active, th)
	case feed.AdditionalItemsLoadable:
		return RenderLoadableLine(it, width, active, th)
	}
	return ""
}

func RenderSectionLine(name string, active bool, th tuitheme.Theme) string {
	return th.RenderActiveLine(active, th.Section.Render("■ "+name))
}

func RenderProductLine(p shop.Product, width int, active bool, th tuitheme.Theme) string {
	prefix := "    "
	if active {
		prefix = "  > "
	}
	price := "$" + p.Price.StringFixed(2)
	available := width - visibleLen(prefix) - 1 - visibleLen(price)
	if available < 1 {
		available = 1
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = fmt.Sprintf("(product %d)", p.ID)
	}
	name = truncateRunes(name, available)
	gap := width - visibleLen(prefix) - visibleLen(name) - visibleLen(price)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(active, prefix+th.Product.Render(name)+strings.Repeat(" ", gap)+th.Price.Render(price))
}

func RenderLoadableLine(l feed.AdditionalItemsLoadable, width int, active bool, th tuitheme.Theme) string {
	prefix := "    "
	if active {
		prefix = "  > "
	}
	label := LoadableLabel(l)
	available := width - visibleLen(prefix)
	if available < 1 {
		available = 1
	}
	style := th.Loadable
	if l.LoadingError != nil {
		style = th.StateWarn
	}
	return th.RenderActiveLine(active, prefix+style.Render(truncateRunes(label, available)))
}

func LoadableLabel(l feed.AdditionalItemsLoadable) string {
	switch {
	case l.IsLoading:
		return fmt.Sprintf("Loading more %s...", l.CategoryName)
	case l.LoadingError != nil:
		return fmt.Sprintf("Could not load %s: %v (enter to retry)", l.CategoryName, l.LoadingError)
	case l.MoreItemsCount == 1:
		return fmt.Sprintf("+ 1 more in %s", l.CategoryName)
	default:
		return fmt.Sprintf("+ %d more in %s", l.MoreItemsCount, l.CategoryName)
	}
}

// Window returns the [start, end) rows to draw so the cursor stays centered
// when the list is taller than height.
func Window(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = max(0, min(cursor, totalRows-1))
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if maxStart := totalRows - height; start > maxStart {
		start = maxStart
	}
	return start, start + height
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

func StripANSI(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
