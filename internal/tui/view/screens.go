package view

import (
	"fmt"

	"github.com/glabrego/homefeed/internal/category"
	tuitheme "github.com/glabrego/homefeed/internal/tui/theme"
)

func RenderMenuLine(item category.MenuItem, active bool, th tuitheme.Theme) string {
	prefix := "    "
	if active {
		prefix = "  > "
	}
	mark := "  "
	if item.Selected {
		mark = "● "
	}
	return th.RenderActiveLine(active, prefix+mark+th.Section.Render(item.Name))
}

func SearchPrompt(query string, th tuitheme.Theme) string {
	return th.MetaLabel.Render("search:") + " " + query + "_"
}

func CartLine(inCart bool) string {
	if inCart {
		return "In cart: yes (a to remove)"
	}
	return "In cart: no (a to add)"
}

// ListingHeader titles a category or search listing. fromCache marks results
// served from the local cache while the backend is unreachable.
func ListingHeader(title string, count int, fromCache bool, th tuitheme.Theme) string {
	header := th.Section.Render(fmt.Sprintf("■ %s (%d)", title, count))
	if fromCache {
		header += " " + th.StateWarn.Render("[offline: cached]")
	}
	return header
}
