package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/homefeed/internal/home"
	tuitheme "github.com/glabrego/homefeed/internal/tui/theme"
)

// Toolbar lists the keys of the named screen.
func Toolbar(screen string) string {
	switch screen {
	case "detail":
		return "j/k scroll | a add/remove cart | esc back | q quit"
	case "menu":
		return "j/k move | enter open | r retry | esc back | q quit"
	case "category":
		return "j/k move | enter open | c categories | r reload | esc home | q quit"
	case "search":
		return "type to search | enter search/open | up/down move | esc home"
	}
	return "j/k move | enter open/expand | n next page | r refresh | c categories | / search | q quit"
}

// Banner describes page level loading and errors. It is empty when the
// feed is idle.
func Banner(s home.ViewState) string {
	var parts []string
	if s.IsLoadingFirstPage {
		parts = append(parts, "Loading products...")
	}
	if s.FirstPageError != nil {
		parts = append(parts, fmt.Sprintf("Could not load products: %v (r to retry)", s.FirstPageError))
	}
	if s.IsLoadingPullToRefresh {
		parts = append(parts, "Refreshing...")
	}
	if s.PullToRefreshError != nil {
		parts = append(parts, fmt.Sprintf("Refresh failed: %v", s.PullToRefreshError))
	}
	if s.IsLoadingNextPage {
		parts = append(parts, "Loading next page...")
	}
	if s.NextPageError != nil {
		parts = append(parts, fmt.Sprintf("Next page failed: %v (n to retry)", s.NextPageError))
	}
	return strings.Join(parts, " | ")
}

func PipelineState(s home.ViewState) string {
	switch {
	case s.FirstPageError != nil || s.NextPageError != nil || s.PullToRefreshError != nil:
		return "warning"
	case s.IsLoadingFirstPage || s.IsLoadingNextPage || s.IsLoadingPullToRefresh:
		return "loading"
	default:
		return "idle"
	}
}

func Message(s home.ViewState, status string, th tuitheme.Theme) string {
	main := Banner(s)
	if status != "" {
		main = status
	}
	return StatusLine(PipelineState(s), main, th)
}

// LoadStatus describes a secondary screen's load in the same terms as
// PipelineState and Banner.
func LoadStatus(loading bool, err error, what string) (state, text string) {
	switch {
	case err != nil:
		return "warning", fmt.Sprintf("Could not load %s: %v (r to retry)", what, err)
	case loading:
		return "loading", fmt.Sprintf("Loading %s...", what)
	default:
		return "idle", ""
	}
}

func StatusLine(state, text string, th tuitheme.Theme) string {
	if text == "" {
		text = "Ready"
	}
	return fmt.Sprintf("%s: %s | %s", th.MetaLabel.Render("state"), th.StateLabel(state), th.MetaValue.Render(text))
}

// Footer summarizes the feed. cached is negative when the cache size is
// unknown.
func Footer(shown, categories, cached int, th tuitheme.Theme) string {
	cachedLabel := "n/a"
	if cached >= 0 {
		cachedLabel = fmt.Sprintf("%d", cached)
	}
	parts := []string{
		th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
		th.MetaLabel.Render("categories") + " " + th.MetaValue.Render(fmt.Sprintf("%d", categories)),
		th.MetaLabel.Render("cached") + " " + th.MetaValue.Render(cachedLabel),
	}
	return strings.Join(parts, " • ")
}
