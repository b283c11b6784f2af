package view

import (
	"strings"

	"github.com/glabrego/homefeed/internal/render/description"
	"github.com/glabrego/homefeed/internal/shop"
)

func DetailLines(p shop.Product, width int) []string {
	if width < 10 {
		width = 10
	}
	lines := make([]string, 0, 16)
	lines = append(lines, p.Name)
	lines = append(lines, strings.Repeat("=", max(1, min(width, len([]rune(p.Name))))))
	lines = append(lines, "")

	if p.Category != "" {
		lines = append(lines, "Category: "+p.Category)
	}
	lines = append(lines, "Price: $"+p.Price.StringFixed(2))
	if p.ImageURL != "" {
		lines = append(lines, truncateRunes("Image: "+p.ImageURL, width))
	}

	if body := description.Lines(p.Description, width); len(body) > 0 {
		lines = append(lines, "")
		lines = append(lines, body...)
	}
	return lines
}

// ScrollLines returns at most maxLines lines starting at top, newline
// terminated.
func ScrollLines(lines []string, top, maxLines int) string {
	if len(lines) == 0 {
		return ""
	}
	top = max(0, min(top, len(lines)-1))
	end := len(lines)
	if maxLines > 0 && top+maxLines < end {
		end = top + maxLines
	}
	return strings.Join(lines[top:end], "\n") + "\n"
}
