package description

import (
	"strings"

	nethtml "golang.org/x/net/html"
)

var blockTags = map[string]bool{
	"p":   true,
	"div": true,
	"br":  true,
	"li":  true,
	"ul":  true,
	"ol":  true,
	"h1":  true,
	"h2":  true,
	"h3":  true,
	"tr":  true,
}

// Text flattens an HTML product description into paragraphs separated by
// blank lines. Plain text input passes through with whitespace collapsed.
func Text(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	doc, err := nethtml.Parse(strings.NewReader(raw))
	if err != nil {
		return collapse(raw)
	}

	var paragraphs []string
	var current strings.Builder
	flush := func() {
		if text := collapse(current.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
		current.Reset()
	}

	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		switch n.Type {
		case nethtml.TextNode:
			current.WriteString(n.Data)
			return
		case nethtml.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "li":
				flush()
				current.WriteString("• ")
			}
			if blockTags[n.Data] && n.Data != "li" {
				flush()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == nethtml.ElementNode && blockTags[n.Data] {
			flush()
		}
	}
	walk(doc)
	flush()

	return strings.Join(paragraphs, "\n\n")
}

// Lines renders the description wrapped to width.
func Lines(raw string, width int) []string {
	text := Text(raw)
	if text == "" {
		return nil
	}
	var out []string
	for i, paragraph := range strings.Split(text, "\n\n") {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, wrap(paragraph, width)...)
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// wrap fills lines up to width runes. Words longer than width are split
// across lines.
func wrap(text string, width int) []string {
	if width < 10 {
		width = 10
	}
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		word = string(runes)
		if word == "" {
			continue
		}

		if line == "" {
			line = word
			continue
		}
		if len([]rune(line))+1+len(runes) <= width {
			line += " " + word
			continue
		}
		lines = append(lines, line)
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
