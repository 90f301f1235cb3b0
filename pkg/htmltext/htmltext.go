// Package htmltext extracts the visible text of HTML payloads, collapsing
// block-level structure to newlines so downstream consumers see one line per
// block instead of run-together markup.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var blockTags = map[string]struct{}{
	"address": {}, "article": {}, "blockquote": {}, "br": {}, "dd": {},
	"div": {}, "dl": {}, "dt": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {},
	"h5": {}, "h6": {}, "hr": {}, "li": {}, "ol": {}, "p": {}, "pre": {},
	"section": {}, "table": {}, "td": {}, "th": {}, "title": {}, "tr": {},
	"ul": {},
}

// FromDocument renders a parsed document as visible text. Script and style
// contents are dropped entirely.
func FromDocument(doc *goquery.Document) string {
	var b strings.Builder
	for _, node := range doc.Selection.Nodes {
		walk(node, &b)
	}
	return normalize(b.String())
}

// FromFragment strips markup from an HTML snippet, e.g. a feed entry summary.
// Input that fails to parse is returned trimmed as-is.
func FromFragment(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return FromDocument(doc)
}

func walk(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, b)
	}

	if n.Type == html.ElementNode {
		if _, ok := blockTags[n.Data]; ok {
			b.WriteString("\n")
		}
	}
}

// normalize trims every line and drops the empty ones left behind by nested
// block elements.
func normalize(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n")
}
