package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags introduce line breaks when HTML is flattened to text, so the
// line-oriented heuristics still see "Title" and "Company · City" as separate
// lines.
var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "br": {}, "li": {}, "tr": {}, "td": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"table": {}, "ul": {}, "ol": {}, "section": {}, "article": {},
}

var skipTags = map[string]struct{}{
	"script": {}, "style": {}, "head": {}, "noscript": {},
}

// HTMLToText flattens markup to newline-separated text. Parse failures
// degrade to the raw input; html.Parse itself is lenient enough that this
// only happens on reader errors.
func HTMLToText(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return markup
	}
	var sb strings.Builder
	writeNodeText(doc, &sb)
	return collapseBlankLines(sb.String())
}

func writeNodeText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		if _, skip := skipTags[n.Data]; skip {
			return
		}
	}
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			sb.WriteString(collapseSpaces(n.Data))
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(c, sb)
	}
	if n.Type == html.ElementNode {
		if _, block := blockTags[n.Data]; block {
			sb.WriteString("\n")
		}
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ") + " "
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
