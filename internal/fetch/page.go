package fetch

import (
	"bytes"
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mbaudet/applytrack/internal/extract"
)

// Page is a fetched posting reduced to what enrichment needs.
type Page struct {
	Title string
	Text  string
}

// PageFetcher is the capability the pipeline depends on for enrichment.
type PageFetcher interface {
	FetchPage(ctx context.Context, rawURL string) (Page, error)
}

const maxPageText = 20000

// FetchPage downloads a posting and flattens it to title plus plain text.
func (f *Fetcher) FetchPage(ctx context.Context, rawURL string) (Page, error) {
	body, _, err := f.FetchBytes(ctx, rawURL)
	if err != nil {
		return Page{}, err
	}

	text := extract.HTMLToText(string(body))
	if runes := []rune(text); len(runes) > maxPageText {
		text = string(runes[:maxPageText])
	}
	page := Page{Text: text}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err == nil {
		page.Title = strings.TrimSpace(doc.Find("title").First().Text())
		if page.Title == "" {
			page.Title = strings.TrimSpace(doc.Find("h1").First().Text())
		}
	}
	if page.Title == "" {
		page.Title = titleFromSlug(rawURL)
	}
	return page, nil
}

var titleCaser = cases.Title(language.French)

// titleFromSlug recovers a readable title from the last URL path segment,
// e.g. "responsable-marketing-geneve" -> "Responsable Marketing Geneve".
func titleFromSlug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	seg := path.Base(strings.TrimSuffix(u.Path, "/"))
	if seg == "" || seg == "." || seg == "/" {
		return ""
	}
	if i := strings.LastIndex(seg, "."); i > 0 {
		seg = seg[:i]
	}
	seg = strings.NewReplacer("-", " ", "_", " ", "+", " ").Replace(seg)
	seg = strings.TrimSpace(seg)
	if seg == "" || !strings.ContainsAny(seg, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return ""
	}
	return titleCaser.String(seg)
}
