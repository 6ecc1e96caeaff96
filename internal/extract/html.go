package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nonJobLinkMarkers identify anchors that are clearly not job links —
// unsubscribe, tracking, social and legal plumbing — matched against the
// lowered href and link text.
var nonJobLinkMarkers = []string{
	"unsubscribe", "désinscrire", "desinscrire", "désabonner", "desabonner",
	"privacy", "confidentialité", "confidentialite", "terms",
	"preferences", "préférences", "tracking", "pixel", "utm_source=social",
	"facebook.com", "twitter.com", "x.com/", "instagram.com",
	"youtube.com", "tiktok.com", "help center", "aide",
}

var applyLinkRe = regexp.MustCompile(`(?i)\b(?:apply|postuler|view details|voir l'offre|voir l'annonce|see details|en savoir plus|view job|voir le poste)\b`)

// maxAncestorLevels bounds the DOM climb when pairing a job-title link with
// its apply link.
const maxAncestorLevels = 3

type jobLink struct {
	Title string
	URL   string
}

// FromHTML extracts drafts from HTML email markup. Non-job anchors are
// removed first so footer links cannot pollute the text heuristics; job-title
// links are paired with the nearest following apply-labeled link to recover
// the offer's source URL.
func FromHTML(markup string) []Draft {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	stripNonJobAnchors(doc)
	links := collectJobLinks(doc)

	cleaned, err := doc.Html()
	if err != nil {
		cleaned = markup
	}
	text := HTMLToText(cleaned)

	drafts := extractFromText(text, ChannelEmail, "Email alert")
	if len(drafts) == 0 {
		drafts = draftsFromLinks(links, text)
	}

	for i := range drafts {
		if drafts[i].SourceURL == "" {
			drafts[i].SourceURL = matchLink(drafts[i].Title, links)
		}
		drafts[i].Channel = channelForURL(drafts[i].SourceURL, drafts[i].Channel)
	}
	return dedupe(drafts)
}

func stripNonJobAnchors(doc *goquery.Document) {
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		probe := strings.ToLower(href + " " + s.Text())
		for _, marker := range nonJobLinkMarkers {
			if strings.Contains(probe, marker) {
				s.Remove()
				return
			}
		}
	})
}

func collectJobLinks(doc *goquery.Document) []jobLink {
	var links []jobLink
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		title := strings.Join(strings.Fields(s.Text()), " ")
		if !looksLikeJobTitle(title) {
			return
		}
		href, _ := s.Attr("href")
		if applyHref := findApplyLink(s); applyHref != "" {
			href = applyHref
		}
		if href == "" {
			return
		}
		links = append(links, jobLink{Title: title, URL: href})
	})
	return links
}

func looksLikeJobTitle(text string) bool {
	if text == "" || applyLinkRe.MatchString(text) {
		return false
	}
	if roleTitleRe.MatchString(text) {
		return true
	}
	words := strings.Fields(text)
	return len(words) >= 2 && len(text) >= 8 && len(text) <= 90
}

// findApplyLink searches up to maxAncestorLevels DOM ancestors for an
// apply/view-details labeled anchor belonging to the same offer block.
func findApplyLink(s *goquery.Selection) string {
	node := s
	for level := 0; level < maxAncestorLevels; level++ {
		parent := node.Parent()
		if parent.Length() == 0 {
			return ""
		}
		var href string
		parent.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if !applyLinkRe.MatchString(a.Text()) {
				return true
			}
			href, _ = a.Attr("href")
			return href == ""
		})
		if href != "" {
			return href
		}
		node = parent
	}
	return ""
}

func draftsFromLinks(links []jobLink, text string) []Draft {
	var drafts []Draft
	for _, link := range links {
		d := Draft{
			Title:       link.Title,
			Channel:     ChannelEmail,
			SourceLabel: "Email alert",
			SourceURL:   link.URL,
		}
		enrich(&d, text)
		drafts = append(drafts, d)
	}
	return drafts
}

func matchLink(title string, links []jobLink) string {
	lower := strings.ToLower(strings.TrimSpace(title))
	if lower == "" {
		return ""
	}
	for _, link := range links {
		lt := strings.ToLower(link.Title)
		if strings.Contains(lt, lower) || strings.Contains(lower, lt) {
			return link.URL
		}
	}
	return ""
}
