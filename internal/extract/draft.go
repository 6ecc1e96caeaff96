// Package extract turns unstructured pasted content (free text, job-alert
// emails, HTML email markup, text recovered from a PDF) into structured offer
// drafts. Each input shape gets its own normalization strategy, but all shapes
// converge on one heuristic core and one draft type. Extraction is total:
// malformed input yields fewer drafts, never an error.
package extract

import "strings"

// Channel tags identifying the source format of a draft.
const (
	ChannelFreeText = "free-text"
	ChannelEmail    = "email"
	ChannelPDF      = "pdf"
	ChannelLinkedIn = "linkedin"
)

const maxKeywords = 500

// Draft is a transient, unpersisted candidate offer awaiting validation and
// import. Title is the only hard requirement; absent fields stay zero-valued
// here and only get placeholder values at the store boundary.
type Draft struct {
	Company  string `json:"company"`
	Title    string `json:"title"`
	Location string `json:"location"`

	Channel     string `json:"channel"`
	SourceLabel string `json:"source_label"`

	// Keywords is the free-text blob used for downstream matching, capped at
	// maxKeywords characters.
	Keywords string `json:"keywords"`

	DeadlineISO     string   `json:"deadline,omitempty"`
	DeadlineMissing bool     `json:"deadline_missing,omitempty"`
	ContactEmail    string   `json:"contact_email,omitempty"`
	PublicationDate string   `json:"publication_date,omitempty"`
	Instructions    string   `json:"instructions,omitempty"`
	RequiredDocs    []string `json:"required_documents,omitempty"`
	SourceURL       string   `json:"source_url,omitempty"`
}

// Valid reports whether the draft can be imported.
func (d Draft) Valid() bool {
	return strings.TrimSpace(d.Title) != ""
}

// dedupe collapses drafts with case-insensitive-equal (title, company) pairs,
// keeping the first occurrence.
func dedupe(drafts []Draft) []Draft {
	if len(drafts) <= 1 {
		return drafts
	}
	seen := make(map[string]struct{}, len(drafts))
	out := drafts[:0]
	for _, d := range drafts {
		key := strings.ToLower(strings.TrimSpace(d.Title)) + "\x00" + strings.ToLower(strings.TrimSpace(d.Company))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}

func capKeywords(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxKeywords {
		return s[:maxKeywords]
	}
	return s
}
