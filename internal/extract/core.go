package extract

import (
	"regexp"
	"strings"
)

// The core applies three techniques in priority order until one yields drafts:
// separator lines ("Company · City" blocks, the dominant job-alert digest
// format), keyword-anchored field extraction, and nothing — a block with no
// derivable title produces no draft.

// lineSeparators in lookup order. The middle dot needs no surrounding spaces;
// dash and pipe do, so hyphenated names and prose dashes don't split.
var lineSeparators = []string{" · ", "·", " | ", " – ", " - "}

var (
	companyLabelRe  = regexp.MustCompile(`(?im)^(?:company|entreprise|employeur|organisation|société)\s*[:：]\s*(.+)$`)
	titleLabelRe    = regexp.MustCompile(`(?im)^(?:position|poste|titre|title|fonction|intitulé du poste)\s*[:：]\s*(.+)$`)
	locationLabelRe = regexp.MustCompile(`(?im)^(?:location|lieu|lieu de travail|localité|place de travail)\s*[:：]\s*(.+)$`)
	deadlineLabelRe = regexp.MustCompile(`(?im)^(?:deadline|délai|date limite|postuler avant|apply by|closing date)\s*[:：]?\s*(.+)$`)

	// Role word followed by free text, stopped before punctuation. French
	// job titles lead with the role noun, so the match starts there.
	roleTitleRe = regexp.MustCompile(`(?i)\b(?:responsable|chargé(?:e|·e)?|coordinateur|coordinatrice|coordinator|directeur|directrice|director|manager|gestionnaire|spécialiste|specialist|assistante?|analyste?|analyst|ingénieure?|engineer|consultante?|officer|adjointe?|head of|lead)\b[^\n,.;:!?]{0,60}`)

	// "chez Acme SA" — consecutive capitalized words after "chez".
	chezCompanyRe = regexp.MustCompile(`\b[Cc]hez\s+([\p{Lu}][\p{L}\d&.'’-]*(?:\s+[\p{Lu}][\p{L}\d&.'’-]*)*)`)

	// standalone "à City" — the preposition must be a word of its own, which
	// \b cannot express for a non-ASCII rune.
	aLocationRe = regexp.MustCompile(`(?:^|[\s,(])[àÀ]\s+([\p{Lu}][\p{L}'’-]+)`)

	// Inline deadline phrasing: "postuler avant le 15 mars 2026".
	inlineDeadlineRe = regexp.MustCompile(`(?i)(?:deadline|délai|date limite|postuler (?:avant|jusqu'au)|apply (?:by|before)|closing date|candidature(?:s)? (?:avant|jusqu'au))\D{0,20}(\d{1,2}(?:er)?[./ ]\s*[\p{L}\d.]+?[./ ]\s*\d{4})`)

	instructionsRe = regexp.MustCompile(`(?im)^.*(?:postuler|candidature|dossier complet|apply via|send your|envoyer votre).*$`)
)

// titleCandidateCutoffs trim trailing context off a role-regex title match.
var titleCandidateCutoffs = []string{" chez ", " Chez ", " at ", " à ", " À ", " pour ", " - ", " – "}

func extractFromText(text, channel, label string) []Draft {
	lines := strings.Split(text, "\n")

	drafts := separatorDrafts(lines, channel, label)
	if len(drafts) == 0 {
		if d, ok := keywordDraft(text, channel, label); ok {
			drafts = append(drafts, d)
		}
	}
	for i := range drafts {
		enrich(&drafts[i], text)
	}
	return dedupe(drafts)
}

// separatorDrafts scans for "left SEP right" lines where one side names a
// known city or region; that side becomes the location and the other the
// company. The nearest preceding non-empty line is the title.
func separatorDrafts(lines []string, channel, label string) []Draft {
	var drafts []Draft
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		company, location, ok := splitCompanyLocation(line)
		if !ok {
			continue
		}
		title := precedingTitle(lines, i)
		if title == "" {
			continue
		}
		drafts = append(drafts, Draft{
			Company:     company,
			Title:       title,
			Location:    location,
			Channel:     channel,
			SourceLabel: label,
			Keywords:    capKeywords(title + " " + company + " " + location),
		})
	}
	return drafts
}

func splitCompanyLocation(line string) (company, location string, ok bool) {
	for _, sep := range lineSeparators {
		if !strings.Contains(line, sep) {
			continue
		}
		parts := strings.SplitN(line, sep, 2)
		left := strings.TrimSpace(parts[0])
		right := strings.TrimSpace(parts[1])
		if left == "" || right == "" {
			continue
		}
		switch {
		case looksLikeLocation(right) && !looksLikeLocation(left):
			return left, right, true
		case looksLikeLocation(left) && !looksLikeLocation(right):
			return right, left, true
		}
	}
	return "", "", false
}

func precedingTitle(lines []string, idx int) string {
	for i := idx - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		// A previous separator line belongs to another offer block.
		if _, _, ok := splitCompanyLocation(line); ok {
			return ""
		}
		if len(line) > 120 {
			return ""
		}
		return line
	}
	return ""
}

// keywordDraft extracts individual fields through label-prefixed lines and
// role-title patterns when no separator block exists. Title is the only hard
// requirement; everything else stays empty when unmatched.
func keywordDraft(text, channel, label string) (Draft, bool) {
	d := Draft{
		Channel:     channel,
		SourceLabel: label,
		Keywords:    capKeywords(text),
	}

	if m := titleLabelRe.FindStringSubmatch(text); m != nil {
		d.Title = strings.TrimSpace(m[1])
	} else if m := roleTitleRe.FindString(text); m != "" {
		d.Title = trimTitleCandidate(m)
	}
	if d.Title == "" {
		return Draft{}, false
	}

	if m := companyLabelRe.FindStringSubmatch(text); m != nil {
		d.Company = strings.TrimSpace(m[1])
	} else if m := chezCompanyRe.FindStringSubmatch(text); m != nil {
		d.Company = strings.TrimSpace(m[1])
	}

	if m := locationLabelRe.FindStringSubmatch(text); m != nil {
		d.Location = strings.TrimSpace(m[1])
	} else if m := aLocationRe.FindStringSubmatch(text); m != nil && looksLikeLocation(m[1]) {
		d.Location = strings.TrimSpace(m[1])
	}

	return d, true
}

func trimTitleCandidate(title string) string {
	for _, cut := range titleCandidateCutoffs {
		if i := strings.Index(title, cut); i > 0 {
			title = title[:i]
		}
	}
	return strings.TrimSpace(title)
}

// enrich fills draft fields derivable from the whole input: deadline,
// required documents, contact email, application instructions.
func enrich(d *Draft, text string) {
	if d.DeadlineISO == "" {
		if raw := findDeadlineRaw(text); raw != "" {
			if iso, ok := ParseDeadline(raw); ok {
				d.DeadlineISO = iso
			}
		}
	}
	d.DeadlineMissing = d.DeadlineISO == ""

	if len(d.RequiredDocs) == 0 {
		d.RequiredDocs = InferDocuments(text)
	}
	if d.ContactEmail == "" {
		d.ContactEmail = FindContactEmail(text)
	}
	if d.Instructions == "" {
		if m := instructionsRe.FindString(text); m != "" {
			d.Instructions = strings.TrimSpace(m)
		}
	}
	if d.Keywords == "" {
		d.Keywords = capKeywords(text)
	}
}

func findDeadlineRaw(text string) string {
	if m := deadlineLabelRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := inlineDeadlineRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
