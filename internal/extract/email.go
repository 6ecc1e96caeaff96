package extract

import (
	"regexp"
	"strings"
)

// Email bodies carry two kinds of noise the field heuristics must not see:
// signature blocks, whose standalone name lines read like company names, and
// footer boilerplate (unsubscribe, copyright, privacy links).

var signatureMarkerRe = regexp.MustCompile(`(?i)^(?:cordialement|bien cordialement|meilleures salutations|salutations|sincèrement|best regards|kind regards|regards|sent from my|envoyé de mon|envoyé depuis|get outlook for)`)

var footerMarkers = []string{
	"unsubscribe", "se désinscrire", "se desinscrire", "désabonner", "desabonner",
	"gérer mes préférences", "manage preferences", "email preferences",
	"privacy policy", "politique de confidentialité",
	"copyright", "©", "all rights reserved", "tous droits réservés",
	"view in browser", "voir dans le navigateur",
}

var nameWordRe = regexp.MustCompile(`^[\p{Lu}][\p{Ll}'’-]+$`)

// CleanEmailBody strips signature blocks and footer boilerplate before field
// extraction runs, so a sender's name is not misread as a company.
func CleanEmailBody(text string) string {
	lines := strings.Split(text, "\n")

	// An explicit sign-off marker ends the useful body.
	for i, raw := range lines {
		if signatureMarkerRe.MatchString(strings.TrimSpace(raw)) {
			lines = lines[:i]
			break
		}
	}

	var kept []string
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if isFooterLine(line) {
			continue
		}
		if isSignatureName(lines, i) {
			continue
		}
		kept = append(kept, raw)
	}
	return strings.Join(kept, "\n")
}

func isFooterLine(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range footerMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// isSignatureName detects a short standalone name-like line: two or three
// capitalized words, surrounded by blank lines, sitting in the tail of the
// message. The tail restriction keeps two-line offer blocks earlier in the
// body ("Senior Analyst") out of reach.
func isSignatureName(lines []string, idx int) bool {
	if !inTail(lines, idx) {
		return false
	}
	line := strings.TrimSpace(lines[idx])
	if line == "" || len(line) > 40 {
		return false
	}
	if !blankAround(lines, idx) {
		return false
	}
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 3 {
		return false
	}
	for _, w := range words {
		if !nameWordRe.MatchString(w) {
			return false
		}
	}
	return true
}

func inTail(lines []string, idx int) bool {
	nonEmptyAfter := 0
	for i := idx + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			nonEmptyAfter++
		}
	}
	return nonEmptyAfter <= 4
}

func blankAround(lines []string, idx int) bool {
	before := idx == 0 || strings.TrimSpace(lines[idx-1]) == ""
	after := idx == len(lines)-1 || strings.TrimSpace(lines[idx+1]) == ""
	return before && after
}
