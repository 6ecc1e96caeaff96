// Package rules evaluates hard-exclusion criteria for job offers: unpaid or
// internship roles, postings outside the accepted region, and offers requiring
// a language the candidate does not work in. Evaluation is pure string
// matching over the offer's text fields and never fails; text with no signal
// yields all-false flags.
package rules

import "strings"

// Flags holds the three hard-exclusion signals. An offer is excluded when any
// flag is set; the flags themselves are not persisted, only the resulting
// boolean and reason string.
type Flags struct {
	UnpaidOrInternship bool
	OutsideRegion      bool
	LanguageBarrier    bool
}

// Excluded reports whether any exclusion criterion matched.
func (f Flags) Excluded() bool {
	return f.UnpaidOrInternship || f.OutsideRegion || f.LanguageBarrier
}

// Reason returns a comma-joined human label per raised flag, "" when none.
func (f Flags) Reason() string {
	var parts []string
	if f.UnpaidOrInternship {
		parts = append(parts, "unpaid or internship")
	}
	if f.OutsideRegion {
		parts = append(parts, "outside accepted region")
	}
	if f.LanguageBarrier {
		parts = append(parts, "language requirement")
	}
	return strings.Join(parts, ", ")
}

// Single-word signals are matched as whole tokens so "intern" does not fire on
// "international"; multi-word signals are matched as substrings.
var unpaidTokens = []string{
	"intern", "internship", "unpaid", "volunteer",
	"stage", "stagiaire", "bénévole", "bénévolat", "praktikum",
}

var unpaidPhrases = []string{
	"non rémunéré", "non-rémunéré", "sans rémunération", "à titre bénévole",
}

// AllowedRegions is checked before DeniedRegions: a location matching an
// allowed substring is never excluded. A location matching neither list is
// unknown and also not excluded.
var AllowedRegions = []string{
	"genève", "geneve", "geneva", "carouge", "vernier", "lancy", "meyrin",
	"vaud", "lausanne", "nyon", "morges", "gland", "rolle", "vevey", "montreux",
	"remote", "télétravail", "teletravail", "home office",
}

// DeniedRegions lists known-out-of-reach regional substrings.
var DeniedRegions = []string{
	"zurich", "zürich", "bern", "berne", "basel", "bâle", "lucerne", "luzern",
	"zug", "zoug", "st. gallen", "saint-gall", "winterthur", "winterthour",
	"lugano", "tessin", "ticino", "coire", "chur", "aarau", "soleure", "solothurn",
}

var languageTokens = []string{
	"allemand", "german", "deutsch", "suisse allemand", "swiss german", "schweizerdeutsch",
}

var mandatoryMarkers = []string{
	"exigé", "exigée", "requis", "requise", "required", "mandatory",
	"obligatoire", "indispensable", "impératif", "impérative",
	"courant", "couramment", "fluent", "fluently", "maîtrise", "maitrise",
	"must", "erforderlich", "zwingend",
}

var optionalMarkers = []string{
	"atout", "un plus", "a plus", "plus appréciée", "apprécié", "appréciée",
	"souhaité", "souhaitée", "nice to have", "advantage", "bonus", "von vorteil",
}

// languageWindow is the number of characters inspected around a language token
// when deciding whether the phrasing is a hard requirement or an optional skill.
const languageWindow = 60

// Evaluate classifies an offer against the exclusion criteria. title and
// location are the structured draft fields; extra carries any further free
// text (keywords, notes, instructions) worth scanning.
func Evaluate(title, location string, extra ...string) Flags {
	joined := strings.ToLower(strings.Join(append([]string{title, location}, extra...), " "))

	return Flags{
		UnpaidOrInternship: isUnpaid(joined),
		OutsideRegion:      isOutsideRegion(strings.ToLower(location)),
		LanguageBarrier:    requiresDisallowedLanguage(joined),
	}
}

func isUnpaid(text string) bool {
	if containsToken(text, unpaidTokens) {
		return true
	}
	return containsAny(text, unpaidPhrases)
}

func isOutsideRegion(location string) bool {
	if strings.TrimSpace(location) == "" {
		return false
	}
	if containsAny(location, AllowedRegions) {
		return false
	}
	return containsAny(location, DeniedRegions)
}

// requiresDisallowedLanguage looks for a language mention with
// mandatory-requirement phrasing nearby. Optional phrasing ("un atout",
// "nice to have") in the same window wins over a mandatory marker, so
// "allemand courant un atout" does not exclude.
func requiresDisallowedLanguage(text string) bool {
	for _, lang := range languageTokens {
		idx := 0
		for {
			i := strings.Index(text[idx:], lang)
			if i < 0 {
				break
			}
			pos := idx + i
			start := pos - languageWindow
			if start < 0 {
				start = 0
			}
			end := pos + len(lang) + languageWindow
			if end > len(text) {
				end = len(text)
			}
			window := text[start:end]
			if !containsAny(window, optionalMarkers) && containsAny(window, mandatoryMarkers) {
				return true
			}
			idx = pos + len(lang)
		}
	}
	return false
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// containsToken matches whole words only. Tokenization keeps letters and
// digits (including accented letters) and splits on everything else.
func containsToken(text string, tokens []string) bool {
	set := tokenize(text)
	for _, tok := range tokens {
		if _, ok := set[tok]; ok {
			return true
		}
	}
	return false
}

func tokenize(text string) map[string]struct{} {
	var b strings.Builder
	for _, r := range text {
		if isWordRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	words := strings.Fields(b.String())
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

func isWordRune(r rune) bool {
	if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
		return true
	}
	// Accented Latin-1 letters (é, è, ô, ...) count as word runes so French
	// terms survive tokenization.
	return r >= 0xC0 && r <= 0xFF
}
