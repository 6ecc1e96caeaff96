package extract

import "strings"

// documentSynonyms maps canonical document names to the localized terms that
// announce them in offer text. Lookup order is fixed so the result list is
// deterministic.
var documentSynonyms = []struct {
	Canonical string
	Terms     []string
}{
	{"CV", []string{"cv", "curriculum vitae", "curriculum vitæ", "résumé", "resume"}},
	{"cover letter", []string{"cover letter", "lettre de motivation", "motivation letter", "lettre d'accompagnement", "motivational letter"}},
	{"certificates", []string{"certificats de travail", "certificat de travail", "work certificates", "certificates", "certificats"}},
	{"diploma", []string{"diplôme", "diplome", "diploma", "diplômes", "copies de diplômes"}},
	{"references", []string{"références", "references", "referees", "lettres de référence"}},
	{"photo", []string{"photo", "photographie", "photograph"}},
}

// InferDocuments returns the canonical names of every document the text asks
// for. When nothing matches the default is a bare CV — every application
// needs at least that.
func InferDocuments(text string) []string {
	lower := strings.ToLower(text)
	tokens := tokenSet(lower)

	var docs []string
	for _, entry := range documentSynonyms {
		for _, term := range entry.Terms {
			var hit bool
			if strings.ContainsAny(term, " '") {
				hit = strings.Contains(lower, term)
			} else {
				// Single-word terms match whole tokens only, so "cv" cannot
				// fire inside an unrelated word.
				_, hit = tokens[term]
			}
			if hit {
				docs = append(docs, entry.Canonical)
				break
			}
		}
	}
	if len(docs) == 0 {
		return []string{"CV"}
	}
	return docs
}

func tokenSet(lower string) map[string]struct{} {
	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r >= 0xC0 && r <= 0xFF:
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	out := make(map[string]struct{})
	for _, w := range strings.Fields(b.String()) {
		out[w] = struct{}{}
	}
	return out
}
