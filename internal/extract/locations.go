package extract

import "strings"

// knownLocations anchors the separator-line heuristic: in a "left SEP right"
// line, the side containing one of these tokens is taken as the location.
// Mostly Swiss romandie cities plus the generic remote markers that show up
// in job-alert digests.
var knownLocations = []string{
	"genève", "geneve", "geneva", "carouge", "vernier", "lancy", "meyrin",
	"plan-les-ouates", "versoix", "thônex", "onex",
	"lausanne", "nyon", "morges", "gland", "rolle", "vevey", "montreux",
	"renens", "yverdon", "pully", "aubonne",
	"fribourg", "bulle", "sion", "sierre", "martigny", "monthey",
	"neuchâtel", "neuchatel", "la chaux-de-fonds", "delémont",
	"zurich", "zürich", "bern", "berne", "basel", "bâle", "lucerne",
	"zug", "winterthur", "lugano", "st. gallen",
	"suisse", "switzerland", "schweiz", "romandie",
	"remote", "télétravail", "teletravail", "hybrid", "hybride",
	"france", "annecy", "annemasse", "lyon", "paris",
}

// looksLikeLocation reports whether the string contains a known city/region
// token. Comparison is case-insensitive.
func looksLikeLocation(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "" {
		return false
	}
	for _, loc := range knownLocations {
		if strings.Contains(lower, loc) {
			return true
		}
	}
	return false
}
