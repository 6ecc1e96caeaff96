package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Deadline formats found in the wild: numeric DD/MM/YYYY and DD.MM.YYYY, and
// spelled-out "15 mars 2026" / "15 March 2026". Anything else is reported as
// missing rather than guessed.

var (
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})[/.](\d{1,2})[/.](\d{4})\b`)
	namedDateRe   = regexp.MustCompile(`(?i)\b(\d{1,2})(?:er|st|nd|rd|th)?\s+([\p{L}]+)\.?\s+(\d{4})\b`)
)

var monthNames = map[string]int{
	// French
	"janvier": 1, "février": 2, "fevrier": 2, "mars": 3, "avril": 4,
	"mai": 5, "juin": 6, "juillet": 7, "août": 8, "aout": 8,
	"septembre": 9, "octobre": 10, "novembre": 11, "décembre": 12, "decembre": 12,
	// English
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
	// Common abbreviations shared by both
	"jan": 1, "feb": 2, "fév": 2, "fev": 2, "mar": 3, "apr": 4, "avr": 4,
	"jun": 6, "jul": 7, "juil": 7, "aug": 8, "sep": 9, "sept": 9,
	"oct": 10, "nov": 11, "dec": 12, "déc": 12,
}

// ParseDeadline normalizes a raw deadline string to ISO YYYY-MM-DD. The date
// may sit anywhere inside raw ("avant le 15 mars 2026"). ok is false when no
// recognizable date exists; callers then flag the deadline as missing instead
// of inventing one.
func ParseDeadline(raw string) (iso string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if m := numericDateRe.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return buildISO(year, month, day)
	}

	if m := namedDateRe.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, found := monthNames[strings.ToLower(m[2])]
		if !found {
			return "", false
		}
		year, _ := strconv.Atoi(m[3])
		return buildISO(year, month, day)
	}

	return "", false
}

func buildISO(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2200 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
