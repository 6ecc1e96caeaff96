// Package dateutil works on calendar dates as YYYY-MM-DD strings. Comparisons
// and day arithmetic go through the Y-M-D components, never through parsing the
// raw string as a timestamp, so results do not shift across timezone or DST
// boundaries.
package dateutil

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// NoDeadlineDays is the numeric stand-in for "no deadline" used by callers
// that need a plain number (sorting, display). DaysUntil reports absence
// explicitly; this constant only exists for the DaysUntilOr convenience path.
const NoDeadlineDays = 999

var ymdPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)

// SplitYMD extracts the year, month and day components from a YYYY-MM-DD
// string, or the date portion of an ISO datetime. ok is false for empty or
// malformed input.
func SplitYMD(dateStr string) (year int, month time.Month, day int, ok bool) {
	m := ymdPattern.FindStringSubmatch(strings.TrimSpace(dateStr))
	if m == nil {
		return 0, 0, 0, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return 0, 0, 0, false
	}
	return y, time.Month(mo), d, true
}

// NormalizeISO reduces an ISO datetime (or a bare date) to its YYYY-MM-DD
// portion. Returns "" when the input carries no recognizable date.
func NormalizeISO(dateStr string) string {
	y, m, d, ok := SplitYMD(dateStr)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// DaysUntil returns the calendar-day difference between dateStr and today in
// the local calendar. Both sides are constructed at local midnight from their
// Y-M-D components; the difference is rounded up so a DST-shortened day still
// counts as one day. ok is false when the input holds no date, which every
// caller must treat as "no deadline".
func DaysUntil(dateStr string) (days int, ok bool) {
	return daysUntilAt(dateStr, time.Now())
}

func daysUntilAt(dateStr string, now time.Time) (int, bool) {
	y, m, d, ok := SplitYMD(dateStr)
	if !ok {
		return 0, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	target := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	diff := target.Sub(today)
	return int(math.Ceil(diff.Hours() / 24)), true
}

// DaysUntilOr is DaysUntil with a numeric fallback for absent deadlines.
func DaysUntilOr(dateStr string, fallback int) int {
	if days, ok := DaysUntil(dateStr); ok {
		return days
	}
	return fallback
}

// MatchesCalendarDay reports whether dateStr falls on the given calendar day.
// Both sides are normalized to YYYY-MM-DD strings and compared for equality;
// time.Time comparison is deliberately avoided so a date never drifts into the
// previous or next day under a different timezone offset.
func MatchesCalendarDay(dateStr string, year int, month time.Month, day int) bool {
	normalized := NormalizeISO(dateStr)
	if normalized == "" {
		return false
	}
	return normalized == fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var englishMonths = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// FormatForDisplay renders a Y-M-D string for the given locale ("fr" or "en").
// The date is anchored at local noon so DST transitions cannot push the
// rendered day across midnight. Empty or malformed input yields "".
func FormatForDisplay(dateStr, locale string) string {
	y, m, d, ok := SplitYMD(dateStr)
	if !ok {
		return ""
	}
	// Anchor at noon; only the calendar fields are read back below.
	t := time.Date(y, m, d, 12, 0, 0, 0, time.Local)

	if strings.HasPrefix(strings.ToLower(locale), "fr") {
		day := strconv.Itoa(t.Day())
		if t.Day() == 1 {
			day = "1er"
		}
		return fmt.Sprintf("%s %s %d", day, frenchMonths[t.Month()-1], t.Year())
	}
	return fmt.Sprintf("%s %d, %d", englishMonths[t.Month()-1], t.Day(), t.Year())
}
