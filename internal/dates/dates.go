// Package dates parses the many date renderings that show up in scanned
// proof documents and on the complaint dashboard, and implements the
// regulatory six-month proximity window.
package dates

import (
	"regexp"
	"strings"
	"time"
)

// WindowDays is the regulatory proximity window: a proof date within 183
// days (either direction) of a complaint date counts as a match.
const WindowDays = 183

var (
	reOrdinal    = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)
	reMultiSpace = regexp.MustCompile(`\s+`)
)

// StripOrdinals removes ordinal suffixes after a 1-2 digit day number:
// "17th Dec 2025" -> "17 Dec 2025".
func StripOrdinals(s string) string {
	return reOrdinal.ReplaceAllString(s, "$1")
}

// Normalizer parses date strings against a fixed, ordered layout list.
type Normalizer struct {
	// DayFirst controls how ambiguous numeric forms are read: true tries
	// DD/MM before MM/DD. The vendor's dashboard renders Indian-locale
	// dates, so day-first is the default.
	DayFirst bool

	layouts []string
}

// NewNormalizer builds a Normalizer with the given numeric-date preference.
func NewNormalizer(dayFirst bool) *Normalizer {
	return &Normalizer{DayFirst: dayFirst, layouts: layouts(dayFirst)}
}

// layouts returns the ordered parse attempts. Order only matters for the
// ambiguous numeric pairs; everything else is mutually exclusive.
func layouts(dayFirst bool) []string {
	numeric := []string{
		"2/1/2006", "1/2/2006",
		"2-1-2006", "1-2-2006",
		"2/1/06", "1/2/06",
		"2.1.2006", "1.2.2006",
		"2.1.06", "1.2.06",
	}
	if !dayFirst {
		for i := 0; i+1 < len(numeric); i += 2 {
			numeric[i], numeric[i+1] = numeric[i+1], numeric[i]
		}
	}
	out := []string{
		"2 Jan 2006",
		"2 January 2006",
		"2-Jan-2006",
		"2-January-2006",
		"2/Jan/2006",
		"2/Jan/06",
		"2-Jan-06",
		"2.Jan.2006",
		"2.Jan.06",
		"Jan 2, 2006",
		"January 2, 2006",
		"2006-1-2",
	}
	out = append(out, numeric...)
	out = append(out,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2 Jan 2006 15:04:05",
		"Jan 2, 2006 3:04:05 PM",
	)
	return out
}

// Normalize parses a raw date string into a calendar date. The boolean is
// false on total parse failure; callers treat that as "cannot be used for
// matching", not as an error.
func (n *Normalizer) Normalize(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	s = StripOrdinals(s)
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = strings.NewReplacer("_", "-").Replace(s)
	for _, layout := range n.layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncate(t), true
		}
	}
	return time.Time{}, false
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DiffDays returns the absolute whole-day difference between two dates.
func DiffDays(a, b time.Time) int {
	d := truncate(a).Sub(truncate(b)) / (24 * time.Hour)
	if d < 0 {
		d = -d
	}
	return int(d)
}

// WithinWindow reports whether two dates fall inside the 183-day window.
// Symmetric, and true for equal dates.
func WithinWindow(a, b time.Time) bool {
	return DiffDays(a, b) <= WindowDays
}
