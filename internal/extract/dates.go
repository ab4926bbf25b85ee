package extract

import (
	"regexp"
	"sort"
	"strings"
)

const monthAbbrev = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`

// Date renderings seen across proof documents, most qualified shapes
// included. Matches are collected from every pattern and ranked afterwards.
var datePatterns = []*regexp.Regexp{
	// ISO timestamps: 2025-12-14T09:30:00 / 2025-12-14 09:30:00
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}\b`),
	// 14-Dec-2025 09:30:00
	regexp.MustCompile(`(?i)\b\d{1,2}-(?:` + monthAbbrev + `)-\d{4} \d{2}:\d{2}:\d{2}\b`),
	// December 14, 2025 9:30:00 AM
	regexp.MustCompile(`(?i)\b(?:` + monthAbbrev + `)[a-z]* \d{1,2}, \d{4} \d{1,2}:\d{2}:\d{2} [AP]M\b`),
	// 17th Dec 2025, 3 Dec 2025
	regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:` + monthAbbrev + `)[a-z]*\s+\d{4}\b`),
	// 14-Dec-2025, 15 December 2025, 14_Dec_2025
	regexp.MustCompile(`\b\d{1,2}[-/\s_][A-Za-z]{3,9}[-/\s_]\d{4}\b`),
	// 14-Dec-25, 14_Dec_25
	regexp.MustCompile(`\b\d{1,2}[-/\s_][A-Za-z]{3,9}[-/\s_]\d{2}\b`),
	// December 14, 2025
	regexp.MustCompile(`\b[A-Za-z]{3,9}\s+\d{1,2},?\s+\d{4}\b`),
	// 14/12/2025, 14.12.2025, 14-12-2025
	regexp.MustCompile(`\b\d{1,2}[-/.]\d{1,2}[-/.]\d{4}\b`),
	// 2025-12-14, 2025.12.14
	regexp.MustCompile(`\b\d{4}[-/.]\d{1,2}[-/.]\d{1,2}\b`),
	// 14/12/25
	regexp.MustCompile(`\b\d{1,2}[/.]\d{1,2}[/.]\d{2}\b`),
}

var reMultiWS = regexp.MustCompile(`\s+`)

// ExtractDates collects every date-shaped string in text, de-duplicated in
// discovery order and then ranked longest-first: longer strings tend to be
// the more complete readings of the same date.
func ExtractDates(text string) []string {
	seen := map[string]struct{}{}
	var found []string
	for _, re := range datePatterns {
		for _, m := range re.FindAllString(text, -1) {
			d := reMultiWS.ReplaceAllString(strings.TrimSpace(m), " ")
			if len(d) < 6 {
				continue
			}
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			found = append(found, d)
		}
	}
	// Stable so equal-length candidates keep discovery order and repeated
	// extraction stays deterministic.
	sort.SliceStable(found, func(i, j int) bool { return len(found[i]) > len(found[j]) })
	return found
}

var reFilenameDate = regexp.MustCompile(`\d{1,2}-[A-Za-z]{3}-\d{4}`)

// DateFromFilename returns the DD-Mon-YYYY date embedded in a filename by
// the trusted download step, or "".
func DateFromFilename(name string) string {
	return reFilenameDate.FindString(name)
}
