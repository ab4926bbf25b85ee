package extract

import (
	"regexp"
	"strings"
)

// Phone candidate shapes seen in proof documents. The country code "91"
// may prefix a bare run; formatted numbers carry parens, dashes or dots.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+91[-\s]?(\d{10})\b`),
	regexp.MustCompile(`\((\d{3})\)[-.\s]?(\d{3})[-.\s]?(\d{4})`),
	regexp.MustCompile(`\b(\d{3})-(\d{3})-(\d{4})\b`),
	regexp.MustCompile(`(?:91)?(\d{10})`),
}

// ExtractPhones unions every phone-shaped candidate in text, dropping
// anything that is not exactly 10 digits or that leads with "0000" (a
// recurring OCR false positive on form fields).
func ExtractPhones(text string) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(p string) {
		if len(p) != 10 || strings.HasPrefix(p, "0000") {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, re := range phonePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			add(strings.Join(m[1:], ""))
		}
	}
	return out
}

var rePhoneRun = regexp.MustCompile(`\d{10}`)

// PhoneFromFilename returns the first 10-digit run in a filename, the
// complaint phone assigned by the trusted download step.
func PhoneFromFilename(name string) string {
	return rePhoneRun.FindString(name)
}

// TelemarketerFromFilename returns the second 10-digit run in a filename,
// used as the tie-break hint when several records share a date window.
func TelemarketerFromFilename(name string) string {
	runs := rePhoneRun.FindAllString(name, 2)
	if len(runs) >= 2 {
		return runs[1]
	}
	return ""
}
