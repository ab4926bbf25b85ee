// Package validate renders the authenticity verdict for a matched
// dashboard document. Three independent checks; the overall verdict is
// their conjunction.
package validate

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"ndnc-verifier/internal/dates"
	"ndnc-verifier/internal/extract"
)

// Check is one named validation outcome with its operator-facing detail.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Verdict is the immutable result of validating one document.
type Verdict struct {
	Authenticity Check
	Phone        Check
	Date         Check
	// Indeterminate is set when the record's date anchor could not be
	// parsed: the date check could not be evaluated and the document
	// needs manual review. An indeterminate verdict never passes.
	Indeterminate bool
}

// Overall is the conjunction of the three checks.
func (v Verdict) Overall() bool {
	return v.Authenticity.Passed && v.Phone.Passed && v.Date.Passed
}

// Checks returns the three checks in reporting order.
func (v Verdict) Checks() []Check {
	return []Check{v.Authenticity, v.Phone, v.Date}
}

// FailedNames lists the names of failing checks.
func (v Verdict) FailedNames() []string {
	var out []string
	for _, c := range v.Checks() {
		if !c.Passed {
			out = append(out, c.Name)
		}
	}
	return out
}

type Validator struct {
	normalizer *dates.Normalizer
	logger     *slog.Logger
}

func NewValidator(n *dates.Normalizer, logger *slog.Logger) *Validator {
	if n == nil {
		n = dates.NewNormalizer(true)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{normalizer: n, logger: logger}
}

// Validate checks the remote document's extracted facts against the
// complaint: brand/URL evidence present, expected phone present, and at
// least one document date within 183 days of the record's date anchor
// (the DD-Mon-YYYY timestamp in the document's access URL — more reliable
// than OCR body text). Details are always populated for the audit log.
func (v *Validator) Validate(docFacts extract.Facts, expectedPhone, anchor string) Verdict {
	verdict := Verdict{
		Authenticity: v.checkAuthenticity(docFacts),
		Phone:        v.checkPhone(docFacts, expectedPhone),
	}
	verdict.Date, verdict.Indeterminate = v.checkDate(docFacts, anchor)

	for _, c := range verdict.Checks() {
		v.logger.Info("validation check",
			"check", c.Name, "passed", c.Passed, "detail", c.Detail)
	}
	return verdict
}

// checkAuthenticity is the primary anti-fraud check: anyone can attach an
// unrelated scanned page, so zero brand/URL evidence is a hard fail.
func (v *Validator) checkAuthenticity(f extract.Facts) Check {
	if f.HasAuthenticity {
		return Check{
			Name:   "Authenticity",
			Passed: true,
			Detail: "found: " + strings.Join(f.BrandEvidence, ", "),
		}
	}
	return Check{Name: "Authenticity", Passed: false, Detail: "no URL/logo evidence in document"}
}

// checkPhone is exact 10-digit membership; a different phone means the
// wrong document was attached.
func (v *Validator) checkPhone(f extract.Facts, expected string) Check {
	if slices.Contains(f.Phones, expected) {
		return Check{Name: "Phone", Passed: true, Detail: "matched: " + expected}
	}
	detail := fmt.Sprintf("expected %s, found %v", expected, f.Phones)
	if len(f.Phones) == 0 {
		detail = fmt.Sprintf("expected %s, no phone numbers in document", expected)
	}
	return Check{Name: "Phone", Passed: false, Detail: detail}
}

func (v *Validator) checkDate(f extract.Facts, anchor string) (Check, bool) {
	anchorDate, ok := v.normalizer.Normalize(anchor)
	if !ok {
		return Check{
			Name:   "Date",
			Passed: false,
			Detail: fmt.Sprintf("date anchor %q unparseable; manual review required", anchor),
		}, true
	}
	if len(f.Dates) == 0 {
		return Check{Name: "Date", Passed: false, Detail: "no dates found in document"}, false
	}
	for _, raw := range f.Dates {
		d, ok := v.normalizer.Normalize(raw)
		if !ok {
			continue
		}
		if diff := dates.DiffDays(d, anchorDate); diff <= dates.WindowDays {
			return Check{
				Name:   "Date",
				Passed: true,
				Detail: fmt.Sprintf("matched %q, %d days from anchor %s", raw, diff, anchor),
			}, false
		}
	}
	return Check{
		Name:   "Date",
		Passed: false,
		Detail: fmt.Sprintf("no document date within %d days of anchor %s", dates.WindowDays, anchor),
	}, false
}
