package extract

import (
	"context"
	"time"
)

// Facts is the structured evidence pulled out of one document.
type Facts struct {
	// Phones are the unique 10-digit candidates in discovery order.
	Phones []string
	// Dates are raw date strings, most-specific first; the filename date
	// (when present) leads regardless of what OCR produced.
	Dates []string
	// BrandEvidence lists the matched URL/brand and receipt-vocabulary
	// tokens.
	BrandEvidence []string
	// HasAuthenticity is true when at least one brand/URL token was found.
	HasAuthenticity bool
	// RawText is the combined OCR corpus the facts were extracted from.
	RawText string

	Method   string
	Passes   int
	Duration time.Duration
	Warnings []string
}

// PrimaryPhone is the first (most confidently discovered) phone candidate.
func (f Facts) PrimaryPhone() string {
	if len(f.Phones) == 0 {
		return ""
	}
	return f.Phones[0]
}

// Empty reports whether extraction produced nothing usable for matching.
func (f Facts) Empty() bool {
	return len(f.Phones) == 0 && len(f.Dates) == 0 && !f.HasAuthenticity
}

// FactExtractor turns a document file into Facts. Implementations must not
// fail the caller: OCR-level errors degrade to empty Facts with warnings.
type FactExtractor interface {
	ExtractFacts(ctx context.Context, path string) Facts
}
