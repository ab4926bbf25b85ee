// Package extract turns a proof document into structured Facts: phone
// candidates, ranked date candidates, and brand/URL evidence.
package extract

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"

	"ndnc-verifier/internal/ocr"
)

// TextEngine is the OCR layer the extractor sits on.
type TextEngine interface {
	Extract(ctx context.Context, path string) (ocr.Result, error)
}

type Extractor struct {
	engine TextEngine
	logger *slog.Logger
}

func NewExtractor(engine TextEngine, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{engine: engine, logger: logger}
}

// ExtractFacts runs the OCR corpus through the fact regexes. It never
// fails the caller: an OCR-level error is logged and degrades to empty
// Facts, which downstream matching and validation reject with informative
// details.
func (e *Extractor) ExtractFacts(ctx context.Context, path string) Facts {
	res, err := e.engine.Extract(ctx, path)
	if err != nil {
		e.logger.Warn("extraction degraded to empty facts", "path", path, "error", err)
		return Facts{Warnings: append(res.Warnings, err.Error())}
	}

	facts := Facts{
		RawText:  res.Text,
		Method:   res.Method,
		Passes:   res.Passes,
		Duration: res.Duration,
		Warnings: res.Warnings,
	}
	facts.Phones = ExtractPhones(res.Text)
	facts.Dates = ExtractDates(res.Text)
	facts.BrandEvidence = ExtractBrandEvidence(res.Text)
	facts.HasAuthenticity = len(facts.BrandEvidence) > 0

	// The filename date comes from the trusted download step and doubles
	// as the matching anchor when body-text OCR fails, so it outranks
	// every OCR reading.
	if fd := DateFromFilename(filepath.Base(path)); fd != "" && !slices.Contains(facts.Dates, fd) {
		facts.Dates = append([]string{fd}, facts.Dates...)
	}

	e.logger.Info("facts extracted",
		"path", filepath.Base(path),
		"phones", len(facts.Phones),
		"dates", len(facts.Dates),
		"brand_tokens", len(facts.BrandEvidence),
		"method", res.Method,
		"passes", res.Passes,
	)
	return facts
}
