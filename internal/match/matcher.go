// Package match selects the dashboard record that corresponds to a local
// proof document. The matching key is a human-entered call/SMS date read
// through a noisy OCR channel, so the matcher tries every plausible date
// reading before declaring failure, bounded by the 183-day window and the
// telemarketer tie-break.
package match

import (
	"context"
	"fmt"
	"log/slog"

	"ndnc-verifier/internal/dashboard"
	"ndnc-verifier/internal/dates"
	"ndnc-verifier/internal/extract"
)

// Candidate pairs a passing record with its distance from the tried date.
type Candidate struct {
	Record   dashboard.Record
	DiffDays int
}

type Matcher struct {
	normalizer *dates.Normalizer
	logger     *slog.Logger
}

func NewMatcher(n *dates.Normalizer, logger *slog.Logger) *Matcher {
	if n == nil {
		n = dates.NewNormalizer(true)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{normalizer: n, logger: logger}
}

// FindMatch walks the document's date candidates in priority order,
// searching the dashboard by phone and keeping records inside the 183-day
// window. A telemarketer hint breaks ties exactly; otherwise the first
// passing record in displayed order wins. When every OCR date fails, the
// filename date is retried once on its own. nil means no match.
func (m *Matcher) FindMatch(ctx context.Context, facts extract.Facts, filename string, client dashboard.Client) (*dashboard.Record, error) {
	phone := facts.PrimaryPhone()
	if phone == "" {
		phone = extract.PhoneFromFilename(filename)
	}
	if phone == "" {
		m.logger.Warn("no phone candidate, cannot search", "file", filename)
		return nil, nil
	}
	hint := extract.TelemarketerFromFilename(filename)

	for i, raw := range facts.Dates {
		rec, err := m.tryDate(ctx, phone, raw, hint, client)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			m.logger.Info("matched complaint",
				"phone", phone, "date", raw, "attempt", i+1, "record", rec.ID)
			return rec, nil
		}
	}

	// Filename fallback: the download step names files from dashboard
	// data, so its date is more reliable than OCR when OCR fails outright.
	if fd := extract.DateFromFilename(filename); fd != "" {
		rec, err := m.tryDate(ctx, phone, fd, hint, client)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			m.logger.Info("matched complaint via filename date", "phone", phone, "date", fd, "record", rec.ID)
			return rec, nil
		}
	}

	m.logger.Info("no matching complaint", "phone", phone, "dates_tried", len(facts.Dates))
	return nil, nil
}

// tryDate runs one search-and-filter pass for a single date candidate.
func (m *Matcher) tryDate(ctx context.Context, phone, raw, hint string, client dashboard.Client) (*dashboard.Record, error) {
	want, ok := m.normalizer.Normalize(raw)
	if !ok {
		m.logger.Debug("unparseable date candidate skipped", "date", raw)
		return nil, nil
	}

	records, err := client.Search(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", phone, err)
	}

	var passing []Candidate
	for _, rec := range records {
		got, ok := m.normalizer.Normalize(rec.Date)
		if !ok {
			continue
		}
		diff := dates.DiffDays(want, got)
		if diff > dates.WindowDays {
			continue
		}
		if diff == 0 {
			m.logger.Debug("exact date match", "record", rec.ID, "date", rec.Date)
		}
		passing = append(passing, Candidate{Record: rec, DiffDays: diff})
	}

	switch {
	case len(passing) == 0:
		return nil, nil
	case len(passing) == 1:
		return &passing[0].Record, nil
	}

	if hint != "" {
		for i := range passing {
			if passing[i].Record.Telemarketer == hint {
				return &passing[i].Record, nil
			}
		}
		m.logger.Debug("no telemarketer match among candidates, using first",
			"hint", hint, "candidates", len(passing))
	}
	// Displayed order is the existing tie-break; kept for parity with the
	// dashboard operators already trust.
	return &passing[0].Record, nil
}
