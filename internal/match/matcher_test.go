package match

import (
	"context"
	"errors"
	"testing"

	"ndnc-verifier/constants"
	"ndnc-verifier/internal/dashboard"
	"ndnc-verifier/internal/extract"
)

// fakeClient serves canned search results; only Search matters here.
type fakeClient struct {
	records  []dashboard.Record
	searches int
	err      error
}

func (f *fakeClient) Login(context.Context) error { return nil }
func (f *fakeClient) Search(_ context.Context, phone string) ([]dashboard.Record, error) {
	f.searches++
	return f.records, f.err
}
func (f *fakeClient) Open(_ context.Context, r dashboard.Record) (dashboard.RecordDetail, error) {
	return dashboard.RecordDetail{Record: r}, nil
}
func (f *fakeClient) Download(context.Context, dashboard.RecordDetail) (string, error) {
	return "", nil
}
func (f *fakeClient) Upload(context.Context, dashboard.RecordDetail, string) error { return nil }
func (f *fakeClient) Confirm(context.Context, dashboard.RecordDetail) error        { return nil }
func (f *fakeClient) Status(context.Context, dashboard.RecordDetail) (constants.RecordStatus, error) {
	return constants.StatusOpen, nil
}

func facts(dates ...string) extract.Facts {
	return extract.Facts{Phones: []string{"9876543210"}, Dates: dates}
}

func TestFindMatchFirstDateCandidate(t *testing.T) {
	client := &fakeClient{records: []dashboard.Record{
		{ID: "r1", Date: "December 18, 2025", Telemarketer: "1135047815"},
	}}
	m := NewMatcher(nil, nil)
	rec, err := m.FindMatch(context.Background(), facts("17 Dec 2025", "Invalid garbage"),
		"9876543210_18-Dec-2025_Call1.pdf", client)
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil || rec.ID != "r1" {
		t.Fatalf("got %v, want r1", rec)
	}
	if client.searches != 1 {
		t.Errorf("searched %d times, want 1", client.searches)
	}
}

func TestFindMatchSkipsUnparseableAndOutOfWindow(t *testing.T) {
	client := &fakeClient{records: []dashboard.Record{
		{ID: "far", Date: "January 1, 2020"},
		{ID: "near", Date: "November 30, 2025"},
	}}
	m := NewMatcher(nil, nil)
	rec, err := m.FindMatch(context.Background(), facts("garbage", "17 Dec 2025"), "file.pdf", client)
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil || rec.ID != "near" {
		t.Fatalf("got %v, want near", rec)
	}
}

func TestFindMatchTelemarketerTieBreak(t *testing.T) {
	client := &fakeClient{records: []dashboard.Record{
		{ID: "first", Date: "December 17, 2025", Telemarketer: "1112223334"},
		{ID: "hinted", Date: "December 18, 2025", Telemarketer: "1135047815"},
	}}
	m := NewMatcher(nil, nil)
	rec, err := m.FindMatch(context.Background(), facts("17 Dec 2025"),
		"9876543210_1135047815_18-Dec-2025_Call1.pdf", client)
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil || rec.ID != "hinted" {
		t.Fatalf("got %v, want hinted", rec)
	}
}

func TestFindMatchTieBreakFallsBackToFirst(t *testing.T) {
	client := &fakeClient{records: []dashboard.Record{
		{ID: "first", Date: "December 17, 2025", Telemarketer: "0001112223"},
		{ID: "second", Date: "December 18, 2025", Telemarketer: "0001112224"},
	}}
	m := NewMatcher(nil, nil)
	rec, err := m.FindMatch(context.Background(), facts("17 Dec 2025"),
		"9876543210_9998887776_18-Dec-2025.pdf", client)
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil || rec.ID != "first" {
		t.Fatalf("got %v, want first (displayed order)", rec)
	}
}

func TestFindMatchFilenameFallback(t *testing.T) {
	client := &fakeClient{records: []dashboard.Record{
		{ID: "r1", Date: "December 18, 2025"},
	}}
	m := NewMatcher(nil, nil)
	// All OCR dates unusable; only the filename date can match.
	rec, err := m.FindMatch(context.Background(), facts("smudge", "99/99/9999"),
		"9876543210_18-Dec-2025_Call1.pdf", client)
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil || rec.ID != "r1" {
		t.Fatalf("filename fallback failed, got %v", rec)
	}
}

func TestFindMatchExhaustionReturnsNil(t *testing.T) {
	client := &fakeClient{records: []dashboard.Record{
		{ID: "r1", Date: "January 1, 2020"},
	}}
	m := NewMatcher(nil, nil)
	rec, err := m.FindMatch(context.Background(), facts("17 Dec 2025"),
		"9876543210_18-Dec-2025.pdf", client)
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Fatalf("got %v, want nil", rec)
	}
}

func TestFindMatchPropagatesSearchError(t *testing.T) {
	boom := errors.New("session expired")
	client := &fakeClient{err: boom}
	m := NewMatcher(nil, nil)
	_, err := m.FindMatch(context.Background(), facts("17 Dec 2025"), "f.pdf", client)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped search error", err)
	}
}
