// Package dashboard defines the complaint-dashboard collaborator the core
// drives. The browser-automation implementation lives outside this module;
// the core sees only the Client interface plus a fixture-backed replay
// implementation for dry runs and tests.
package dashboard

import (
	"context"

	"ndnc-verifier/constants"
)

// Record is one complaint entry surfaced by a search. Records are
// ephemeral: enumerated fresh per search and never cached across
// documents, because the remote result set can shift between searches.
type Record struct {
	ID           string // opaque, page-scoped
	Date         string // displayed call/SMS date, e.g. "December 18, 2025"
	Telemarketer string // displayed telemarketer number
	Status       constants.RecordStatus
	HasDocument  bool
}

// RecordDetail is an opened record with its attached-document handle.
type RecordDetail struct {
	Record
	// DocumentURL is the attached document's access URL; its embedded
	// DD-Mon-YYYY timestamp is the validation date anchor.
	DocumentURL string
}

// Client is the dashboard collaborator contract. Every method is a network
// operation that may fail transiently; failures surface as errors (wrapped
// in common.ErrTransient or common.ErrSessionFatal), never as silent
// success.
type Client interface {
	// Login establishes the session. May block for minutes pending
	// interactive OTP entry.
	Login(ctx context.Context) error
	// Search returns the records visible for a phone-number query, in
	// displayed order.
	Search(ctx context.Context, phone string) ([]Record, error)
	// Open opens a record row and returns its detail view.
	Open(ctx context.Context, rec Record) (RecordDetail, error)
	// Download fetches the record's attached document into the scratch
	// area and returns its local path.
	Download(ctx context.Context, detail RecordDetail) (string, error)
	// Upload attaches a local proof document to the record.
	Upload(ctx context.Context, detail RecordDetail, localPath string) error
	// Confirm issues the verify/confirm action for the record.
	Confirm(ctx context.Context, detail RecordDetail) error
	// Status re-reads the record's displayed status.
	Status(ctx context.Context, detail RecordDetail) (constants.RecordStatus, error)
}
