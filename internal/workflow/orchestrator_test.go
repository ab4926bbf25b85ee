package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"ndnc-verifier/constants"
	"ndnc-verifier/internal/common"
	"ndnc-verifier/internal/dashboard"
	"ndnc-verifier/internal/extract"
	"ndnc-verifier/internal/intake"
	"ndnc-verifier/internal/match"
	"ndnc-verifier/internal/retry"
	"ndnc-verifier/internal/validate"
)

type fakeExtractor struct {
	facts   map[string]extract.Facts
	panicOn string
}

func (f *fakeExtractor) ExtractFacts(_ context.Context, path string) extract.Facts {
	name := filepath.Base(path)
	if name == f.panicOn {
		panic("extractor blew up")
	}
	return f.facts[name]
}

type fakeClient struct {
	mu sync.Mutex

	records     []dashboard.Record
	detail      dashboard.RecordDetail
	downloadDir string

	loginErr    error
	searchErr   error
	searchPanic bool
	uploadErr   error
	confirmErr  error
	downloadErr error

	searches  int
	uploads   []string
	confirms  []string
	downloads int
}

func (c *fakeClient) Login(context.Context) error { return c.loginErr }

func (c *fakeClient) Search(_ context.Context, phone string) ([]dashboard.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searches++
	if c.searchPanic {
		panic("dashboard page crashed")
	}
	if c.searchErr != nil {
		return nil, c.searchErr
	}
	return c.records, nil
}

func (c *fakeClient) Open(_ context.Context, rec dashboard.Record) (dashboard.RecordDetail, error) {
	d := c.detail
	if d.ID == "" {
		d.Record = rec
	}
	return d, nil
}

func (c *fakeClient) Download(_ context.Context, _ dashboard.RecordDetail) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.downloads++
	if c.downloadErr != nil {
		return "", c.downloadErr
	}
	path := filepath.Join(c.downloadDir, "remote.pdf")
	if err := os.WriteFile(path, []byte("remote"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (c *fakeClient) Upload(_ context.Context, detail dashboard.RecordDetail, localPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.uploadErr != nil {
		return c.uploadErr
	}
	c.uploads = append(c.uploads, filepath.Base(localPath))
	return nil
}

func (c *fakeClient) Confirm(_ context.Context, detail dashboard.RecordDetail) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.confirmErr != nil {
		return c.confirmErr
	}
	c.confirms = append(c.confirms, detail.ID)
	return nil
}

func (c *fakeClient) Status(context.Context, dashboard.RecordDetail) (constants.RecordStatus, error) {
	return constants.StatusOpen, nil
}

type recordingEmitter struct {
	mu       sync.Mutex
	statuses []string
}

func (e *recordingEmitter) Status(state string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statuses = append(e.statuses, state)
}
func (e *recordingEmitter) Log(string, ...any)       {}
func (e *recordingEmitter) Error(string, ...any)     {}
func (e *recordingEmitter) Stats(int, int)           {}
func (e *recordingEmitter) FileCounts(intake.Counts) {}

func (e *recordingEmitter) last() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.statuses) == 0 {
		return ""
	}
	return e.statuses[len(e.statuses)-1]
}

type testRig struct {
	orch    *Orchestrator
	folders *intake.Folders
	client  *fakeClient
	emitter *recordingEmitter
}

func newRig(t *testing.T, ex, deep *fakeExtractor, client *fakeClient) *testRig {
	t.Helper()
	root := t.TempDir()
	folders, err := intake.NewFolders(
		filepath.Join(root, "intake"), root, filepath.Join(root, "scratch"), nil)
	if err != nil {
		t.Fatal(err)
	}
	client.downloadDir = folders.ScratchDir()
	emitter := &recordingEmitter{}
	var deepEx extract.FactExtractor
	if deep != nil {
		deepEx = deep
	}
	orch, err := New(Deps{
		Extractor:     ex,
		DeepExtractor: deepEx,
		Matcher:       match.NewMatcher(nil, nil),
		Validator:     validate.NewValidator(nil, nil),
		Client:        client,
		Folders:       folders,
		Emitter:       emitter,
		Retry:         retry.Config{MaxAttempts: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	return &testRig{orch: orch, folders: folders, client: client, emitter: emitter}
}

func (r *testRig) addIntake(t *testing.T, name string) {
	t.Helper()
	path := filepath.Join(r.folders.IntakeDir(), name)
	if err := os.WriteFile(path, []byte("doc"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func bucketHas(t *testing.T, f *intake.Folders, b constants.Bucket, name string) bool {
	t.Helper()
	entries, err := os.ReadDir(f.BucketDir(b))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() == name {
			return true
		}
	}
	return false
}

const docName = "9876543210_1135047815_18-Dec-2025_Call1.pdf"

func goodFacts() extract.Facts {
	return extract.Facts{
		Phones:          []string{"9876543210"},
		Dates:           []string{"17 Dec 2025", "Invalid garbage"},
		BrandEvidence:   []string{"zomato"},
		HasAuthenticity: true,
	}
}

func matchingRecord() dashboard.Record {
	return dashboard.Record{
		ID:           "rec-1",
		Date:         "December 18, 2025",
		Telemarketer: "1135047815",
		Status:       constants.StatusOpen,
	}
}

func TestOpenWorkflowHappyPath(t *testing.T) {
	client := &fakeClient{records: []dashboard.Record{matchingRecord()}}
	rig := newRig(t, &fakeExtractor{facts: map[string]extract.Facts{docName: goodFacts()}}, nil, client)
	rig.addIntake(t, docName)

	summary, err := rig.orch.Execute(context.Background(), constants.WorkflowOpen)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if len(client.uploads) != 1 || client.uploads[0] != docName {
		t.Errorf("uploads = %v", client.uploads)
	}
	if len(client.confirms) != 1 {
		t.Errorf("confirms = %v", client.confirms)
	}
	if !bucketHas(t, rig.folders, constants.BucketProcessed, docName) {
		t.Error("document must land in the processed bucket")
	}
	if rig.emitter.last() != "finished" {
		t.Errorf("final status = %q", rig.emitter.last())
	}
}

func TestReviewPendingHappyPath(t *testing.T) {
	client := &fakeClient{
		records: []dashboard.Record{matchingRecord()},
		detail: dashboard.RecordDetail{
			Record:      func() dashboard.Record { r := matchingRecord(); r.HasDocument = true; return r }(),
			DocumentURL: "https://dashboard.example/doc/9876543210_18-Dec-2025.pdf",
		},
	}
	deep := &fakeExtractor{facts: map[string]extract.Facts{"remote.pdf": goodFacts()}}
	rig := newRig(t, &fakeExtractor{facts: map[string]extract.Facts{docName: goodFacts()}}, deep, client)
	rig.addIntake(t, docName)

	summary, err := rig.orch.Execute(context.Background(), constants.WorkflowReviewPending)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if client.downloads != 1 || len(client.confirms) != 1 {
		t.Errorf("downloads = %d, confirms = %v", client.downloads, client.confirms)
	}
	if !bucketHas(t, rig.folders, constants.BucketProcessed, docName) {
		t.Error("document must land in the processed bucket")
	}
	// The downloaded copy is scratch, not an outcome.
	if _, err := os.Stat(filepath.Join(rig.folders.ScratchDir(), "remote.pdf")); !os.IsNotExist(err) {
		t.Error("scratch download must be cleaned up")
	}
}

func TestReviewPendingAuthenticityFail(t *testing.T) {
	client := &fakeClient{
		records: []dashboard.Record{matchingRecord()},
		detail: dashboard.RecordDetail{
			Record:      func() dashboard.Record { r := matchingRecord(); r.HasDocument = true; return r }(),
			DocumentURL: "https://dashboard.example/doc/9876543210_18-Dec-2025.pdf",
		},
	}
	remote := goodFacts()
	remote.BrandEvidence = nil
	remote.HasAuthenticity = false
	deep := &fakeExtractor{facts: map[string]extract.Facts{"remote.pdf": remote}}
	rig := newRig(t, &fakeExtractor{facts: map[string]extract.Facts{docName: goodFacts()}}, deep, client)
	rig.addIntake(t, docName)

	summary, err := rig.orch.Execute(context.Background(), constants.WorkflowReviewPending)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Failed != 1 || summary.Processed != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if len(client.confirms) != 0 {
		t.Error("failing verdict must not confirm")
	}
	if !bucketHas(t, rig.folders, constants.BucketProcessedReview, docName) {
		t.Error("review_pending rejects go to processed_review")
	}
}

func TestNoMatchRoutesToRejectBucket(t *testing.T) {
	client := &fakeClient{} // no records at all
	rig := newRig(t, &fakeExtractor{facts: map[string]extract.Facts{docName: goodFacts()}}, nil, client)
	rig.addIntake(t, docName)

	summary, err := rig.orch.Execute(context.Background(), constants.WorkflowOpen)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if !bucketHas(t, rig.folders, constants.BucketNotVerified, docName) {
		t.Error("no-match documents go to not_verified")
	}
}

func TestSessionFatalAbortsRun(t *testing.T) {
	client := &fakeClient{
		searchErr: fmt.Errorf("%w: session expired", common.ErrSessionFatal),
	}
	rig := newRig(t, &fakeExtractor{facts: map[string]extract.Facts{docName: goodFacts()}}, nil, client)
	rig.addIntake(t, docName)

	_, err := rig.orch.Execute(context.Background(), constants.WorkflowOpen)
	if !common.IsSessionFatal(err) {
		t.Fatalf("want session fatal error, got %v", err)
	}
	// Outcome unknown, so the document stays queued for a re-run.
	if _, err := os.Stat(filepath.Join(rig.folders.IntakeDir(), docName)); err != nil {
		t.Error("document must remain in intake after a session failure")
	}
	if rig.emitter.last() != "failed" {
		t.Errorf("final status = %q", rig.emitter.last())
	}
}

func TestLoginFailureIsFatal(t *testing.T) {
	client := &fakeClient{loginErr: fmt.Errorf("otp timeout")}
	rig := newRig(t, &fakeExtractor{}, nil, client)

	_, err := rig.orch.Execute(context.Background(), constants.WorkflowOpen)
	if !common.IsSessionFatal(err) {
		t.Fatalf("login failure must be session fatal, got %v", err)
	}
}

func TestPanicBoundaryCountsFailureAndRelocates(t *testing.T) {
	client := &fakeClient{records: []dashboard.Record{matchingRecord()}}
	ex := &fakeExtractor{
		facts:   map[string]extract.Facts{docName: goodFacts()},
		panicOn: "broken.pdf",
	}
	rig := newRig(t, ex, nil, client)
	rig.addIntake(t, docName)
	rig.addIntake(t, "broken.pdf")

	summary, err := rig.orch.Execute(context.Background(), constants.WorkflowOpen)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if !bucketHas(t, rig.folders, constants.BucketNotVerified, "broken.pdf") {
		t.Error("panicking document must still be relocated")
	}
}

func TestPanicAfterExtractionKeepsPhone(t *testing.T) {
	client := &fakeClient{searchPanic: true}
	rig := newRig(t, &fakeExtractor{facts: map[string]extract.Facts{docName: goodFacts()}}, nil, client)

	res := rig.orch.processDocument(context.Background(),
		constants.WorkflowOpen, filepath.Join(rig.folders.IntakeDir(), docName))
	if !res.failed || res.state != constants.DocRejected {
		t.Fatalf("result = %+v", res)
	}
	if res.phone != "9876543210" {
		t.Errorf("disposition phone = %q, want the extracted complaint phone", res.phone)
	}
}

func TestTerminalRelocationExclusivity(t *testing.T) {
	client := &fakeClient{records: []dashboard.Record{matchingRecord()}}
	ex := &fakeExtractor{facts: map[string]extract.Facts{
		docName:     goodFacts(),
		"empty.pdf": {},
	}}
	rig := newRig(t, ex, nil, client)
	rig.addIntake(t, docName)
	rig.addIntake(t, "empty.pdf")

	if _, err := rig.orch.Execute(context.Background(), constants.WorkflowOpen); err != nil {
		t.Fatal(err)
	}

	counts := rig.folders.FileCounts()
	if counts.Intake != 0 {
		t.Errorf("intake must be drained, counts = %+v", counts)
	}
	total := counts.Processed + counts.ProcessedReview + counts.NotVerified
	if total != 2 {
		t.Errorf("every document must be in exactly one bucket, counts = %+v", counts)
	}
}

func TestStartRejectsUnknownKind(t *testing.T) {
	client := &fakeClient{}
	rig := newRig(t, &fakeExtractor{}, nil, client)
	if _, err := rig.orch.Start(context.Background(), constants.WorkflowKind("bogus")); err == nil {
		t.Fatal("unknown workflow kind must be rejected")
	}
}
