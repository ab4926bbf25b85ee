// Package workflow orchestrates one batch run: extract facts from each
// intake document, match it to a dashboard complaint, act on the record
// per the workflow kind, and file the document into exactly one terminal
// bucket. Documents are processed strictly sequentially because the
// dashboard session is a serially-reusable, non-shareable resource.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ndnc-verifier/constants"
	"ndnc-verifier/internal/audit"
	"ndnc-verifier/internal/common"
	"ndnc-verifier/internal/dashboard"
	"ndnc-verifier/internal/extract"
	"ndnc-verifier/internal/intake"
	"ndnc-verifier/internal/match"
	"ndnc-verifier/internal/retry"
	"ndnc-verifier/internal/strategy"
	"ndnc-verifier/internal/validate"
)

// RunSummary reports a completed batch's totals.
type RunSummary struct {
	Processed int
	Failed    int
}

// Deps collects the orchestrator's collaborators.
type Deps struct {
	// Extractor handles intake documents.
	Extractor extract.FactExtractor
	// DeepExtractor handles downloaded dashboard documents; it should run
	// OCR even when a text layer exists. Falls back to Extractor when nil.
	DeepExtractor extract.FactExtractor
	Matcher       *match.Matcher
	Validator     *validate.Validator
	Client        dashboard.Client
	Folders       *intake.Folders
	// Store is the optional audit sink.
	Store   *audit.Store
	Emitter Emitter
	Retry   retry.Config
	Logger  *slog.Logger
}

type Orchestrator struct {
	extractor     extract.FactExtractor
	deepExtractor extract.FactExtractor
	matcher       *match.Matcher
	validator     *validate.Validator
	client        dashboard.Client
	folders       *intake.Folders
	store         *audit.Store
	emitter       Emitter
	logger        *slog.Logger
}

func New(d Deps) (*Orchestrator, error) {
	if d.Extractor == nil || d.Matcher == nil || d.Validator == nil ||
		d.Client == nil || d.Folders == nil {
		return nil, fmt.Errorf("%w: missing orchestrator dependency", common.ErrInvalidInput)
	}
	if d.DeepExtractor == nil {
		d.DeepExtractor = d.Extractor
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Emitter == nil {
		d.Emitter = NewLogEmitter(d.Logger)
	}
	if d.Retry.MaxAttempts == 0 {
		d.Retry = retry.DefaultConfig()
	}
	d.Retry.Logger = d.Logger
	return &Orchestrator{
		extractor:     d.Extractor,
		deepExtractor: d.DeepExtractor,
		matcher:       d.Matcher,
		validator:     d.Validator,
		client:        withRetries(d.Client, d.Retry),
		folders:       d.Folders,
		store:         d.Store,
		emitter:       d.Emitter,
		logger:        d.Logger,
	}, nil
}

// Run is one batch execution with its control handle.
type Run struct {
	ID        string
	Kind      constants.WorkflowKind
	StartedAt time.Time

	*Handle

	done    chan struct{}
	summary RunSummary
	err     error
}

// Wait blocks until the run finishes and returns its summary. The error
// is non-nil only for session-fatal or context failures; per-document
// failures are counted, not propagated.
func (r *Run) Wait() (RunSummary, error) {
	<-r.done
	return r.summary, r.err
}

// Start launches a batch run on a background goroutine and returns its
// control handle immediately.
func (o *Orchestrator) Start(ctx context.Context, kind constants.WorkflowKind) (*Run, error) {
	if kind != constants.WorkflowOpen && kind != constants.WorkflowReviewPending {
		return nil, fmt.Errorf("%w: unknown workflow kind %q", common.ErrInvalidInput, kind)
	}
	r := &Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		StartedAt: time.Now().UTC(),
		Handle:    newHandle(),
		done:      make(chan struct{}),
	}
	go o.run(ctx, r)
	return r, nil
}

// Execute runs a batch synchronously.
func (o *Orchestrator) Execute(ctx context.Context, kind constants.WorkflowKind) (RunSummary, error) {
	r, err := o.Start(ctx, kind)
	if err != nil {
		return RunSummary{}, err
	}
	return r.Wait()
}

func (o *Orchestrator) run(ctx context.Context, r *Run) {
	defer close(r.done)

	o.emitter.Status("starting")
	if o.store != nil {
		if err := o.store.BeginRun(ctx, r.ID, r.Kind); err != nil {
			o.logger.Warn("audit begin failed", "error", err)
		}
	}
	defer func() {
		if o.store != nil {
			if err := o.store.FinishRun(context.WithoutCancel(ctx), r.ID, r.summary.Processed, r.summary.Failed); err != nil {
				o.logger.Warn("audit finish failed", "error", err)
			}
		}
		o.emitter.Stats(r.summary.Processed, r.summary.Failed)
		switch {
		case errors.Is(r.err, ErrStopped):
			r.err = nil
			o.emitter.Status("stopped")
		case r.err != nil:
			o.emitter.Error("run failed", "run_id", r.ID, "error", r.err)
			o.emitter.Status("failed")
		default:
			o.emitter.Status("finished")
		}
	}()

	// Login is session-affecting, so the stop/pause handle is honored
	// before it.
	if err := r.checkpoint(ctx); err != nil {
		r.err = err
		return
	}
	if err := o.client.Login(ctx); err != nil {
		if !errors.Is(err, common.ErrSessionFatal) {
			err = fmt.Errorf("%w: login: %v", common.ErrSessionFatal, err)
		}
		r.err = err
		return
	}

	files, err := o.folders.ListIntake()
	if err != nil {
		r.err = err
		return
	}
	o.emitter.Log("batch enumerated", "run_id", r.ID, "kind", string(r.Kind), "files", len(files))
	o.emitter.FileCounts(o.folders.FileCounts())
	o.emitter.Status("running")

	for _, path := range files {
		if err := r.checkpoint(ctx); err != nil {
			r.err = err
			return
		}

		res := o.processDocument(ctx, r.Kind, path)
		if res.fatal != nil {
			// The document stays in intake: with the session gone its
			// outcome is unknown and it must be re-run, not filed.
			r.err = res.fatal
			return
		}

		if _, err := o.folders.MoveToBucket(path, res.bucket); err != nil {
			o.emitter.Error("bucket relocation failed", "file", filepath.Base(path), "error", err)
			res.failed = true
		}
		if res.failed {
			r.summary.Failed++
		} else {
			r.summary.Processed++
		}

		o.emitter.Log("document disposed",
			"file", filepath.Base(path),
			"state", string(res.state),
			"bucket", string(res.bucket),
			"detail", res.detail,
		)
		if o.store != nil {
			if err := o.store.RecordDisposition(ctx, audit.Disposition{
				RunID:  r.ID,
				File:   filepath.Base(path),
				Phone:  res.phone,
				State:  res.state,
				Bucket: res.bucket,
				Detail: res.detail,
			}); err != nil {
				o.logger.Warn("audit disposition failed", "error", err)
			}
		}
		o.emitter.Stats(r.summary.Processed, r.summary.Failed)
		o.emitter.FileCounts(o.folders.FileCounts())
	}
}

// docResult is one document's terminal outcome.
type docResult struct {
	state  constants.DocState
	bucket constants.Bucket
	phone  string
	detail string
	failed bool
	fatal  error
}

func reject(kind constants.WorkflowKind, state constants.DocState, phone, detail string) docResult {
	return docResult{
		state:  state,
		bucket: constants.RejectBucketFor(kind),
		phone:  phone,
		detail: detail,
		failed: true,
	}
}

// processDocument runs one document through the per-kind pipeline. All
// panics and per-document errors terminate in a rejection result; only
// session-fatal errors escape via the fatal field.
func (o *Orchestrator) processDocument(ctx context.Context, kind constants.WorkflowKind, path string) (res docResult) {
	name := filepath.Base(path)
	// Declared ahead of the recover closure so a panic after extraction
	// still files the disposition under the complaint phone.
	var phone string
	defer func() {
		if p := recover(); p != nil {
			o.logger.Error("document pipeline panicked", "file", name, "panic", p)
			res = reject(kind, constants.DocRejected, phone, fmt.Sprintf("unexpected failure: %v", p))
		}
	}()

	facts := o.extractor.ExtractFacts(ctx, path)
	phone = facts.PrimaryPhone()
	if phone == "" {
		phone = extract.PhoneFromFilename(name)
	}
	if facts.Empty() {
		return reject(kind, constants.DocExtractionEmpty, phone, "extraction produced no phones, dates, or evidence")
	}

	rec, err := o.matcher.FindMatch(ctx, facts, name, o.client)
	if err != nil {
		return o.clientFailure(kind, "search", phone, err)
	}
	if rec == nil {
		return reject(kind, constants.DocNoMatch, phone, "no matching complaint found")
	}

	detail, err := o.client.Open(ctx, *rec)
	if err != nil {
		return o.clientFailure(kind, "open record", phone, err)
	}

	switch kind {
	case constants.WorkflowOpen:
		return o.processOpen(ctx, detail, path, phone)
	default:
		return o.processReviewPending(ctx, detail, phone)
	}
}

// processOpen attaches the local proof to an open complaint and confirms.
func (o *Orchestrator) processOpen(ctx context.Context, detail dashboard.RecordDetail, path, phone string) docResult {
	if err := o.client.Upload(ctx, detail, path); err != nil {
		return o.clientFailure(constants.WorkflowOpen, "upload", phone, err)
	}
	if err := o.client.Confirm(ctx, detail); err != nil {
		return o.clientFailure(constants.WorkflowOpen, "confirm", phone, err)
	}
	if status, err := o.client.Status(ctx, detail); err == nil {
		o.logger.Info("record status after confirm", "record", detail.ID, "status", string(status))
	}
	return docResult{
		state:  constants.DocConfirmed,
		bucket: constants.BucketProcessed,
		phone:  phone,
		detail: "proof uploaded and confirmed",
	}
}

// processReviewPending downloads the record's attached document,
// re-extracts it with OCR forced on, and confirms only on a passing
// verdict.
func (o *Orchestrator) processReviewPending(ctx context.Context, detail dashboard.RecordDetail, phone string) docResult {
	const kind = constants.WorkflowReviewPending
	if !detail.HasDocument {
		return reject(kind, constants.DocValidationFailed, phone, "record has no attached document")
	}

	local, err := o.client.Download(ctx, detail)
	if err != nil {
		return o.clientFailure(kind, "download", phone, err)
	}
	defer o.folders.RemoveScratch(local)

	docFacts := o.deepExtractor.ExtractFacts(ctx, local)
	anchor := o.deriveAnchor(ctx, detail)
	verdict := o.validator.Validate(docFacts, phone, anchor)

	if !verdict.Overall() {
		var parts []string
		for _, c := range verdict.Checks() {
			if !c.Passed {
				parts = append(parts, c.Name+": "+c.Detail)
			}
		}
		return reject(kind, constants.DocValidationFailed, phone, strings.Join(parts, "; "))
	}

	if err := o.client.Confirm(ctx, detail); err != nil {
		return o.clientFailure(kind, "confirm", phone, err)
	}
	return docResult{
		state:  constants.DocConfirmed,
		bucket: constants.BucketProcessed,
		phone:  phone,
		detail: "all checks passed, complaint confirmed",
	}
}

// deriveAnchor picks the validation date anchor: the DD-Mon-YYYY stamp
// embedded in the document's access URL beats the displayed record date,
// because the URL stamp is generated, not typed. An empty anchor makes
// the verdict indeterminate downstream.
func (o *Orchestrator) deriveAnchor(ctx context.Context, detail dashboard.RecordDetail) string {
	res, err := strategy.First(ctx, []strategy.Strategy[string]{
		{Name: "document-url", Run: func(context.Context) (string, error) {
			if d := extract.DateFromFilename(detail.DocumentURL); d != "" {
				return d, nil
			}
			return "", errors.New("no date stamp in document URL")
		}},
		{Name: "record-date", Run: func(context.Context) (string, error) {
			if detail.Date != "" {
				return detail.Date, nil
			}
			return "", errors.New("record has no displayed date")
		}},
	})
	if err != nil {
		o.logger.Warn("no date anchor available", "record", detail.ID)
		return ""
	}
	o.logger.Debug("date anchor derived", "record", detail.ID, "source", res.Strategy)
	return res.Value
}

func (o *Orchestrator) clientFailure(kind constants.WorkflowKind, stage, phone string, err error) docResult {
	if common.IsSessionFatal(err) {
		return docResult{fatal: fmt.Errorf("%s: %w", stage, err)}
	}
	return reject(kind, constants.DocRejected, phone, fmt.Sprintf("%s failed: %v", stage, err))
}
