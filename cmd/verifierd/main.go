package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ndnc-verifier/constants"
	"ndnc-verifier/internal/audit"
	"ndnc-verifier/internal/common"
	"ndnc-verifier/internal/dashboard"
	"ndnc-verifier/internal/dates"
	"ndnc-verifier/internal/extract"
	"ndnc-verifier/internal/intake"
	"ndnc-verifier/internal/match"
	"ndnc-verifier/internal/ocr"
	"ndnc-verifier/internal/report"
	"ndnc-verifier/internal/retry"
	"ndnc-verifier/internal/validate"
	"ndnc-verifier/internal/workflow"
)

func main() {
	var (
		kindFlag = flag.String("workflow", "review_pending", "workflow kind: open | review_pending")
		watch    = flag.Bool("watch", false, "keep running and re-process when new documents arrive")
		monthFmt = flag.Bool("monthfirst", false, "parse ambiguous numeric dates as MM/DD instead of DD/MM")
		manifest = flag.String("manifest", "", "optional complaint workbook to reconcile against intake before running")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	kind := constants.WorkflowKind(*kindFlag)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	folders, err := intake.NewFolders(cfg.Paths.IntakeDir, cfg.Paths.OutcomeDir, cfg.Paths.ScratchDir, logger)
	if err != nil {
		logger.Error("failed to prepare folders", "error", err)
		os.Exit(1)
	}

	if cfg.Dashboard.FixturePath == "" {
		logger.Error("DASHBOARD_FIXTURE is required; the live dashboard client is wired externally")
		os.Exit(1)
	}
	client, err := dashboard.NewReplayClient(cfg.Dashboard.FixturePath, cfg.Paths.ScratchDir, logger)
	if err != nil {
		logger.Error("failed to load dashboard fixture", "error", err)
		os.Exit(1)
	}

	store, err := audit.Open(cfg.Audit.DBPath, logger)
	if err != nil {
		logger.Error("failed to open audit store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("audit store close", "error", err)
		}
	}()

	ocrCfg := ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}
	deepCfg := ocrCfg
	deepCfg.AlwaysOCR = true

	normalizer := dates.NewNormalizer(!*monthFmt)
	orch, err := workflow.New(workflow.Deps{
		Extractor:     extract.NewExtractor(ocr.NewEngine(ocrCfg, logger), logger),
		DeepExtractor: extract.NewExtractor(ocr.NewEngine(deepCfg, logger), logger),
		Matcher:       match.NewMatcher(normalizer, logger),
		Validator:     validate.NewValidator(normalizer, logger),
		Client:        client,
		Folders:       folders,
		Store:         store,
		Retry: retry.Config{
			MaxAttempts: cfg.Dashboard.MaxRetries,
			Logger:      logger,
		},
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to build orchestrator", "error", err)
		os.Exit(1)
	}

	if *manifest != "" {
		if err := reconcileManifest(*manifest, folders, logger); err != nil {
			logger.Error("manifest reconciliation failed", "error", err)
			os.Exit(1)
		}
	}

	runOnce := func() bool {
		summary, err := orch.Execute(ctx, kind)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return false
			}
			logger.Error("run failed", "error", err)
			return false
		}
		logger.Info("run complete", "processed", summary.Processed, "failed", summary.Failed)
		return true
	}

	if !*watch {
		if !runOnce() {
			os.Exit(1)
		}
		return
	}

	events, watchErrs, err := intake.StartWatcher(ctx, intake.WatchConfig{
		Roots:    []string{folders.IntakeDir()},
		Debounce: 2 * time.Second,
	}, logger)
	if err != nil {
		logger.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	runOnce()
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			// One event per arrival burst thanks to the debounce; the run
			// enumerates the whole intake directory regardless.
			drain(events)
			runOnce()
		case werr, ok := <-watchErrs:
			if ok && werr != nil {
				logger.Warn("watcher error", "error", werr)
			}
		}
	}
}

// reconcileManifest flags intake files absent from the complaint workbook
// and manifest entries with no document on disk. Informational only; the
// run proceeds either way.
func reconcileManifest(path string, folders *intake.Folders, logger *slog.Logger) error {
	rows, err := report.ReadManifest(path)
	if err != nil {
		return err
	}
	files, err := folders.ListIntake()
	if err != nil {
		return err
	}
	onDisk := make(map[string]bool, len(files))
	for _, f := range files {
		onDisk[filepath.Base(f)] = true
	}
	expected := make(map[string]bool, len(rows))
	for _, r := range rows {
		if r.File == "" {
			continue
		}
		expected[r.File] = true
		if !onDisk[r.File] {
			logger.Warn("manifest entry has no intake document", "file", r.File, "phone", r.Phone)
		}
	}
	for name := range onDisk {
		if !expected[name] {
			logger.Warn("intake document not listed in manifest", "file", name)
		}
	}
	logger.Info("manifest reconciled", "entries", len(rows), "intake_files", len(files))
	return nil
}

func drain(ch <-chan string) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
