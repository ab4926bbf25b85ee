// reportgen renders one run's audit dispositions as an XLSX workbook.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"ndnc-verifier/internal/audit"
	"ndnc-verifier/internal/common"
	"ndnc-verifier/internal/report"
)

func main() {
	var (
		runID = flag.String("run", "", "run ID to report on (required)")
		out   = flag.String("out", "outcomes.xlsx", "output XLSX path")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *runID == "" {
		logger.Error("--run is required")
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	store, err := audit.Open(cfg.Audit.DBPath, logger)
	if err != nil {
		logger.Error("failed to open audit store", "db", cfg.Audit.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	dispositions, err := store.Dispositions(context.Background(), *runID)
	if err != nil {
		logger.Error("failed to load dispositions", "run_id", *runID, "error", err)
		os.Exit(1)
	}
	if len(dispositions) == 0 {
		logger.Warn("run has no dispositions", "run_id", *runID)
	}

	data, err := report.NewWriter(logger).WriteOutcomes(*runID, dispositions)
	if err != nil {
		logger.Error("failed to build report", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("failed to write report", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("report written", "path", *out, "rows", len(dispositions))
}
