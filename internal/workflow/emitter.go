package workflow

import (
	"log/slog"

	"ndnc-verifier/internal/intake"
)

// Emitter is the one-way progress sink the orchestrator pushes to. The
// core never reads from it; how events reach an operator UI is the
// caller's concern.
type Emitter interface {
	Status(state string)
	Log(msg string, args ...any)
	Error(msg string, args ...any)
	Stats(processed, failed int)
	FileCounts(c intake.Counts)
}

// LogEmitter renders events as structured log lines.
type LogEmitter struct {
	logger *slog.Logger
}

func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEmitter{logger: logger}
}

func (e *LogEmitter) Status(state string) { e.logger.Info("status", "state", state) }
func (e *LogEmitter) Log(msg string, args ...any) {
	e.logger.Info(msg, args...)
}
func (e *LogEmitter) Error(msg string, args ...any) {
	e.logger.Error(msg, args...)
}
func (e *LogEmitter) Stats(processed, failed int) {
	e.logger.Info("stats", "processed", processed, "failed", failed)
}
func (e *LogEmitter) FileCounts(c intake.Counts) {
	e.logger.Info("file_counts",
		"intake", c.Intake,
		"processed", c.Processed,
		"processed_review", c.ProcessedReview,
		"not_verified", c.NotVerified,
	)
}
