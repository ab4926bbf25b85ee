// Package ocr extracts text from proof documents with a multi-pass
// tesseract pipeline. Images are OCR'd under several page-segmentation
// modes against several preprocessed variants and the outputs are
// concatenated into one corpus; PDFs try the embedded text layer first and
// fall back to rasterizing pages.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"ndnc-verifier/constants"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"

	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit

	// MinTextLayerLen is the threshold below which a PDF text layer is
	// considered absent (scanned/flattened page) and OCR kicks in.
	MinTextLayerLen int

	// AlwaysOCR runs OCR even when the text layer was usable. Required for
	// remote/portal documents, which embed screenshots and code blocks the
	// text layer cannot see.
	AlwaysOCR bool

	// VariantLimit caps how many preprocessed variants feed the full-page
	// passes. Default 3 (original, grayscale, fixed threshold).
	VariantLimit int
}

// Result is one file's combined extraction output.
type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE
	Method     string // "pdf-text" | "pdf-ocr" | "pdf-text+ocr" | "image-ocr"
	Passes     int    // OCR passes that contributed non-trivial text
	Duration   time.Duration
	Warnings   []string
}

// Engine runs the multi-pass extraction.
type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextLayerLen <= 0 {
		cfg.MinTextLayerLen = 50
	}
	if cfg.VariantLimit <= 0 {
		cfg.VariantLimit = 3
	}
	return &Engine{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Extract picks a strategy based on file extension.
func (e *Engine) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting extraction", "path", path, "ext", ext)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case constants.IMAGE:
		res, err := e.extractImage(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	default:
		e.logger.Error("unsupported extension", "extension", ext)
		return Result{}, fmt.Errorf("unsupported extension: %q", ext)
	}
}
