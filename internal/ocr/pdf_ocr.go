package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"ndnc-verifier/constants"
)

// PDF page passes skip PSM 12; sparse-with-OSD buys nothing on rendered pages.
var pdfPagePSMs = []int{6, 3, 11}

func (e *Engine) extractPDF(ctx context.Context, path string) (Result, error) {
	var warns []string

	pages, err := api.PageCountFile(path)
	if err != nil {
		// Not fatal: some scanner-produced PDFs trip pdfcpu's validator but
		// still render fine.
		warns = append(warns, "pdfcpu page count: "+err.Error())
		pages = 0
	}

	text, textWarns, textErr := e.pdfToText(ctx, path)
	warns = append(warns, textWarns...)
	if textErr != nil {
		warns = append(warns, "pdftotext: "+textErr.Error())
	}

	hasTextLayer := len(strings.TrimSpace(text)) >= e.cfg.MinTextLayerLen
	if hasTextLayer && !e.cfg.AlwaysOCR {
		if pages == 0 {
			pages = 1 + strings.Count(text, "\f")
		}
		return Result{
			Text:       Normalize(text),
			Pages:      pages,
			SourceType: constants.PDF,
			Method:     "pdf-text",
			Warnings:   warns,
		}, nil
	}

	ocrText, ocrPages, ocrPasses, ocrWarns, ocrErr := e.pdfToOCR(ctx, path)
	warns = append(warns, ocrWarns...)
	if ocrErr != nil {
		if !hasTextLayer {
			return Result{SourceType: constants.PDF, Warnings: warns}, ocrErr
		}
		warns = append(warns, "ocr fallback: "+ocrErr.Error())
	}
	if pages == 0 {
		pages = ocrPages
	}

	method := "pdf-ocr"
	combined := ocrText
	if hasTextLayer {
		method = "pdf-text+ocr"
		combined = Normalize(text) + "\n" + ocrText
	}
	return Result{
		Text:       combined,
		Pages:      pages,
		SourceType: constants.PDF,
		Method:     method,
		Passes:     ocrPasses,
		Warnings:   warns,
	}, nil
}

func (e *Engine) pdfToText(ctx context.Context, path string) (string, []string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", []string{string(errb)}, err
	}
	return string(out), nil, nil
}

// pdfToOCR renders every page to PNG and runs the multi-pass image
// pipeline on each.
func (e *Engine) pdfToOCR(ctx context.Context, path string) (string, int, int, []string, error) {
	tmpDir, err := os.MkdirTemp("", "ndnc-pp-*")
	if err != nil {
		return "", 0, 0, nil, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, 0, []string{string(errb)}, err
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	var warns []string
	passes := 0
	for _, pagePath := range matches {
		img, err := imaging.Open(pagePath)
		if err != nil {
			warns = append(warns, filepath.Base(pagePath)+": "+err.Error())
			continue
		}
		txt, p, w, err := e.multiPassOCR(ctx, img, pdfPagePSMs, false)
		warns = append(warns, w...)
		if err != nil {
			warns = append(warns, filepath.Base(pagePath)+": "+err.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(txt)
		passes += p
	}
	return b.String(), len(matches), passes, warns, nil
}
