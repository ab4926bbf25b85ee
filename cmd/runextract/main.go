// runextract prints the facts extracted from a single document, for
// debugging OCR and regex behavior without a dashboard session.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"ndnc-verifier/internal/common"
	"ndnc-verifier/internal/extract"
	"ndnc-verifier/internal/ocr"
)

func main() {
	var (
		alwaysOCR = flag.Bool("always-ocr", false, "run OCR even when the PDF has a text layer")
		rawText   = flag.Bool("raw", false, "include the raw OCR corpus in the output")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <document>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	engine := ocr.NewEngine(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		AlwaysOCR:     *alwaysOCR,
	}, logger)

	facts := extract.NewExtractor(engine, logger).ExtractFacts(context.Background(), path)
	if !*rawText {
		facts.RawText = ""
	}

	out, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		logger.Error("failed to encode facts", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
