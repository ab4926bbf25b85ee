package ocr

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"ndnc-verifier/constants"
)

// Page-segmentation modes tried per variant, in order. 6 = uniform block,
// 3 = fully automatic, 11/12 = sparse text.
var fullPagePSMs = []int{6, 3, 11, 12}

// Address-bar strip modes: 7 = single text line, then 6.
var addressBarPSMs = []int{7, 6}

// minPassLen drops OCR passes that produced line noise rather than text.
const minPassLen = 10

func (e *Engine) extractImage(ctx context.Context, path string) (Result, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return Result{SourceType: constants.IMAGE}, fmt.Errorf("decode image: %w", err)
	}
	txt, passes, warns, err := e.multiPassOCR(ctx, img, fullPagePSMs, true)
	if err != nil {
		return Result{SourceType: constants.IMAGE, Warnings: warns}, err
	}
	return Result{
		Text:       txt,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Passes:     passes,
		Warnings:   warns,
	}, nil
}

// multiPassOCR writes the preprocessed variants into a scoped temp dir and
// unions every non-trivial tesseract output. With addressBar set, the
// enhanced top-strip pass runs first so the authenticating URL lands at
// the head of the corpus.
func (e *Engine) multiPassOCR(ctx context.Context, img image.Image, psms []int, addressBar bool) (string, int, []string, error) {
	tmpDir, err := os.MkdirTemp("", "ndnc-ocr-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	var texts []string
	var warns []string
	passes := 0

	if addressBar {
		strip := addressBarVariant(img)
		stripPath := filepath.Join(tmpDir, "addressbar.png")
		if err := imaging.Save(strip, stripPath); err != nil {
			warns = append(warns, "address bar save: "+err.Error())
		} else {
			for _, psm := range addressBarPSMs {
				txt, w, err := e.tesseract(ctx, stripPath, psm)
				warns = append(warns, w...)
				if err != nil {
					continue
				}
				if t := strings.TrimSpace(txt); t != "" {
					texts = append(texts, t)
					passes++
				}
			}
		}
	}

	variants := preprocessVariants(img)
	if len(variants) > e.cfg.VariantLimit {
		variants = variants[:e.cfg.VariantLimit]
	}
	for _, v := range variants {
		vPath := filepath.Join(tmpDir, v.Name+".png")
		if err := imaging.Save(v.Image, vPath); err != nil {
			warns = append(warns, v.Name+" save: "+err.Error())
			continue
		}
		for _, psm := range psms {
			txt, w, err := e.tesseract(ctx, vPath, psm)
			warns = append(warns, w...)
			if err != nil {
				continue
			}
			if len(strings.TrimSpace(txt)) > minPassLen {
				texts = append(texts, txt)
				passes++
			}
		}
	}

	return Normalize(strings.Join(texts, "\n")), passes, warns, nil
}

// tesseract runs one OCR pass: tesseract <file> stdout -l <lang> --psm <n>.
func (e *Engine) tesseract(ctx context.Context, path string, psm int) (string, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if psm > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", psm))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract psm %d: %w", psm, err)
	}
	return reBoxNoise.ReplaceAllString(string(out), ""), nil, nil
}
