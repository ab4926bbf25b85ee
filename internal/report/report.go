// Package report reads complaint batch manifests and writes outcome
// workbooks for operators.
package report

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ndnc-verifier/internal/audit"
)

// ManifestRow is one complaint entry from a batch workbook.
type ManifestRow struct {
	Phone string
	File  string
	Date  string
}

const (
	manifestSheet = "Complaints"
	outcomeSheet  = "Outcomes"
	summarySheet  = "Summary"
)

// ReadManifest loads complaint rows from the first sheet named
// "Complaints" (or the active sheet when absent). Expected columns:
// phone, file, date; the header row is skipped. Blank rows are ignored.
func ReadManifest(path string) ([]ManifestRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	sheet := manifestSheet
	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read manifest rows: %w", err)
	}

	var out []ManifestRow
	for i, row := range rows {
		if i == 0 {
			continue
		}
		get := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}
		r := ManifestRow{Phone: get(0), File: get(1), Date: get(2)}
		if r.Phone == "" && r.File == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Writer produces the XLSX outcome report for one run.
type Writer struct {
	logger *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WriteOutcomes builds a workbook with one row per document disposition
// and a summary sheet, returning the XLSX bytes.
func (w *Writer) WriteOutcomes(runID string, dispositions []audit.Disposition) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	if _, err := f.NewSheet(outcomeSheet); err != nil {
		return nil, err
	}
	idx, _ := f.GetSheetIndex(outcomeSheet)
	f.SetActiveSheet(idx)

	headers := []string{"File", "Phone", "State", "Bucket", "Detail"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(outcomeSheet, cell, h)
	}

	byBucket := map[string]int{}
	row := 2
	for _, d := range dispositions {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(outcomeSheet, cell, v)
		}
		write(1, d.File)
		write(2, d.Phone)
		write(3, string(d.State))
		write(4, string(d.Bucket))
		write(5, d.Detail)
		byBucket[string(d.Bucket)]++
		row++
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	_ = f.SetCellValue(summarySheet, "A1", "Run")
	_ = f.SetCellValue(summarySheet, "B1", runID)
	_ = f.SetCellValue(summarySheet, "A2", "Documents")
	_ = f.SetCellValue(summarySheet, "B2", len(dispositions))
	srow := 3
	for _, bucket := range []string{"processed", "processed_review", "not_verified"} {
		cellA, _ := excelize.CoordinatesToCellName(1, srow)
		cellB, _ := excelize.CoordinatesToCellName(2, srow)
		_ = f.SetCellValue(summarySheet, cellA, bucket)
		_ = f.SetCellValue(summarySheet, cellB, byBucket[bucket])
		srow++
	}

	_ = f.SetColWidth(outcomeSheet, "A", "A", 44)
	_ = f.SetColWidth(outcomeSheet, "B", "B", 14)
	_ = f.SetColWidth(outcomeSheet, "C", "D", 20)
	_ = f.SetColWidth(outcomeSheet, "E", "E", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	w.logger.Info("report.xlsx.ok",
		"run_id", runID,
		"rows", len(dispositions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
