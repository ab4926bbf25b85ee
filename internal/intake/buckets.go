// Package intake owns the local filesystem locations a batch run touches:
// the intake directory, the terminal outcome buckets, and the scratch area
// for dashboard downloads.
package intake

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ndnc-verifier/constants"
)

type Folders struct {
	intake  string
	outcome string // parent of the terminal buckets
	scratch string
	logger  *slog.Logger
}

// NewFolders prepares the intake/outcome/scratch layout, creating
// directories as needed.
func NewFolders(intakeDir, outcomeDir, scratchDir string, logger *slog.Logger) (*Folders, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dirs := []string{
		intakeDir, scratchDir,
		filepath.Join(outcomeDir, string(constants.BucketProcessed)),
		filepath.Join(outcomeDir, string(constants.BucketProcessedReview)),
		filepath.Join(outcomeDir, string(constants.BucketNotVerified)),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", d, err)
		}
	}
	return &Folders{intake: intakeDir, outcome: outcomeDir, scratch: scratchDir, logger: logger}, nil
}

func (f *Folders) IntakeDir() string  { return f.intake }
func (f *Folders) ScratchDir() string { return f.scratch }

// BucketDir returns the directory backing a terminal bucket.
func (f *Folders) BucketDir(b constants.Bucket) string {
	return filepath.Join(f.outcome, string(b))
}

// ListIntake enumerates processable files in the intake directory, sorted
// by name for a stable batch order.
func (f *Folders) ListIntake() ([]string, error) {
	entries, err := os.ReadDir(f.intake)
	if err != nil {
		return nil, fmt.Errorf("read intake: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(e.Name()))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			continue
		}
		out = append(out, filepath.Join(f.intake, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// MoveToBucket relocates a document into its terminal bucket with a single
// rename, suffixing a timestamp on name collision. Rename keeps the
// relocation atomic on one filesystem: the document is never duplicated
// or lost mid-move.
func (f *Folders) MoveToBucket(path string, bucket constants.Bucket) (string, error) {
	name := filepath.Base(path)
	dest := filepath.Join(f.BucketDir(bucket), name)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		dest = filepath.Join(f.BucketDir(bucket),
			fmt.Sprintf("%s_%s%s", stem, time.Now().Format("20060102150405"), ext))
	}
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("move to %s: %w", bucket, err)
	}
	f.logger.Info("document filed", "file", name, "bucket", string(bucket))
	return dest, nil
}

// WriteScratch writes bytes into the scratch area.
func (f *Folders) WriteScratch(name string, data []byte) (string, error) {
	path := filepath.Join(f.scratch, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write scratch: %w", err)
	}
	return path, nil
}

// RemoveScratch deletes a scratch file, tolerating its absence.
func (f *Folders) RemoveScratch(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		f.logger.Warn("failed to remove scratch file", "path", path, "error", err)
	}
}

// Counts is the per-location file tally pushed to the progress sink.
type Counts struct {
	Intake          int `json:"intake"`
	Processed       int `json:"processed"`
	ProcessedReview int `json:"processed_review"`
	NotVerified     int `json:"not_verified"`
}

// FileCounts snapshots the current tallies.
func (f *Folders) FileCounts() Counts {
	count := func(dir string) int {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return 0
		}
		n := 0
		for _, e := range entries {
			if !e.IsDir() {
				n++
			}
		}
		return n
	}
	return Counts{
		Intake:          count(f.intake),
		Processed:       count(f.BucketDir(constants.BucketProcessed)),
		ProcessedReview: count(f.BucketDir(constants.BucketProcessedReview)),
		NotVerified:     count(f.BucketDir(constants.BucketNotVerified)),
	}
}
