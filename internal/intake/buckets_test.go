package intake

import (
	"os"
	"path/filepath"
	"testing"

	"ndnc-verifier/constants"
)

func newTestFolders(t *testing.T) *Folders {
	t.Helper()
	root := t.TempDir()
	f, err := NewFolders(
		filepath.Join(root, "review_pending"),
		root,
		filepath.Join(root, "downloads"),
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func addIntakeFile(t *testing.T, f *Folders, name string) string {
	t.Helper()
	path := filepath.Join(f.IntakeDir(), name)
	if err := os.WriteFile(path, []byte("doc"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestListIntakeFiltersAndSorts(t *testing.T) {
	f := newTestFolders(t)
	addIntakeFile(t, f, "b.pdf")
	addIntakeFile(t, f, "a.png")
	addIntakeFile(t, f, "notes.txt") // unsupported, skipped

	got, err := f.ListIntake()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d files, want 2", len(got))
	}
	if filepath.Base(got[0]) != "a.png" || filepath.Base(got[1]) != "b.pdf" {
		t.Errorf("order = %v", got)
	}
}

func TestMoveToBucketIsExclusive(t *testing.T) {
	f := newTestFolders(t)
	src := addIntakeFile(t, f, "9876543210_18-Dec-2025.pdf")

	dest, err := f.MoveToBucket(src, constants.BucketProcessed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source must be gone after relocation")
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("destination missing: %v", err)
	}
	counts := f.FileCounts()
	if counts.Intake != 0 || counts.Processed != 1 {
		t.Errorf("counts = %+v", counts)
	}
}

func TestMoveToBucketCollisionKeepsBoth(t *testing.T) {
	f := newTestFolders(t)
	first := addIntakeFile(t, f, "dup.pdf")
	if _, err := f.MoveToBucket(first, constants.BucketNotVerified); err != nil {
		t.Fatal(err)
	}
	second := addIntakeFile(t, f, "dup.pdf")
	dest, err := f.MoveToBucket(second, constants.BucketNotVerified)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(dest) == "dup.pdf" {
		t.Error("collision must suffix the new name")
	}
	if f.FileCounts().NotVerified != 2 {
		t.Errorf("want both files kept, counts = %+v", f.FileCounts())
	}
}

func TestScratchRoundTrip(t *testing.T) {
	f := newTestFolders(t)
	path, err := f.WriteScratch("remote.pdf", []byte("bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	f.RemoveScratch(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("scratch file must be removed")
	}
	f.RemoveScratch(path) // absent is tolerated
}
