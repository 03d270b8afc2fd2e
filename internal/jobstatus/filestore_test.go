package jobstatus

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStore_RoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	started := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	if err := fs.Put(5, Record{State: StateInProgress, StartedAt: started}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := fs.Get(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a record")
	}
	if rec.State != StateInProgress {
		t.Fatalf("unexpected state: %q", rec.State)
	}
	if !rec.StartedAt.Equal(started) {
		t.Fatalf("unexpected start time: %v", rec.StartedAt)
	}
}

func TestFileStore_MissingRecordIsNil(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := fs.Get(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := fs.Put(5, Record{State: StateCompleted, StartedAt: time.Now()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fs.Delete(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fs.Delete(5); err != nil {
		t.Fatalf("deleting a missing record should not error: %v", err)
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := first.Put(7, Record{State: StateInProgress, StartedAt: time.Now()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, err := second.Get(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || rec.State != StateInProgress {
		t.Fatalf("expected the in-progress record to survive, got %+v", rec)
	}
}

func TestFileStore_OneFilePerStory(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := fs.Put(1, Record{State: StateInProgress, StartedAt: time.Now()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fs.Put(2, Record{State: StateCompleted, StartedAt: time.Now()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"1.json", "2.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}
}

func TestFileStore_CorruptFileErrors(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "9.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := fs.Get(9); err == nil {
		t.Fatal("expected error for a corrupt record")
	}
}
