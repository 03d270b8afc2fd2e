package jobstatus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// FileStore persists one JSON file per story under a directory. Records
// survive process restarts, which keeps in-flight jobs pollable after a
// crash until the timeout expires them.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create job status dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(storyID int64) string {
	return filepath.Join(f.dir, strconv.FormatInt(storyID, 10)+".json")
}

// Get reads the record for the story, or (nil, nil) when none exists.
func (f *FileStore) Get(storyID int64) (*Record, error) {
	data, err := os.ReadFile(f.path(storyID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode job file: %w", err)
	}
	return &rec, nil
}

// Put writes the record for the story, replacing any previous one.
func (f *FileStore) Put(storyID int64, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode job record: %w", err)
	}
	if err := os.WriteFile(f.path(storyID), data, 0o644); err != nil {
		return fmt.Errorf("write job file: %w", err)
	}
	return nil
}

// Delete removes the record for the story. Deleting a missing record is not
// an error.
func (f *FileStore) Delete(storyID int64) error {
	err := os.Remove(f.path(storyID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete job file: %w", err)
	}
	return nil
}
