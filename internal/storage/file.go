package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// RecordExt is the extension of every record file.
const RecordExt = ".json"

// FileStore keeps one file per key in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+RecordExt)
}

// Get reads the value for key. Returns ErrNotFound if the file doesn't exist.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set writes the value for key.
// Uses atomic write pattern (write to temp file, then rename) for safety.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	path := s.Path(key)
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, value, 0644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key.
// Returns nil if the file doesn't exist (idempotent operation).
func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := os.Remove(s.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}
