// Package storage provides the durable key-value store that session and
// configuration records are written to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("key not found")

// ErrInvalidKey is returned for keys that cannot be stored safely.
var ErrInvalidKey = errors.New("invalid key")

// keyPattern restricts keys so the file backend can use them as file names.
var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Store is a small durable key-value store.
// Implementations must treat Delete of a missing key as success.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the store for the named backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch strings.ToLower(backend) {
	case "", BackendFile:
		return NewFileStore(dir)
	case BackendSQLite:
		return NewSQLiteStore(dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (valid: %s, %s, %s)", backend, BackendFile, BackendSQLite, BackendMemory)
	}
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
