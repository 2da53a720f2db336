package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// backends returns one instance of every Store implementation, each rooted in
// its own temp dir.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "records"))
	if err != nil {
		t.Fatalf("NewFileStore() unexpected error: %v", err)
	}
	sqliteStore, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteStore() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		BackendFile:   fileStore,
		BackendSQLite: sqliteStore,
		BackendMemory: NewMemoryStore(),
	}
}

func TestStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, "breakruptcy-timer-state"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get() on empty store error = %v, expected ErrNotFound", err)
			}

			if err := s.Set(ctx, "breakruptcy-timer-state", []byte(`{"isPaused":true}`)); err != nil {
				t.Fatalf("Set() unexpected error: %v", err)
			}
			got, err := s.Get(ctx, "breakruptcy-timer-state")
			if err != nil {
				t.Fatalf("Get() unexpected error: %v", err)
			}
			if string(got) != `{"isPaused":true}` {
				t.Errorf("Get() = %s", got)
			}

			// Overwrite
			if err := s.Set(ctx, "breakruptcy-timer-state", []byte(`{}`)); err != nil {
				t.Fatalf("Set() overwrite unexpected error: %v", err)
			}
			got, _ = s.Get(ctx, "breakruptcy-timer-state")
			if string(got) != `{}` {
				t.Errorf("Get() after overwrite = %s", got)
			}

			if err := s.Delete(ctx, "breakruptcy-timer-state"); err != nil {
				t.Fatalf("Delete() unexpected error: %v", err)
			}
			if _, err := s.Get(ctx, "breakruptcy-timer-state"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after Delete error = %v, expected ErrNotFound", err)
			}

			// Idempotent delete
			if err := s.Delete(ctx, "breakruptcy-timer-state"); err != nil {
				t.Errorf("second Delete() unexpected error: %v", err)
			}
		})
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_ = s.Set(ctx, "a", []byte("1"))
			_ = s.Set(ctx, "b", []byte("2"))
			_ = s.Delete(ctx, "a")

			got, err := s.Get(ctx, "b")
			if err != nil || string(got) != "2" {
				t.Errorf("Get(b) = %q, %v", got, err)
			}
		})
	}
}

func TestStore_InvalidKey(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "..", "../escape", "a/b", "with space"} {
				if err := s.Set(ctx, key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Set(%q) error = %v, expected ErrInvalidKey", key, err)
				}
				if _, err := s.Get(ctx, key); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Get(%q) error = %v, expected ErrInvalidKey", key, err)
				}
			}
		})
	}
}

func TestFileStore_AtomicWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() unexpected error: %v", err)
	}
	if err := s.Set(context.Background(), "cfg", []byte("{}")); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	if _, err := os.Stat(s.Path("cfg") + ".tmp"); !os.IsNotExist(err) {
		t.Error("expected temp file to be renamed away")
	}
	if _, err := os.Stat(filepath.Join(dir, "cfg.json")); err != nil {
		t.Errorf("expected cfg.json to exist: %v", err)
	}
}

func TestFileStore_ReadError(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	// A directory where the record file should be makes ReadFile fail.
	if err := os.Mkdir(s.Path("broken"), 0755); err != nil {
		t.Fatal(err)
	}
	_, err := s.Get(context.Background(), "broken")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected a read error, got %v", err)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("NewSQLiteStore() unexpected error: %v", err)
	}
	if err := s.Set(ctx, "cfg", []byte(`{"bank1Duration":1000}`)); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	_ = s.Close()

	reopened, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("reopen unexpected error: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, "cfg")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if string(got) != `{"bank1Duration":1000}` {
		t.Errorf("Get() = %s", got)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend string
		wantErr bool
	}{
		{backend: "", wantErr: false},
		{backend: "file", wantErr: false},
		{backend: "SQLite", wantErr: false},
		{backend: "memory", wantErr: false},
		{backend: "redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := Open(tt.backend, dir)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for unknown backend")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open(%q) unexpected error: %v", tt.backend, err)
			}
			_ = s.Close()
		})
	}
}
