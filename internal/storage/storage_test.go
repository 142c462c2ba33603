package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

// backends returns a fresh instance of every backend.
func backends(t *testing.T) map[string]Storage {
	t.Helper()
	st, err := NewSQLiteStorage(":memory:", testLogger())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return map[string]Storage{
		"file":   NewFileStorage(t.TempDir()),
		"sqlite": st,
		"memory": NewMemoryStorage(),
	}
}

func TestStorage_RoundTrip(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := st.Get(ctx, "user"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
			}
			if err := st.Set(ctx, "user", []byte(`{"id":"1"}`)); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := st.Set(ctx, "user", []byte(`{"id":"2"}`)); err != nil {
				t.Fatalf("Set() overwrite error = %v", err)
			}
			got, err := st.Get(ctx, "user")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != `{"id":"2"}` {
				t.Errorf("Get() = %s, want overwritten value", got)
			}
			if err := st.Delete(ctx, "user"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := st.Get(ctx, "user"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(after delete) error = %v, want ErrNotFound", err)
			}
			if err := st.Delete(ctx, "user"); err != nil {
				t.Errorf("Delete(missing) error = %v, want nil", err)
			}
		})
	}
}

func TestStorage_InvalidKey(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", `a\b`, ".."} {
				if err := st.Set(context.Background(), key, []byte("x")); err == nil {
					t.Errorf("Set(%q) succeeded, want error", key)
				}
			}
		})
	}
}

func TestFileStorage_Permissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	st := NewFileStorage(dir)
	if err := st.Set(context.Background(), "user", []byte("secret")); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(dir, "user.json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
	dirInfo, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0o700 {
		t.Errorf("dir mode = %o, want 700", perm)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only user.json, found %d entries", len(entries))
	}
}

func TestMemoryStorage_CopiesValues(t *testing.T) {
	st := NewMemoryStorage()
	ctx := context.Background()
	v := []byte("abc")
	st.Set(ctx, "k", v)
	v[0] = 'z'
	got, _ := st.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Get() = %s, want stored copy", got)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, backend := range []string{"", "file", "sqlite", "memory", "SQLite"} {
		st, err := Open(ctx, backend, dir, testLogger())
		if err != nil {
			t.Fatalf("Open(%q) error = %v", backend, err)
		}
		if err := st.Set(ctx, "user", []byte("x")); err != nil {
			t.Errorf("Open(%q).Set error = %v", backend, err)
		}
		st.Close()
	}
	if _, err := os.Stat(filepath.Join(dir, sqliteFileName)); err != nil {
		t.Errorf("sqlite backend did not create %s: %v", sqliteFileName, err)
	}

	if _, err := Open(ctx, "redis", dir, testLogger()); err == nil {
		t.Error("Open(redis) succeeded, want error")
	}
}

func TestSQLiteStorage_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	st, err := NewSQLiteStorage(path, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if err := st.Set(ctx, "user", []byte("persisted")); err != nil {
		t.Fatal(err)
	}
	st.Close()

	st, err = NewSQLiteStorage(path, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	got, err := st.Get(ctx, "user")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "persisted" {
		t.Errorf("Get() = %q", got)
	}
}
