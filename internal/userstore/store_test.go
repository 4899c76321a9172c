package userstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"tunelib/internal/config"
	"tunelib/internal/logging"
	"tunelib/internal/userstore"
)

func openBackends(t *testing.T) map[string]userstore.Store {
	t.Helper()
	dir := t.TempDir()
	db, err := userstore.OpenSQLite(filepath.Join(dir, "users.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return map[string]userstore.Store{
		"file":   userstore.NewFileStore(filepath.Join(dir, "users.json"), time.Second, logging.NewNop()),
		"sqlite": db,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(ctx, "ana"); !errors.Is(err, userstore.ErrUserNotFound) {
				t.Fatalf("expected ErrUserNotFound, got %v", err)
			}

			ana := userstore.Record{Username: "ana", Salt: "s1", PasswordHash: "h1",
				Library: []byte(`{"songs":[],"albums":[],"playlists":{},"recentPlays":[]}`)}
			if err := store.Create(ctx, ana); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if err := store.Create(ctx, ana); !errors.Is(err, userstore.ErrUserExists) {
				t.Fatalf("expected ErrUserExists, got %v", err)
			}
			if err := store.Create(ctx, userstore.Record{Username: "bo", Salt: "s2", PasswordHash: "h2"}); err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			got, err := store.Get(ctx, "ana")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.Salt != "s1" || got.PasswordHash != "h1" || string(got.Library) != string(ana.Library) {
				t.Fatalf("unexpected record: %+v", got)
			}

			ana.Library = []byte(`{"songs":[{"title":"Say \"Hi\"","artist":"X","album":"Y","playCount":1,"rating":0,"isFavorite":false}],"albums":[],"playlists":{},"recentPlays":["Say \"Hi\""]}`)
			if err := store.Put(ctx, ana); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			got, err = store.Get(ctx, "ana")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got.Library) != string(ana.Library) {
				t.Fatalf("library not replaced:\nwant %s\n got %s", ana.Library, got.Library)
			}

			names, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if !slices.Equal(names, []string{"ana", "bo"}) {
				t.Fatalf("unexpected names: %v", names)
			}

			if err := store.Delete(ctx, "bo"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if err := store.Delete(ctx, "bo"); !errors.Is(err, userstore.ErrUserNotFound) {
				t.Fatalf("expected ErrUserNotFound, got %v", err)
			}
			if err := store.Put(ctx, userstore.Record{}); err == nil {
				t.Fatal("expected error for empty username")
			}
		})
	}
}

func TestFileStoreLockTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store := userstore.NewFileStore(path, 100*time.Millisecond, logging.NewNop())

	holder := flock.New(path + ".lock")
	if err := holder.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	err := store.Put(context.Background(), userstore.Record{Username: "ana"})
	if !errors.Is(err, userstore.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}

	if err := holder.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if err := store.Put(context.Background(), userstore.Record{Username: "ana"}); err != nil {
		t.Fatalf("Put after unlock failed: %v", err)
	}
}

func TestFileStoreRecoversFromTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store := userstore.NewFileStore(path, time.Second, logging.NewNop())
	ctx := context.Background()
	for _, name := range []string{"ana", "bo"} {
		if err := store.Create(ctx, userstore.Record{Username: name, Salt: "s", PasswordHash: "h"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read users file: %v", err)
	}
	if err := os.WriteFile(path, data[:len(data)-20], 0o600); err != nil {
		t.Fatalf("truncate users file: %v", err)
	}

	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !slices.Equal(names, []string{"ana"}) {
		t.Fatalf("expected the intact entry only, got %v", names)
	}
	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Fatalf("expected backup of damaged file: %v", err)
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store := userstore.NewFileStore(filepath.Join(t.TempDir(), "none", "users.json"), time.Second, nil)
	names, err := store.List(context.Background())
	if err != nil || len(names) != 0 {
		t.Fatalf("expected empty store, got %v (%v)", names, err)
	}
}

func TestFileStoreWritesRefuseUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store := userstore.NewFileStore(path, time.Second, logging.NewNop())
	ctx := context.Background()

	if err := os.MkdirAll(filepath.Join(path, "keep"), 0o755); err != nil {
		t.Fatalf("replace users file with directory: %v", err)
	}

	if _, err := store.Get(ctx, "ana"); !errors.Is(err, userstore.ErrUserNotFound) {
		t.Fatalf("expected reads to fall back to empty, got %v", err)
	}
	writes := map[string]func() error{
		"put":    func() error { return store.Put(ctx, userstore.Record{Username: "ana", Salt: "s", PasswordHash: "h"}) },
		"create": func() error { return store.Create(ctx, userstore.Record{Username: "bo", Salt: "s", PasswordHash: "h"}) },
		"delete": func() error { return store.Delete(ctx, "ana") },
	}
	for name, write := range writes {
		if err := write(); !errors.Is(err, userstore.ErrUnreadable) {
			t.Fatalf("%s: expected ErrUnreadable, got %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(path, "keep")); err != nil {
		t.Fatalf("unreadable users path was replaced: %v", err)
	}
}

func TestFileStoreKeepsMalformedLibraryText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store := userstore.NewFileStore(path, time.Second, logging.NewNop())
	ctx := context.Background()
	rec := userstore.Record{Username: "ana", Salt: "s", PasswordHash: "h", Library: []byte(`{"songs":[`)}
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := store.Get(ctx, "ana")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Library) != `{"songs":[` {
		t.Fatalf("unexpected library text: %q", got.Library)
	}
}

func TestSQLiteSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.db")
	store, err := userstore.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	raw, err := userstore.OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if err := raw.ForceSchemaVersion(context.Background(), 99); err != nil {
		t.Fatalf("ForceSchemaVersion failed: %v", err)
	}
	_ = raw.Close()

	if _, err := userstore.OpenSQLite(path); !errors.Is(err, userstore.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Store.UsersFile = filepath.Join(dir, "users.json")
	cfg.Store.SQLiteFile = filepath.Join(dir, "users.db")

	store, err := userstore.Open(&cfg, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, ok := store.(*userstore.FileStore); !ok {
		t.Fatalf("expected file store, got %T", store)
	}

	cfg.Store.Backend = config.BackendSQLite
	store, err = userstore.Open(&cfg, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*userstore.SQLiteStore); !ok {
		t.Fatalf("expected sqlite store, got %T", store)
	}
}
