package userstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tunelib/internal/config"
)

var (
	// ErrUserNotFound is returned by Get and Delete for unknown usernames.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned by Create when the username is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrLockTimeout is returned when the users file lock cannot be acquired in time.
	ErrLockTimeout = errors.New("timed out waiting for users file lock")
	// ErrUnreadable is returned by file store writes when the existing users
	// file cannot be read, so replacing it would lose stored users.
	ErrUnreadable = errors.New("users file unreadable")
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)

// Record is one persisted user. Library holds the wire text of the user's
// library and may be empty.
type Record struct {
	Username     string
	Salt         string
	PasswordHash string
	Library      []byte
}

// Store is the persistence contract shared by the backends.
type Store interface {
	Get(ctx context.Context, username string) (Record, error)
	Put(ctx context.Context, rec Record) error
	Create(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, username string) error
	Close() error
}

// Open returns the backend selected by cfg.Store.Backend.
func Open(cfg *config.Config, logger *slog.Logger) (Store, error) {
	if cfg == nil {
		return nil, errors.New("userstore: config is required")
	}
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		return OpenSQLite(cfg.Store.SQLiteFile)
	case config.BackendFile, "":
		return NewFileStore(cfg.Store.UsersFile, cfg.LockTimeout(), logger), nil
	default:
		return nil, fmt.Errorf("userstore: unknown backend %q", cfg.Store.Backend)
	}
}

func validate(rec Record) error {
	if rec.Username == "" {
		return errors.New("username is required")
	}
	return nil
}
