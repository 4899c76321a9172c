package userstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// SQLiteStore keeps one row per user.
type SQLiteStore struct {
	db   *sqlx.DB
	path string
}

type userRow struct {
	Username     string `db:"username"`
	Salt         string `db:"salt"`
	PasswordHash string `db:"password_hash"`
	Library      string `db:"library"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

func (r userRow) record() Record {
	rec := Record{Username: r.Username, Salt: r.Salt, PasswordHash: r.PasswordHash}
	if r.Library != "" {
		rec.Library = []byte(r.Library)
	}
	return rec
}

func rowFor(rec Record, now time.Time) userRow {
	stamp := now.UTC().Format(time.RFC3339Nano)
	return userRow{
		Username:     rec.Username,
		Salt:         rec.Salt,
		PasswordHash: rec.PasswordHash,
		Library:      string(rec.Library),
		CreatedAt:    stamp,
		UpdatedAt:    stamp,
	}
}

// OpenSQLite initializes or connects to the users database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLiteStore{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Get(ctx context.Context, username string) (Record, error) {
	ctx = ensureContext(ctx)
	var row userRow
	err := retryOnBusy(ctx, func() error {
		return s.db.GetContext(ctx, &row, "SELECT * FROM users WHERE username = ?", username)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %q", ErrUserNotFound, username)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get user: %w", err)
	}
	return row.record(), nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	ctx = ensureContext(ctx)
	var names []string
	err := retryOnBusy(ctx, func() error {
		names = names[:0]
		return s.db.SelectContext(ctx, &names, "SELECT username FROM users ORDER BY created_at, username")
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return names, nil
}

// Put inserts or replaces rec; created_at survives replacement.
func (s *SQLiteStore) Put(ctx context.Context, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	ctx = ensureContext(ctx)
	row := rowFor(rec, time.Now())
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.NamedExecContext(ctx, `
INSERT INTO users (username, salt, password_hash, library, created_at, updated_at)
VALUES (:username, :salt, :password_hash, :library, :created_at, :updated_at)
ON CONFLICT(username) DO UPDATE SET
    salt = excluded.salt,
    password_hash = excluded.password_hash,
    library = excluded.library,
    updated_at = excluded.updated_at`, row)
		return err
	})
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	ctx = ensureContext(ctx)
	row := rowFor(rec, time.Now())
	var inserted int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.NamedExecContext(ctx, `
INSERT INTO users (username, salt, password_hash, library, created_at, updated_at)
VALUES (:username, :salt, :password_hash, :library, :created_at, :updated_at)
ON CONFLICT(username) DO NOTHING`, row)
		if err != nil {
			return err
		}
		inserted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if inserted == 0 {
		return fmt.Errorf("%w: %q", ErrUserExists, rec.Username)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, username string) error {
	ctx = ensureContext(ctx)
	var deleted int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE username = ?", username)
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %q", ErrUserNotFound, username)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.GetContext(ctx, &tableExists,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'")
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.GetContext(ctx, &version, "SELECT version FROM schema_version LIMIT 1"); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (export your libraries and delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *SQLiteStore) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
