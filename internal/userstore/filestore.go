package userstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"tunelib/internal/fileutil"
	"tunelib/internal/logging"
)

const lockRetryDelay = 25 * time.Millisecond

// FileStore keeps all users in a single document:
//
//	{"users":[{"username":..,"salt":..,"hashedPassword":..,"library":{..}}]}
//
// Every operation holds <path>.lock: shared for reads, exclusive for writes.
// The lock coordinates processes; mu serializes callers sharing one FileStore.
type FileStore struct {
	mu      sync.Mutex
	path    string
	lock    *flock.Flock
	timeout time.Duration
	logger  *slog.Logger
}

// NewFileStore returns a store backed by path. A zero timeout waits until
// the context is done.
func NewFileStore(path string, timeout time.Duration, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:    path,
		lock:    flock.New(path + ".lock"),
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "userstore"),
	}
}

// Path returns the users file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(ctx context.Context, username string) (Record, error) {
	var rec Record
	err := s.withLock(ctx, false, func() error {
		records, err := s.load(ctx, false)
		if err != nil {
			return err
		}
		for _, r := range records {
			if r.Username == username {
				rec = r
				return nil
			}
		}
		return fmt.Errorf("%w: %q", ErrUserNotFound, username)
	})
	return rec, err
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	var names []string
	err := s.withLock(ctx, false, func() error {
		records, err := s.load(ctx, false)
		if err != nil {
			return err
		}
		for _, r := range records {
			names = append(names, r.Username)
		}
		return nil
	})
	return names, err
}

// Put inserts or replaces rec, keeping the position of an existing entry.
func (s *FileStore) Put(ctx context.Context, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	return s.withLock(ctx, true, func() error {
		records, err := s.load(ctx, true)
		if err != nil {
			return err
		}
		replaced := false
		for i := range records {
			if records[i].Username == rec.Username {
				records[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			records = append(records, rec)
		}
		return s.save(records)
	})
}

func (s *FileStore) Create(ctx context.Context, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	return s.withLock(ctx, true, func() error {
		records, err := s.load(ctx, true)
		if err != nil {
			return err
		}
		for _, r := range records {
			if r.Username == rec.Username {
				return fmt.Errorf("%w: %q", ErrUserExists, rec.Username)
			}
		}
		return s.save(append(records, rec))
	})
}

func (s *FileStore) Delete(ctx context.Context, username string) error {
	return s.withLock(ctx, true, func() error {
		records, err := s.load(ctx, true)
		if err != nil {
			return err
		}
		for i, r := range records {
			if r.Username == username {
				return s.save(append(records[:i], records[i+1:]...))
			}
		}
		return fmt.Errorf("%w: %q", ErrUserNotFound, username)
	})
}

// Close is a no-op; locks are released after each operation.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create users directory: %w", err)
	}

	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = s.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = s.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrLockTimeout, s.lock.Path())
		}
		return fmt.Errorf("acquire users lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLockTimeout, s.lock.Path())
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release users lock", logging.Error(err))
		}
	}()
	return fn()
}

// load reads every record it can. A missing file is an empty store. On the
// read path an unreadable file is logged and treated as empty, and a
// malformed one yields the entries that parsed. The write path refuses to
// continue unless every existing entry is either loaded or preserved in a
// backup, since the save that follows replaces the file.
func (s *FileStore) load(ctx context.Context, forWrite bool) ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if forWrite {
			return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
		}
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "users file unreadable; starting empty", "users_file_unreadable",
			logging.String(logging.FieldErrorHint, "check file permissions on "+s.path),
			logging.String(logging.FieldImpact, "no stored users are available"),
			logging.Error(err),
		)
		return nil, nil
	}

	records, err := decodeUsers(data)
	if err != nil {
		backup := s.path + ".corrupt"
		if copyErr := fileutil.CopyFile(s.path, backup); copyErr != nil {
			if forWrite {
				return nil, fmt.Errorf("%w: back up damaged file: %w", ErrUnreadable, errors.Join(err, copyErr))
			}
			backup = ""
		}
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "users file damaged; keeping readable entries", "users_file_corrupt",
			logging.String(logging.FieldErrorHint, "inspect the backup copy "+backup),
			logging.String(logging.FieldImpact, "users after the damage are missing"),
			logging.Int("recovered", len(records)),
			logging.Error(err),
		)
	}
	return records, nil
}

func (s *FileStore) save(records []Record) error {
	if err := fileutil.WriteFileAtomic(s.path, encodeUsers(records), 0o600); err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	return nil
}
