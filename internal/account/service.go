package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tunelib/internal/logging"
	"tunelib/internal/textutil"
	"tunelib/internal/userstore"
	"tunelib/internal/wire"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service registers, authenticates, and saves users against a store.
type Service struct {
	store  userstore.Store
	logger *slog.Logger
}

// NewService wires a store and logger.
func NewService(store userstore.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logging.NewComponentLogger(logger, "account")}
}

// Register creates and persists a new user.
func (s *Service) Register(ctx context.Context, name, password string) (*User, error) {
	u, err := New(name, password)
	if err != nil {
		return nil, err
	}
	rec, err := u.Record()
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("register %q: %w", name, err)
	}
	logging.WithContext(ctx, s.logger).Info("user registered", logging.String(logging.FieldUsername, u.Name))
	return u, nil
}

// Login authenticates and loads the user's library. Library problems are
// logged and returned in the report; they never fail the login.
func (s *Service) Login(ctx context.Context, name, password string) (*User, *wire.Report, error) {
	name = textutil.ValidUTF8(name)
	logger := logging.WithContext(ctx, s.logger).With(logging.String(logging.FieldUsername, name))
	rec, err := s.store.Get(ctx, name)
	if errors.Is(err, userstore.ErrUserNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}

	u, report, err := FromRecord(rec)
	if !u.CheckPassword(password) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		logging.WarnWithContext(logger, "library unreadable; starting empty", "library_decode_failed",
			logging.String(logging.FieldErrorHint, "run 'tunelib export' to inspect stored data"),
			logging.String(logging.FieldImpact, "saved songs, albums, and playlists are missing"),
			logging.Error(err),
		)
	} else if !report.Clean() {
		logging.WarnWithContext(logger, "library loaded with problems", "library_load_issues",
			logging.String(logging.FieldImpact, "some library entries were skipped"),
			logging.String("summary", report.Summary()),
			logging.Int("issues", len(report.Issues)),
		)
		for _, issue := range report.Issues {
			logger.Debug("library load issue", logging.String("kind", issue.ErrorKind()), logging.Error(issue))
		}
	}
	logger.Debug("user logged in", logging.Int("songs", u.Library.SongCount()))
	return u, report, nil
}

// Save persists u and its library. The in-memory user is unchanged on failure.
func (s *Service) Save(ctx context.Context, u *User) error {
	rec, err := u.Record()
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("save %q: %w", u.Name, err)
	}
	logging.WithContext(ctx, s.logger).Debug("user saved",
		logging.String(logging.FieldUsername, u.Name),
		logging.Int("bytes", len(rec.Library)))
	return nil
}
