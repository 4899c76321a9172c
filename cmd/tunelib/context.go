package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tunelib/internal/account"
	"tunelib/internal/catalog"
	"tunelib/internal/config"
	"tunelib/internal/logging"
	"tunelib/internal/userstore"
	"tunelib/internal/wire"
)

type commandContext struct {
	configFlag   *string
	userFlag     *string
	passwordFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logger    *slog.Logger
	sessionID string
}

func newCommandContext(configFlag, userFlag, passwordFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		userFlag:     userFlag,
		passwordFlag: passwordFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// startSession builds the logger and tags the command context with a fresh
// session id so every log line of this invocation can be correlated.
func (c *commandContext) startSession(cmd *cobra.Command) error {
	logger, err := logging.NewFromConfig(c.config)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	c.sessionID = uuid.NewString()
	c.logger = logger
	cmd.SetContext(logging.WithSessionID(cmd.Context(), c.sessionID))
	logging.WithContext(cmd.Context(), logger).Debug("command started",
		logging.String("command", cmd.CommandPath()))
	return nil
}

func (c *commandContext) loggerValue() *slog.Logger {
	if c.logger == nil {
		return logging.NewNop()
	}
	return c.logger
}

func (c *commandContext) credentials() (string, string, error) {
	name := strings.TrimSpace(flagOrEnv(c.userFlag, "TUNELIB_USER"))
	if name == "" {
		return "", "", errors.New("no user given; pass --user or set TUNELIB_USER")
	}
	password := flagOrEnv(c.passwordFlag, "TUNELIB_PASSWORD")
	if password == "" {
		return "", "", errors.New("no password given; pass --password or set TUNELIB_PASSWORD")
	}
	return name, password, nil
}

func flagOrEnv(flag *string, env string) string {
	if flag != nil && *flag != "" {
		return *flag
	}
	return os.Getenv(env)
}

// withStore opens the configured user store for the duration of fn.
func (c *commandContext) withStore(fn func(userstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := userstore.Open(cfg, c.loggerValue())
	if err != nil {
		return fmt.Errorf("open user store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			c.loggerValue().Warn("failed to close user store", logging.Error(err))
		}
	}()
	return fn(store)
}

func (c *commandContext) withAccounts(fn func(*account.Service) error) error {
	return c.withStore(func(store userstore.Store) error {
		return fn(account.NewService(store, c.loggerValue()))
	})
}

// withUser logs in, runs fn against the user's library, and saves the
// library afterwards when save is true and fn succeeded.
func (c *commandContext) withUser(ctx context.Context, save bool, fn func(*account.User, *wire.Report) error) error {
	name, password, err := c.credentials()
	if err != nil {
		return err
	}
	return c.withAccounts(func(svc *account.Service) error {
		user, report, err := svc.Login(ctx, name, password)
		if err != nil {
			return err
		}
		if err := fn(user, report); err != nil {
			return err
		}
		if !save {
			return nil
		}
		return svc.Save(ctx, user)
	})
}

// loadCatalog reads the configured album catalog. Problems are logged and
// skipped.
func (c *commandContext) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	cat, problems, err := catalog.Load(ctx, cfg.Catalog.IndexFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(c.loggerValue(), "catalog"))
	for _, p := range problems {
		logging.WarnWithContext(logger, "catalog entry skipped", "catalog_entry_invalid",
			logging.String(logging.FieldErrorHint, "fix or remove the entry in "+p.Path),
			logging.String(logging.FieldImpact, "album unavailable for adding"),
			logging.Error(p),
		)
	}
	return cat, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
