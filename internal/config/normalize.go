package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStore(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("TUNELIB_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogDir) == "" {
		c.Paths.CatalogDir = defaultCatalogDir
	}
	if c.Paths.CatalogDir, err = expandPath(c.Paths.CatalogDir); err != nil {
		return fmt.Errorf("paths.catalog_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() error {
	if value, ok := os.LookupEnv("TUNELIB_STORE_BACKEND"); ok && strings.TrimSpace(value) != "" {
		c.Store.Backend = value
	}
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = defaultStoreBackend
	}
	if strings.TrimSpace(c.Store.UsersFile) == "" {
		c.Store.UsersFile = defaultUsersFile
	}
	if strings.TrimSpace(c.Store.SQLiteFile) == "" {
		c.Store.SQLiteFile = defaultSQLiteFile
	}
	var err error
	if c.Store.UsersFile, err = resolveUnder(c.Paths.DataDir, c.Store.UsersFile); err != nil {
		return fmt.Errorf("store.users_file: %w", err)
	}
	if c.Store.SQLiteFile, err = resolveUnder(c.Paths.DataDir, c.Store.SQLiteFile); err != nil {
		return fmt.Errorf("store.sqlite_file: %w", err)
	}
	if c.Store.LockTimeoutSeconds == 0 {
		c.Store.LockTimeoutSeconds = defaultLockTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	if strings.TrimSpace(c.Catalog.IndexFile) == "" {
		c.Catalog.IndexFile = defaultIndexFile
	}
	var err error
	if c.Catalog.IndexFile, err = resolveUnder(c.Paths.CatalogDir, c.Catalog.IndexFile); err != nil {
		return fmt.Errorf("catalog.index_file: %w", err)
	}
	if strings.TrimSpace(c.Catalog.MusicDir) != "" {
		if c.Catalog.MusicDir, err = expandPath(c.Catalog.MusicDir); err != nil {
			return fmt.Errorf("catalog.music_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("TUNELIB_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// resolveUnder expands pathValue, joining bare relative names onto base.
func resolveUnder(base, pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if !strings.HasPrefix(pathValue, "~") && !filepath.IsAbs(pathValue) {
		pathValue = filepath.Join(base, pathValue)
	}
	return expandPath(pathValue)
}
