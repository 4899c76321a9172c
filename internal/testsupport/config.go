package testsupport

import (
	"path/filepath"
	"testing"

	"tunelib/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.CatalogDir = filepath.Join(base, "albums")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Store.UsersFile = filepath.Join(cfgVal.Paths.DataDir, "users.json")
	cfgVal.Store.SQLiteFile = filepath.Join(cfgVal.Paths.DataDir, "tunelib.db")
	cfgVal.Store.LockTimeoutSeconds = 2
	cfgVal.Catalog.IndexFile = filepath.Join(cfgVal.Paths.CatalogDir, "albums.txt")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBackend selects the user store backend.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Backend = backend
	}
}

// WithCatalog writes a catalog under the config's catalog directory. Each
// album is keyed by "Title,Artist" and maps to its header line followed by
// track titles.
func WithCatalog(albums map[string][]string) ConfigOption {
	return func(b *configBuilder) {
		WriteCatalog(b.t, b.cfg.Paths.CatalogDir, albums)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
