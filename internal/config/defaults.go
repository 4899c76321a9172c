package config

const (
	defaultConfigPath         = "~/.config/tunelib/config.toml"
	defaultDataDir            = "~/.local/share/tunelib"
	defaultCatalogDir         = "~/.local/share/tunelib/albums"
	defaultLogDir             = "~/.local/share/tunelib/logs"
	defaultStoreBackend       = BackendFile
	defaultUsersFile          = "users.json"
	defaultSQLiteFile         = "tunelib.db"
	defaultLockTimeoutSeconds = 5
	defaultIndexFile          = "albums.txt"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			CatalogDir: defaultCatalogDir,
			LogDir:     defaultLogDir,
		},
		Store: Store{
			Backend:            defaultStoreBackend,
			UsersFile:          defaultUsersFile,
			SQLiteFile:         defaultSQLiteFile,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Catalog: Catalog{
			IndexFile: defaultIndexFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
