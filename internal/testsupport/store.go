package testsupport

import (
	"testing"

	"tunelib/internal/config"
	"tunelib/internal/logging"
	"tunelib/internal/userstore"
)

// MustOpenStore opens the configured user store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) userstore.Store {
	t.Helper()

	store, err := userstore.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("userstore.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
