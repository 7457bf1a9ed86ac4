package testsupport

import (
	"context"
	"testing"

	"spotlyric/internal/config"
	"spotlyric/internal/searchcache"
)

// MustOpenStore opens the configured search cache for tests and registers
// cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *searchcache.Store {
	t.Helper()

	store, err := searchcache.Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open search cache: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
