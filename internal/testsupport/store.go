package testsupport

import (
	"testing"

	"mediapress/internal/config"
	"mediapress/internal/media"
)

// MustOpenStore opens a media.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *media.Store {
	t.Helper()

	store, err := media.Open(cfg)
	if err != nil {
		t.Fatalf("open media store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close media store: %v", err)
		}
	})
	return store
}
