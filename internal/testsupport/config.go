package testsupport

import (
	"path/filepath"
	"testing"

	"mediapress/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("create test directories: %v", err)
	}
	return &cfg
}

// WithRenotifyInterval overrides the reconciliation interval in seconds.
func WithRenotifyInterval(seconds int) ConfigOption {
	return func(c *config.Config) {
		c.Scheduler.RenotifyInterval = seconds
	}
}

// WithRenotifyBatch overrides the reconciliation batch size.
func WithRenotifyBatch(size int) ConfigOption {
	return func(c *config.Config) {
		c.Scheduler.RenotifyBatch = size
	}
}
