package testsupport

import (
	"path/filepath"
	"testing"

	"jukebridge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Storage.APIKey = "test"
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.API.Bind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	return &cfg
}

// WithPollInterval overrides the bridge poll interval on the test config.
func WithPollInterval(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Bridge.PollInterval = seconds
	}
}

// WithSanitizeOnStart toggles the startup queue rewrite on the test config.
func WithSanitizeOnStart(enabled bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Bridge.SanitizeOnStart = enabled
	}
}
