// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"vodscribe/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.LLM.APIKey = "test"
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithProvider sets the LLM provider on the test config.
func WithProvider(provider string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.LLM.Provider = provider
	}
}

// WithNtfyTopic enables notifications on the test config.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}
