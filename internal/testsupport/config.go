// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"stationpack/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config rooted in unique temp directories per test,
// with budgets small enough that guarded failures surface quickly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Budgets.Station = 5
	cfg.Budgets.Logo = 2
	cfg.Directory.RequestDelayMS = 0

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithServers overrides the directory mirror list on the test config.
func WithServers(servers ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Directory.Servers = servers
	}
}

// WithLogoSizes overrides logo and thumbnail dimensions on the test config.
func WithLogoSizes(logo, thumb int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Logos.Size = logo
		cfg.Logos.ThumbSize = thumb
	}
}
