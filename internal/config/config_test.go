package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Budgets.Station != defaultStationTimeout {
		t.Errorf("station budget = %d, want %d", cfg.Budgets.Station, defaultStationTimeout)
	}
	if len(cfg.Directory.Servers) != 4 {
		t.Errorf("servers = %v, want 4 defaults", cfg.Directory.Servers)
	}
	if cfg.Logos.Size != 335 || cfg.Logos.ThumbSize != 80 {
		t.Errorf("logo sizes = %d/%d, want 335/80", cfg.Logos.Size, cfg.Logos.ThumbSize)
	}
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
output_dir = "` + filepath.Join(dir, "out") + `"

[directory]
servers = ["https://example.org/ "]
limit = 25

[budgets]
station_timeout = 10
logo_timeout = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Directory.Servers[0]; got != "https://example.org" {
		t.Errorf("server not trimmed: %q", got)
	}
	if cfg.Directory.Limit != 25 {
		t.Errorf("limit = %d, want 25", cfg.Directory.Limit)
	}
	if cfg.Budgets.Station != 10 || cfg.Budgets.Logo != 5 {
		t.Errorf("budgets = %d/%d, want 10/5", cfg.Budgets.Station, cfg.Budgets.Logo)
	}
}

func TestLoadRejectsLogoBudgetAtOrAboveStationBudget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[budgets]
station_timeout = 30
logo_timeout = 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for equal budgets")
	}
}

func TestLoadRejectsRelativeServer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[directory]
servers = ["not-a-url"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "absolute URL") {
		t.Fatalf("expected absolute URL error, got %v", err)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.OutputDir = "/srv/radio"
	if got := cfg.PlaylistDir(); got != filepath.Join("/srv/radio", "RADIO") {
		t.Errorf("PlaylistDir = %q", got)
	}
	if got := cfg.ThumbDir(); got != filepath.Join("/srv/radio", "radio-logos", "thumbs") {
		t.Errorf("ThumbDir = %q", got)
	}
	if got := cfg.DatasetPath(); got != filepath.Join("/srv/radio", "station_data.json") {
		t.Errorf("DatasetPath = %q", got)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected error when sample exists")
	}
}

func TestUserAgentEnvOverride(t *testing.T) {
	t.Setenv("STATIONPACK_USER_AGENT", "custom-agent/2.0")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Directory.UserAgent != "custom-agent/2.0" {
		t.Errorf("user agent = %q, want env override", cfg.Directory.UserAgent)
	}
}
