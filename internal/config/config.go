package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains output directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Directory contains configuration for the Radio Browser directory service.
type Directory struct {
	Servers        []string `toml:"servers"`
	UserAgent      string   `toml:"user_agent"`
	RequestTimeout int      `toml:"request_timeout"`
	Limit          int      `toml:"limit"`
	RequestDelayMS int      `toml:"request_delay_ms"`
}

// Budgets contains the wall-clock budgets for guarded work, in seconds.
type Budgets struct {
	Station int `toml:"station_timeout"`
	Logo    int `toml:"logo_timeout"`
}

// Logos contains logo normalization sizes and JPEG qualities.
type Logos struct {
	Size         int `toml:"size"`
	ThumbSize    int `toml:"thumb_size"`
	Quality      int `toml:"quality"`
	ThumbQuality int `toml:"thumb_quality"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config is the root configuration document.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Directory Directory `toml:"directory"`
	Budgets   Budgets   `toml:"budgets"`
	Logos     Logos     `toml:"logos"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the expected config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "stationpack", "config.toml"), nil
}

// Load reads configuration from path. An empty path falls back to the
// default location; a missing file yields defaults.
func Load(path string) (*Config, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		resolved = defaultPath
	} else {
		expanded, err := expandPath(resolved)
		if err != nil {
			return nil, err
		}
		resolved = expanded
	}

	cfg := Default()
	data, err := os.ReadFile(resolved)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", resolved, err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteSample writes the embedded sample config to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", expanded, err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the output tree the session writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.PlaylistDir(), c.ThumbDir(), c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// PlaylistDir returns the directory holding .pls descriptors.
func (c *Config) PlaylistDir() string { return filepath.Join(c.Paths.OutputDir, "RADIO") }

// LogoDir returns the directory holding normalized logos.
func (c *Config) LogoDir() string { return filepath.Join(c.Paths.OutputDir, "radio-logos") }

// ThumbDir returns the directory holding logo thumbnails.
func (c *Config) ThumbDir() string { return filepath.Join(c.LogoDir(), "thumbs") }

// DatasetPath returns the persisted station metadata file.
func (c *Config) DatasetPath() string { return filepath.Join(c.Paths.OutputDir, "station_data.json") }

// CSVPath returns the tabular export file.
func (c *Config) CSVPath() string { return filepath.Join(c.Paths.OutputDir, "radiostreams.csv") }

// SummaryPath returns the run summary report file.
func (c *Config) SummaryPath() string { return filepath.Join(c.Paths.OutputDir, "run_summary.json") }

// ErrorReportPath returns the detailed error report file.
func (c *Config) ErrorReportPath() string {
	return filepath.Join(c.Paths.OutputDir, "error_report.json")
}

// ArchivePath returns the backup archive location.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.Paths.OutputDir, "moode_radio_backup.zip")
}

// LedgerPath returns the session ledger database location.
func (c *Config) LedgerPath() string { return filepath.Join(c.Paths.OutputDir, "ledger.db") }

// LockPath returns the lock file guarding the output directory.
func (c *Config) LockPath() string { return filepath.Join(c.Paths.OutputDir, ".stationpack.lock") }

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Clean(trimmed), nil
}
