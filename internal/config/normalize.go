package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDirectory()
	c.normalizeBudgets()
	c.normalizeLogos()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDirectory() {
	servers := make([]string, 0, len(c.Directory.Servers))
	for _, server := range c.Directory.Servers {
		trimmed := strings.TrimRight(strings.TrimSpace(server), "/")
		if trimmed != "" {
			servers = append(servers, trimmed)
		}
	}
	if len(servers) == 0 {
		servers = defaultServers()
	}
	c.Directory.Servers = servers

	if env := strings.TrimSpace(os.Getenv("STATIONPACK_USER_AGENT")); env != "" {
		c.Directory.UserAgent = env
	}
	if strings.TrimSpace(c.Directory.UserAgent) == "" {
		c.Directory.UserAgent = defaultUserAgent
	}
	if c.Directory.RequestTimeout <= 0 {
		c.Directory.RequestTimeout = defaultRequestTimeout
	}
	if c.Directory.Limit <= 0 {
		c.Directory.Limit = defaultLimit
	}
	if c.Directory.RequestDelayMS < 0 {
		c.Directory.RequestDelayMS = defaultRequestDelayMS
	}
}

func (c *Config) normalizeBudgets() {
	if c.Budgets.Station <= 0 {
		c.Budgets.Station = defaultStationTimeout
	}
	if c.Budgets.Logo <= 0 {
		c.Budgets.Logo = defaultLogoTimeout
	}
}

func (c *Config) normalizeLogos() {
	if c.Logos.Size <= 0 {
		c.Logos.Size = defaultLogoSize
	}
	if c.Logos.ThumbSize <= 0 {
		c.Logos.ThumbSize = defaultThumbSize
	}
	if c.Logos.Quality <= 0 || c.Logos.Quality > 100 {
		c.Logos.Quality = defaultLogoQuality
	}
	if c.Logos.ThumbQuality <= 0 || c.Logos.ThumbQuality > 100 {
		c.Logos.ThumbQuality = defaultThumbQuality
	}
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
}
