package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDirectory(); err != nil {
		return err
	}
	if err := c.validateBudgets(); err != nil {
		return err
	}
	if err := c.validateLogos(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDirectory() error {
	if len(c.Directory.Servers) == 0 {
		return errors.New("directory.servers must list at least one endpoint")
	}
	for _, server := range c.Directory.Servers {
		parsed, err := url.Parse(server)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("directory.servers entry %q is not an absolute URL", server)
		}
	}
	return nil
}

func (c *Config) validateBudgets() error {
	if c.Budgets.Logo >= c.Budgets.Station {
		return fmt.Errorf("budgets.logo_timeout (%ds) must be smaller than budgets.station_timeout (%ds)",
			c.Budgets.Logo, c.Budgets.Station)
	}
	return nil
}

func (c *Config) validateLogos() error {
	if c.Logos.ThumbSize > c.Logos.Size {
		return fmt.Errorf("logos.thumb_size (%d) must not exceed logos.size (%d)", c.Logos.ThumbSize, c.Logos.Size)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}
