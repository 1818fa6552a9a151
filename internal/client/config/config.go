package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings for the staffdir console.
//
// Fields:
//   - BaseURL: base URL of the remote directory service. Mandatory.
//   - RequestTimeout: per-request deadline for backend calls.
//   - PageSize: how many employees the list view shows per page.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	PageSize       int
}

// LoadDefaults populates c with sensible defaults. The base URL has no
// default: it must come from the JSON file or flags.
func (c *Config) LoadDefaults() {
	c.BaseURL = ""
	c.RequestTimeout = 10 * time.Second
	c.PageSize = 7
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports configuration faults that must stop startup rather than
// surface per-request later.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("directory service base url is required (-a flag or base_url in the config file)")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid directory service base url %q", c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page size must be at least 1, got %d", c.PageSize)
	}
	return nil
}
