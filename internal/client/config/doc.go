// Package config loads runtime configuration for the staffdir console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the remote directory service (e.g. http://localhost:3000)
//	-t int      request timeout (seconds)
//	-p int      employees shown per page
//
// # JSON schema
//
// Durations are given as strings accepted by time.ParseDuration:
//
//	{
//	  "base_url": "http://localhost:3000",
//	  "request_timeout": "10s",
//	  "page_size": 7
//	}
//
// Primary API
//
//   - type Config                     — holds BaseURL, RequestTimeout, PageSize
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//   - func (*Config) Validate() error — fail-fast startup check; the base URL is mandatory
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
