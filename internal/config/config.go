// Package config provides configuration management for chaosq.
//
// The configuration is stored in TOML format and supports validation
// and default values for all fields.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the top-level configuration struct for chaosq.
// It contains all configuration sections as embedded structs.
type Config struct {
	Server ServerConfig `toml:"server"`
	Search SearchConfig `toml:"search"`
	TUI    TUIConfig    `toml:"tui"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig contains dashboard API settings.
type ServerConfig struct {
	// URL is the dashboard base URL (e.g., "http://localhost:2333").
	URL string `toml:"url"`

	// Token is an optional bearer token sent with every request.
	Token string `toml:"token"`

	// Namespace restricts list requests to a single namespace (empty = all).
	Namespace string `toml:"namespace"`

	// Timeout bounds every HTTP request.
	Timeout Duration `toml:"timeout"`

	// QPS is the client-side request rate limit (0 disables limiting).
	QPS float64 `toml:"qps"`

	// Burst is the rate limiter burst size.
	Burst int `toml:"burst"`
}

// SearchConfig contains aggregated search settings.
type SearchConfig struct {
	// Debounce is the quiet window before a typed query triggers a fetch.
	Debounce Duration `toml:"debounce"`

	// Matcher selects the matching policy.
	// Valid values: "substring", "fuzzy".
	Matcher string `toml:"matcher"`

	// Limit caps the number of results per group (0 = unlimited).
	Limit int `toml:"limit"`
}

// TUIConfig contains terminal UI settings.
type TUIConfig struct {
	// Enabled controls whether to use the TUI (when false, falls back to CLI).
	Enabled bool `toml:"enabled"`

	// ShowHelp controls whether to show the key help line.
	ShowHelp bool `toml:"show_help"`
}

// OutputConfig contains non-interactive output settings.
type OutputConfig struct {
	// Format is the default output format.
	// Valid values: "table", "plain", "json", "yaml".
	Format string `toml:"format"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// Format selects the slog handler.
	// Valid values: "text", "json".
	Format string `toml:"format"`
}

// Duration is a time.Duration that reads and writes as a string ("500ms").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// DefaultConfig returns a Config with all default values set.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:       "http://localhost:2333",
			Token:     "",
			Namespace: "",
			Timeout:   Duration(30 * time.Second),
			QPS:       10,
			Burst:     20,
		},
		Search: SearchConfig{
			Debounce: Duration(500 * time.Millisecond),
			Matcher:  "substring",
			Limit:    0,
		},
		TUI: TUIConfig{
			Enabled:  true,
			ShowHelp: true,
		},
		Output: OutputConfig{
			Format: "table",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration for valid values.
// Returns a nil error if the config is valid, or an error describing the problem.
func (c *Config) Validate() error {
	// Validate Server section
	if c.Server.URL == "" {
		return fmt.Errorf("server.url cannot be empty")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url must use http or https; got %q", c.Server.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("server.url must include a host; got %q", c.Server.URL)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be > 0; got %s", c.Server.Timeout.Std())
	}
	if c.Server.QPS < 0 {
		return fmt.Errorf("server.qps must be >= 0; got %v", c.Server.QPS)
	}
	if c.Server.QPS > 0 && c.Server.Burst < 1 {
		return fmt.Errorf("server.burst must be >= 1 when server.qps is set; got %d", c.Server.Burst)
	}

	// Validate Search section
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must be >= 0; got %s", c.Search.Debounce.Std())
	}
	validMatchers := map[string]bool{
		"substring": true,
		"fuzzy":     true,
	}
	if !validMatchers[c.Search.Matcher] {
		return fmt.Errorf("search.matcher must be one of: substring, fuzzy; got %q", c.Search.Matcher)
	}
	if c.Search.Limit < 0 {
		return fmt.Errorf("search.limit must be >= 0; got %d", c.Search.Limit)
	}

	// Validate Output section
	validFormats := map[string]bool{
		"table": true,
		"plain": true,
		"json":  true,
		"yaml":  true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output.format must be one of: table, plain, json, yaml; got %q", c.Output.Format)
	}

	// Validate Log section
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be one of: text, json; got %q", c.Log.Format)
	}

	return nil
}
