// Package config provides configuration management for chaosq.
//
// This file contains config loading functionality including:
// - XDG config path detection
// - TOML file parsing
// - Environment variable overrides
// - Validation
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	cqerrors "github.com/chazuruo/chaosq/internal/errors"
)

// DefaultConfigPath returns ~/.config/chaosq/config.toml (honouring XDG_CONFIG_HOME).
func DefaultConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chaosq", "config.toml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "chaosq", "config.toml"), nil
}

// DetectConfigPath searches for a config file using XDG standard paths.
// Returns the first config file found, or empty string if none exists.
func DetectConfigPath() string {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}
	return ""
}

// Load loads a config from the specified path.
// If the file doesn't exist, returns an error.
// After loading, applies environment variable overrides and validates.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &cqerrors.ConfigError{Path: path, Err: cqerrors.ErrNotFound}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &cqerrors.ConfigError{Path: path, Err: fmt.Errorf("failed to read: %w", err)}
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &cqerrors.ConfigError{Path: path, Err: fmt.Errorf("failed to parse: %w", err)}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, &cqerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %w", cqerrors.ErrInvalid, err)}
	}

	return cfg, nil
}

// LoadWithDefaults loads path if given, otherwise the detected XDG config.
// If no config file is found, returns a validated config with all default values.
func LoadWithDefaults(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	configPath := DetectConfigPath()
	if configPath == "" {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, &cqerrors.ConfigError{Err: fmt.Errorf("%w: %w", cqerrors.ErrInvalid, err)}
		}
		return cfg, nil
	}

	return Load(configPath)
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables follow the pattern: CHAOSQ_<SECTION>_<FIELD>
//
// Examples:
// - CHAOSQ_SERVER_URL overrides [server].url
// - CHAOSQ_SERVER_TOKEN overrides [server].token
// - CHAOSQ_SEARCH_DEBOUNCE overrides [search].debounce ("250ms")
//
// Boolean fields: use "true"/"false" strings
func applyEnvOverrides(c *Config) {
	applyString := func(key string, target *string) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			*target = val
		}
	}

	applyBool := func(key string, target *bool) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			switch strings.ToLower(val) {
			case "true", "1", "yes", "on":
				*target = true
			case "false", "0", "no", "off":
				*target = false
			}
		}
	}

	applyInt := func(key string, target *int) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			if i, err := strconv.Atoi(val); err == nil {
				*target = i
			}
		}
	}

	applyFloat := func(key string, target *float64) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				*target = f
			}
		}
	}

	applyDuration := func(key string, target *Duration) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			if d, err := time.ParseDuration(val); err == nil {
				*target = Duration(d)
			}
		}
	}

	// Server section
	applyString("CHAOSQ_SERVER_URL", &c.Server.URL)
	applyString("CHAOSQ_SERVER_TOKEN", &c.Server.Token)
	applyString("CHAOSQ_SERVER_NAMESPACE", &c.Server.Namespace)
	applyDuration("CHAOSQ_SERVER_TIMEOUT", &c.Server.Timeout)
	applyFloat("CHAOSQ_SERVER_QPS", &c.Server.QPS)
	applyInt("CHAOSQ_SERVER_BURST", &c.Server.Burst)

	// Search section
	applyDuration("CHAOSQ_SEARCH_DEBOUNCE", &c.Search.Debounce)
	applyString("CHAOSQ_SEARCH_MATCHER", &c.Search.Matcher)
	applyInt("CHAOSQ_SEARCH_LIMIT", &c.Search.Limit)

	// TUI section
	applyBool("CHAOSQ_TUI_ENABLED", &c.TUI.Enabled)
	applyBool("CHAOSQ_TUI_SHOW_HELP", &c.TUI.ShowHelp)

	// Output section
	applyString("CHAOSQ_OUTPUT_FORMAT", &c.Output.Format)

	// Log section
	applyString("CHAOSQ_LOG_LEVEL", &c.Log.Level)
	applyString("CHAOSQ_LOG_FORMAT", &c.Log.Format)
}
