// Package cli provides global state and utilities for CLI commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/chazuruo/chaosq/internal/api"
	"github.com/chazuruo/chaosq/internal/config"
)

var (
	// NoTUI indicates that TUI/interactive mode should be disabled.
	// This is set by the global --no-tui flag.
	NoTUI bool

	// ConfigPath overrides the detected config file (--config).
	ConfigPath string

	// LogLevel overrides [log].level (--log-level).
	LogLevel string

	// ServerURL overrides [server].url (--server).
	ServerURL string

	// globalsMutex protects the global flag values for concurrent access.
	globalsMutex sync.RWMutex
)

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&NoTUI, "no-tui", false,
		"disable TUI/interactive mode; use plain text or JSON output")
	cmd.PersistentFlags().StringVar(&ConfigPath, "config", "",
		"config file path (default ~/.config/chaosq/config.toml)")
	cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "",
		"log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&ServerURL, "server", "",
		"dashboard URL, overrides [server].url")
}

// IsNoTUI returns true if TUI mode is disabled.
func IsNoTUI() bool {
	globalsMutex.RLock()
	defer globalsMutex.RUnlock()
	return NoTUI
}

// globals returns the config path, log level and server overrides.
func globals() (configPath, logLevel, serverURL string) {
	globalsMutex.RLock()
	defer globalsMutex.RUnlock()
	return ConfigPath, LogLevel, ServerURL
}

// Env is what most commands need: the effective config, a logger and a
// dashboard client built from them.
type Env struct {
	Config *config.Config
	Logger *slog.Logger
	Client *api.Client
}

// loadEnv loads the config, applies global flag overrides and builds the
// logger and API client. Logs go to stderr.
func loadEnv(stderr io.Writer) (*Env, error) {
	configPath, logLevel, serverURL := globals()

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	logger := newLogger(stderr, cfg.Log)

	client, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Env{Config: cfg, Logger: logger, Client: client}, nil
}

// newLogger builds the slog logger described by cfg.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newClient builds an API client from the [server] section.
func newClient(cfg *config.Config, logger *slog.Logger) (*api.Client, error) {
	client, err := api.New(cfg.Server.URL,
		api.WithTimeout(cfg.Server.Timeout.Std()),
		api.WithToken(cfg.Server.Token),
		api.WithNamespace(cfg.Server.Namespace),
		api.WithRateLimit(cfg.Server.QPS, cfg.Server.Burst),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

// configuredServer returns --server, or the server URL from the config.
func configuredServer() (string, error) {
	configPath, _, serverURL := globals()
	if serverURL != "" {
		return serverURL, nil
	}
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.Server.URL, nil
}
