// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used. The user config directory is appended at load time.
var DefaultConfigPaths = []string{
	"clipshare.yaml",
	"clipshare.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Store backends.
const (
	SessionStoreMemory = "memory"
	SessionStoreBadger = "badger"
)

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Origin:          "http://localhost:5000/api",
			DefaultTimeout:  15 * time.Second,
			MediaTimeout:    15 * time.Second,
			CommentsTimeout: 10 * time.Second,
			UploadTimeout:   30 * time.Second,
		},
		Catalog: CatalogConfig{
			RetryDelay:  5 * time.Second,
			LatestLimit: 12,
			LatestSort:  "-createdAt",
		},
		Engagement: EngagementConfig{
			MaxThreads: 500,
		},
		Transport: TransportConfig{
			RateLimitRPS:   0, // unlimited
			RateLimitBurst: 10,
			Breaker: BreakerConfig{
				Enabled:      true,
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Session: SessionConfig{
			Store: SessionStoreBadger,
			Path:  defaultSessionPath(),
		},
		Metrics: MetricsConfig{
			Addr: "127.0.0.1:9095",
		},
		Watch: WatchConfig{
			Interval: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// defaultSessionPath places the credential store under the user config directory.
func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "clipshare", "session")
	}
	return filepath.Join(dir, "clipshare", "session")
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// API_URL -> api.origin, BREAKER_TIMEOUT -> transport.breaker.timeout
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FilePath returns the config file Load reads, or "" when there is none.
func FilePath() string {
	return findConfigFile()
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	paths := DefaultConfigPaths
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(append([]string(nil), paths...), filepath.Join(dir, "clipshare", "config.yaml"))
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak into config.
var envMappings = map[string]string{
	// API mappings
	"api_url":          "api.origin",
	"clipshare_api":    "api.origin",
	"media_origin":     "api.media_origin",
	"api_timeout":      "api.default_timeout",
	"media_timeout":    "api.media_timeout",
	"comments_timeout": "api.comments_timeout",
	"upload_timeout":   "api.upload_timeout",

	// Catalog mappings
	"catalog_retry_delay": "catalog.retry_delay",
	"latest_limit":        "catalog.latest_limit",
	"latest_sort":         "catalog.latest_sort",

	// Engagement mappings
	"engagement_max_threads": "engagement.max_threads",

	// Transport mappings
	"rate_limit_rps":        "transport.rate_limit_rps",
	"rate_limit_burst":      "transport.rate_limit_burst",
	"breaker_enabled":       "transport.breaker.enabled",
	"breaker_max_requests":  "transport.breaker.max_requests",
	"breaker_interval":      "transport.breaker.interval",
	"breaker_timeout":       "transport.breaker.timeout",
	"breaker_min_requests":  "transport.breaker.min_requests",
	"breaker_failure_ratio": "transport.breaker.failure_ratio",

	// Session store mappings
	"session_store":      "session.store",
	"session_store_path": "session.path",

	// Metrics and watch mappings
	"metrics_addr":   "metrics.addr",
	"watch_interval": "watch.interval",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - API_URL -> api.origin
//   - UPLOAD_TIMEOUT -> api.upload_timeout
//   - SESSION_STORE -> session.store
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for synchronizing access to reloaded configuration.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
