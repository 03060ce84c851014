// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package config

import (
	"strings"
	"time"
)

// Config holds all client configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (clipshare.yaml)
//  3. Environment Variables: Override any setting via environment variables
//
// Example - Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	resolver := mediaurl.New(cfg.API.MediaOrigin())
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	API        APIConfig        `koanf:"api"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Engagement EngagementConfig `koanf:"engagement"`
	Transport  TransportConfig  `koanf:"transport"`
	Session    SessionConfig    `koanf:"session"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Watch      WatchConfig      `koanf:"watch"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// APIConfig locates the authority and bounds request durations.
//
// Environment Variables:
//   - API_URL: API origin (default: http://localhost:5000/api)
//   - MEDIA_ORIGIN: origin for stored media references (default: API_URL without /api)
//   - API_TIMEOUT: default request timeout (default: 15s)
//   - MEDIA_TIMEOUT: GET /media timeout (default: 15s)
//   - COMMENTS_TIMEOUT: GET /media/{id}/comments timeout (default: 10s)
//   - UPLOAD_TIMEOUT: POST /media timeout (default: 30s)
type APIConfig struct {
	Origin              string        `koanf:"origin"`
	MediaOriginOverride string        `koanf:"media_origin"`
	DefaultTimeout      time.Duration `koanf:"default_timeout"`
	MediaTimeout        time.Duration `koanf:"media_timeout"`
	CommentsTimeout     time.Duration `koanf:"comments_timeout"`
	UploadTimeout       time.Duration `koanf:"upload_timeout"`
}

// MediaOrigin returns the origin that stored media references are resolved
// against: the explicit override, or the API origin with its /api suffix removed.
func (a APIConfig) MediaOrigin() string {
	if a.MediaOriginOverride != "" {
		return strings.TrimRight(a.MediaOriginOverride, "/")
	}
	origin := strings.TrimRight(a.Origin, "/")
	return strings.TrimSuffix(origin, "/api")
}

// CatalogConfig controls media list retrieval.
type CatalogConfig struct {
	// RetryDelay is the delay before the single background retry of a failed full fetch.
	RetryDelay time.Duration `koanf:"retry_delay"`

	// LatestLimit is the default page size of GET /media/latest.
	LatestLimit int `koanf:"latest_limit"`

	// LatestSort is the default sort order of GET /media/latest.
	LatestSort string `koanf:"latest_sort"`
}

// EngagementConfig bounds the in-memory comment threads.
type EngagementConfig struct {
	MaxThreads int `koanf:"max_threads"`
}

// TransportConfig holds outbound rate limiting and circuit breaker settings.
type TransportConfig struct {
	// RateLimitRPS is the sustained request rate; 0 disables the limiter.
	RateLimitRPS   float64       `koanf:"rate_limit_rps"`
	RateLimitBurst int           `koanf:"rate_limit_burst"`
	Breaker        BreakerConfig `koanf:"breaker"`
}

// BreakerConfig mirrors gobreaker.Settings.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// SessionConfig selects where the login credential is kept.
//
// Environment Variables:
//   - SESSION_STORE: memory or badger (default: badger)
//   - SESSION_STORE_PATH: BadgerDB directory (default: <user config dir>/clipshare/session)
type SessionConfig struct {
	Store string `koanf:"store"`
	Path  string `koanf:"path"`
}

// MetricsConfig controls the /metrics listener of `clipshare watch`.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// WatchConfig controls the dashboard refresh loop.
type WatchConfig struct {
	Interval time.Duration `koanf:"interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: console
	Format string `koanf:"format"`

	// Caller includes the caller file and line in log entries.
	Caller bool `koanf:"caller"`
}
