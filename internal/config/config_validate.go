// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package config

import (
	"fmt"
	"time"
)

// Validate checks that configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	if err := c.validateTransport(); err != nil {
		return err
	}

	if err := c.validateSession(); err != nil {
		return err
	}

	if c.Engagement.MaxThreads < 1 {
		return fmt.Errorf("ENGAGEMENT_MAX_THREADS must be at least 1")
	}

	if c.Watch.Interval < time.Second {
		return fmt.Errorf("WATCH_INTERVAL must be at least 1s")
	}

	return c.validateLogging()
}

// validateAPI validates the API origin and request timeouts
func (c *Config) validateAPI() error {
	if c.API.Origin == "" {
		return fmt.Errorf("API_URL is required")
	}
	if err := validateHTTPURL(c.API.Origin, "API_URL"); err != nil {
		return err
	}
	if c.API.MediaOriginOverride != "" {
		if err := validateHTTPURL(c.API.MediaOriginOverride, "MEDIA_ORIGIN"); err != nil {
			return err
		}
	}

	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"API_TIMEOUT", c.API.DefaultTimeout},
		{"MEDIA_TIMEOUT", c.API.MediaTimeout},
		{"COMMENTS_TIMEOUT", c.API.CommentsTimeout},
		{"UPLOAD_TIMEOUT", c.API.UploadTimeout},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", t.name, t.value)
		}
	}
	return nil
}

// validateCatalog validates retry and latest-page settings
func (c *Config) validateCatalog() error {
	if c.Catalog.RetryDelay <= 0 {
		return fmt.Errorf("CATALOG_RETRY_DELAY must be positive")
	}
	if c.Catalog.LatestLimit < 1 || c.Catalog.LatestLimit > 100 {
		return fmt.Errorf("LATEST_LIMIT must be between 1 and 100")
	}
	if c.Catalog.LatestSort == "" {
		return fmt.Errorf("LATEST_SORT is required")
	}
	return nil
}

// validateTransport validates limiter and breaker settings
func (c *Config) validateTransport() error {
	if c.Transport.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if c.Transport.RateLimitRPS > 0 && c.Transport.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}

	b := c.Transport.Breaker
	if !b.Enabled {
		return nil
	}
	if b.MaxRequests < 1 {
		return fmt.Errorf("BREAKER_MAX_REQUESTS must be at least 1")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	return nil
}

// validateSession validates the credential store selection
func (c *Config) validateSession() error {
	switch c.Session.Store {
	case SessionStoreMemory:
		return nil
	case SessionStoreBadger:
		if c.Session.Path == "" {
			return fmt.Errorf("SESSION_STORE_PATH is required when SESSION_STORE=badger")
		}
		return nil
	default:
		return fmt.Errorf("SESSION_STORE must be one of: memory, badger")
	}
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
