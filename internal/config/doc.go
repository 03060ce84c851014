// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

/*
Package config provides configuration management for the Clipshare client.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file, then environment variables.

# Config File

The first file found wins:

  - $CONFIG_PATH
  - ./clipshare.yaml, ./clipshare.yml
  - <user config dir>/clipshare/config.yaml

Example:

	api:
	  origin: https://clips.example.com/api
	  upload_timeout: 60s
	catalog:
	  retry_delay: 5s
	  latest_limit: 12
	session:
	  store: badger
	logging:
	  level: debug

# Environment Variables

	API_URL, MEDIA_ORIGIN, API_TIMEOUT, MEDIA_TIMEOUT, COMMENTS_TIMEOUT,
	UPLOAD_TIMEOUT, CATALOG_RETRY_DELAY, LATEST_LIMIT, LATEST_SORT,
	ENGAGEMENT_MAX_THREADS, RATE_LIMIT_RPS, RATE_LIMIT_BURST, BREAKER_ENABLED,
	BREAKER_MAX_REQUESTS, BREAKER_INTERVAL, BREAKER_TIMEOUT,
	BREAKER_MIN_REQUESTS, BREAKER_FAILURE_RATIO, SESSION_STORE,
	SESSION_STORE_PATH, METRICS_ADDR, WATCH_INTERVAL, LOG_LEVEL, LOG_FORMAT,
	LOG_CALLER

Durations use Go syntax ("15s", "2m").
*/
package config
