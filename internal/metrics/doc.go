// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

/*
Package metrics provides Prometheus metrics for the Clipshare client core.

All collectors are registered on the default registry through promauto, so
`clipshare watch` exposes them by mounting promhttp.Handler() at /metrics:

	curl http://localhost:9095/metrics

# Available Metrics

Transport:
  - clipshare_http_requests_total{endpoint, method, outcome}
  - clipshare_http_request_duration_seconds{endpoint, method}
  - clipshare_http_rate_limit_wait_seconds

Circuit breaker (gobreaker):
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

Catalog:
  - clipshare_catalog_fetches_total{kind, result}
  - clipshare_catalog_retries_total{result}
  - clipshare_catalog_items
  - clipshare_envelope_unrecognized_total{endpoint}

Engagement:
  - clipshare_comment_posts_total{result}
  - clipshare_rating_submissions_total{result}
  - clipshare_engagement_threads

Upload:
  - clipshare_uploads_total{result}
  - clipshare_upload_bytes

Endpoint labels are route templates ("/media/{id}/comments"), never raw paths,
to keep label cardinality bounded.
*/
package metrics
