// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Transport Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipshare_http_requests_total",
			Help: "Total number of requests sent to the authority",
		},
		[]string{"endpoint", "method", "outcome"}, // outcome: apperr kind or "ok"
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clipshare_http_request_duration_seconds",
			Help:    "Duration of requests to the authority in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		},
		[]string{"endpoint", "method"},
	)

	RateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clipshare_http_rate_limit_wait_seconds",
			Help:    "Time requests spent waiting on the outbound rate limiter",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Catalog Metrics
	CatalogFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipshare_catalog_fetches_total",
			Help: "Total number of catalog fetches",
		},
		[]string{"kind", "result"}, // kind: "all", "latest", "search"
	)

	CatalogRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipshare_catalog_retries_total",
			Help: "Total number of background catalog retries",
		},
		[]string{"result"},
	)

	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clipshare_catalog_items",
			Help: "Current number of media items held by the catalog",
		},
	)

	EnvelopeUnrecognized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipshare_envelope_unrecognized_total",
			Help: "Responses whose envelope shape was not recognized",
		},
		[]string{"endpoint"},
	)

	EnvelopeItemsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipshare_envelope_items_skipped_total",
			Help: "List elements dropped because they failed to decode",
		},
		[]string{"endpoint"},
	)

	// Engagement Metrics
	CommentPosts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipshare_comment_posts_total",
			Help: "Total number of comment post attempts",
		},
		[]string{"result"},
	)

	RatingSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipshare_rating_submissions_total",
			Help: "Total number of rating submission attempts",
		},
		[]string{"result"},
	)

	EngagementThreads = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clipshare_engagement_threads",
			Help: "Current number of comment threads held in memory",
		},
	)

	// Upload Metrics
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipshare_uploads_total",
			Help: "Total number of upload attempts",
		},
		[]string{"result"},
	)

	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clipshare_upload_bytes",
			Help:    "Size of submitted upload files in bytes",
			Buckets: prometheus.ExponentialBuckets(1<<20, 2, 10), // 1MiB .. 512MiB
		},
	)
)

// ResultOK labels a successful operation.
const ResultOK = "ok"

// RecordHTTPRequest records one request to the authority.
func RecordHTTPRequest(endpoint, method, outcome string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(endpoint, method, outcome).Inc()
	HTTPRequestDuration.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// RecordRateLimitWait records time spent blocked on the outbound limiter.
func RecordRateLimitWait(d time.Duration) {
	RateLimitWait.Observe(d.Seconds())
}

// RecordCatalogFetch records a catalog fetch and, on success, the list size.
func RecordCatalogFetch(kind, result string, items int) {
	CatalogFetches.WithLabelValues(kind, result).Inc()
	if result == ResultOK && kind == "all" {
		CatalogItems.Set(float64(items))
	}
}

// RecordCatalogRetry records the outcome of a background retry.
func RecordCatalogRetry(result string) {
	CatalogRetries.WithLabelValues(result).Inc()
}

// RecordUnrecognizedEnvelope records a response whose shape was not understood.
func RecordUnrecognizedEnvelope(endpoint string) {
	EnvelopeUnrecognized.WithLabelValues(endpoint).Inc()
}

// RecordSkippedItems records list elements dropped during decoding.
func RecordSkippedItems(endpoint string, n int) {
	if n > 0 {
		EnvelopeItemsSkipped.WithLabelValues(endpoint).Add(float64(n))
	}
}

// RecordCommentPost records a comment post attempt.
func RecordCommentPost(result string) {
	CommentPosts.WithLabelValues(result).Inc()
}

// RecordRatingSubmission records a rating submission attempt.
func RecordRatingSubmission(result string) {
	RatingSubmissions.WithLabelValues(result).Inc()
}

// RecordUpload records an upload attempt and the file size when known.
func RecordUpload(result string, size int64) {
	UploadsTotal.WithLabelValues(result).Inc()
	if size > 0 {
		UploadBytes.Observe(float64(size))
	}
}
