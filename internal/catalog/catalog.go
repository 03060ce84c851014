// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Package catalog owns the ordered list of media items observed from the
// authority.
//
// The catalog is the only writer of the list. Readers receive copies from
// Snapshot, Latest and Search. Every applied change publishes an
// events.TopicCatalogChanged notification.
//
// Failure policy:
//   - FetchAll reports a transport failure immediately and schedules exactly
//     one background retry after the configured delay
//   - unrecognized response envelopes degrade to an empty list plus a
//     FetchResult.Warning, never an error
//   - list elements that fail to decode are skipped and counted; the rest
//     of the list is kept
//   - overlapping completions apply last-writer-wins on the full list
package catalog

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/config"
	"github.com/tomtom215/clipshare/internal/events"
	"github.com/tomtom215/clipshare/internal/logging"
	"github.com/tomtom215/clipshare/internal/metrics"
	"github.com/tomtom215/clipshare/internal/models"
	"github.com/tomtom215/clipshare/internal/transport"
)

// Endpoints used by the catalog.
const (
	endpointMedia  = "/media"
	endpointLatest = "/media/latest"
	endpointSearch = "/media/search"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultFetchTimeout = 15 * time.Second
	DefaultRetryDelay   = 5 * time.Second
	DefaultLatestLimit  = 12
	DefaultLatestSort   = "-createdAt"
)

// Scheduler runs f once after d and returns a function that cancels it.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

// TimerScheduler schedules with time.AfterFunc.
func TimerScheduler(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// FetchObserver is told about every list applied from the authority, with
// the time the request started. The engagement store uses it to retire
// rating overrides the fresh items supersede.
type FetchObserver func(started time.Time, items []models.MediaItem)

// FetchResult is the outcome of FetchAll and FetchLatest.
type FetchResult struct {
	Items []models.MediaItem

	// Warning is set when the response envelope was not recognized and
	// Items was degraded to empty.
	Warning error

	// Skipped counts list elements dropped because they failed to decode.
	Skipped int
}

// Options configures a Catalog.
type Options struct {
	Client transport.Doer
	Events events.Publisher

	FetchTimeout time.Duration
	RetryDelay   time.Duration
	LatestLimit  int
	LatestSort   string

	// Schedule defaults to TimerScheduler.
	Schedule Scheduler

	// Observe is optional.
	Observe FetchObserver
}

// OptionsFromConfig fills the tunables from loaded configuration.
func OptionsFromConfig(cfg *config.Config, client transport.Doer, pub events.Publisher) Options {
	return Options{
		Client:       client,
		Events:       pub,
		FetchTimeout: cfg.API.MediaTimeout,
		RetryDelay:   cfg.Catalog.RetryDelay,
		LatestLimit:  cfg.Catalog.LatestLimit,
		LatestSort:   cfg.Catalog.LatestSort,
	}
}

// Catalog is the process-wide owner of the media list.
type Catalog struct {
	client   transport.Doer
	events   events.Publisher
	schedule Scheduler
	observe  FetchObserver
	logger   zerolog.Logger

	fetchTimeout time.Duration
	retryDelay   time.Duration
	latestLimit  int
	latestSort   string

	mu     sync.RWMutex
	items  []models.MediaItem
	latest []models.MediaItem

	// retry state
	retryMu      sync.Mutex
	retryPending bool
	stopRetry    func() bool
}

// New creates a catalog. Options.Client is required.
func New(opts Options) *Catalog {
	c := &Catalog{
		client:       opts.Client,
		events:       opts.Events,
		schedule:     opts.Schedule,
		observe:      opts.Observe,
		logger:       logging.WithComponent("catalog"),
		fetchTimeout: opts.FetchTimeout,
		retryDelay:   opts.RetryDelay,
		latestLimit:  opts.LatestLimit,
		latestSort:   opts.LatestSort,
		items:        []models.MediaItem{},
		latest:       []models.MediaItem{},
	}
	if c.events == nil {
		c.events = events.Discard
	}
	if c.schedule == nil {
		c.schedule = TimerScheduler
	}
	if c.fetchTimeout <= 0 {
		c.fetchTimeout = DefaultFetchTimeout
	}
	if c.retryDelay <= 0 {
		c.retryDelay = DefaultRetryDelay
	}
	if c.latestLimit <= 0 {
		c.latestLimit = DefaultLatestLimit
	}
	if c.latestSort == "" {
		c.latestSort = DefaultLatestSort
	}
	return c
}

// FetchAll retrieves the full media list and replaces the catalog with it.
//
// On a transport failure the error is returned at once and one background
// retry is scheduled; the retry itself never schedules another.
func (c *Catalog) FetchAll(ctx context.Context) (FetchResult, error) {
	result, err := c.fetchAll(ctx, "fetch_all")
	if err != nil {
		c.scheduleRetry()
		return FetchResult{Items: []models.MediaItem{}}, apperr.Wrap("catalog.FetchAll", err)
	}
	return result, nil
}

func (c *Catalog) fetchAll(ctx context.Context, source string) (FetchResult, error) {
	started := time.Now()
	resp, err := c.client.Do(ctx, transport.Request{
		Method:   http.MethodGet,
		Path:     endpointMedia,
		Endpoint: endpointMedia,
		Timeout:  c.fetchTimeout,
	})
	if err != nil {
		metrics.RecordCatalogFetch("all", apperr.KindOf(err).String(), 0)
		logging.Ctx(ctx).Warn().Err(err).Str("source", source).Msg("Catalog fetch failed")
		return FetchResult{}, err
	}

	result := c.decodeList(ctx, resp.Body, endpointMedia)
	items := result.Items
	metrics.RecordCatalogFetch("all", metrics.ResultOK, len(items))

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()

	c.observed(started, items)
	c.publish(ctx, len(items), source)

	result.Items = models.CloneMediaItems(items)
	return result, nil
}

// scheduleRetry arms the background retry unless one is already pending.
func (c *Catalog) scheduleRetry() {
	c.retryMu.Lock()
	if c.retryPending {
		c.retryMu.Unlock()
		return
	}
	c.retryPending = true
	c.retryMu.Unlock()

	stop := c.schedule(c.retryDelay, c.runRetry)

	c.retryMu.Lock()
	if c.retryPending {
		c.stopRetry = stop
	}
	c.retryMu.Unlock()

	c.logger.Info().Dur("delay", c.retryDelay).Msg("Scheduled catalog retry")
}

func (c *Catalog) runRetry() {
	c.retryMu.Lock()
	c.retryPending = false
	c.stopRetry = nil
	c.retryMu.Unlock()

	ctx := logging.ContextWithNewCorrelationID(context.Background())
	if _, err := c.fetchAll(ctx, "retry"); err != nil {
		metrics.RecordCatalogRetry(apperr.KindOf(err).String())
		logging.Ctx(ctx).Warn().Err(err).Msg("Catalog retry failed; not retrying again")
		return
	}
	metrics.RecordCatalogRetry(metrics.ResultOK)
	logging.Ctx(ctx).Info().Msg("Catalog retry succeeded")
}

// RetryPending reports whether a background retry is armed.
func (c *Catalog) RetryPending() bool {
	c.retryMu.Lock()
	defer c.retryMu.Unlock()
	return c.retryPending
}

// Close cancels a pending retry.
func (c *Catalog) Close() {
	c.retryMu.Lock()
	defer c.retryMu.Unlock()

	if c.stopRetry != nil {
		c.stopRetry()
		c.stopRetry = nil
	}
	c.retryPending = false
}

// ApplyUpload prepends a newly created item without refetching.
func (c *Catalog) ApplyUpload(ctx context.Context, item models.MediaItem) {
	c.mu.Lock()
	items := make([]models.MediaItem, 0, len(c.items)+1)
	items = append(items, item)
	items = append(items, c.items...)
	c.items = items
	n := len(items)
	c.mu.Unlock()

	c.publish(ctx, n, "upload")
}

// Snapshot returns a copy of the current list.
func (c *Catalog) Snapshot() []models.MediaItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.CloneMediaItems(c.items)
}

// Lookup returns the item with id from the current list.
func (c *Catalog) Lookup(id string) (models.MediaItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	for _, item := range c.latest {
		if item.ID == id {
			return item, true
		}
	}
	return models.MediaItem{}, false
}

// decodeList normalizes a list body. Unknown shapes degrade to an empty list
// with a Warning; undecodable elements are skipped.
func (c *Catalog) decodeList(ctx context.Context, body []byte, endpoint string) FetchResult {
	list, err := transport.DecodeList[models.MediaItem](body)
	if err != nil {
		metrics.RecordUnrecognizedEnvelope(endpoint)
		logging.Ctx(ctx).Warn().Err(err).Str("endpoint", endpoint).Msg("Unrecognized media envelope; using empty list")
		return FetchResult{Items: []models.MediaItem{}, Warning: err}
	}
	if list.Skipped > 0 {
		metrics.RecordSkippedItems(endpoint, list.Skipped)
		logging.Ctx(ctx).Warn().Err(list.SkipErr).
			Str("endpoint", endpoint).
			Int("skipped", list.Skipped).
			Msg("Skipped undecodable media items")
	}
	c.logger.Debug().Str("endpoint", endpoint).Str("envelope", string(list.Envelope)).Int("items", len(list.Items)).Msg("Decoded media list")
	return FetchResult{Items: list.Items, Skipped: list.Skipped}
}

func (c *Catalog) observed(started time.Time, items []models.MediaItem) {
	if c.observe != nil && len(items) > 0 {
		c.observe(started, models.CloneMediaItems(items))
	}
}

func (c *Catalog) publish(ctx context.Context, count int, source string) {
	err := c.events.Publish(ctx, events.Change{
		Topic:  events.TopicCatalogChanged,
		Count:  count,
		Source: source,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to publish catalog change")
	}
}
