// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/logging"
	"github.com/tomtom215/clipshare/internal/metrics"
	"github.com/tomtom215/clipshare/internal/models"
	"github.com/tomtom215/clipshare/internal/transport"
)

// FetchLatest retrieves the newest items. A non-positive limit or empty sort
// uses the configured defaults.
func (c *Catalog) FetchLatest(ctx context.Context, limit int, sort string) (FetchResult, error) {
	if limit <= 0 {
		limit = c.latestLimit
	}
	if sort == "" {
		sort = c.latestSort
	}

	started := time.Now()
	resp, err := c.client.Do(ctx, transport.Request{
		Method:   http.MethodGet,
		Path:     endpointLatest,
		Endpoint: endpointLatest,
		Query:    url.Values{"limit": {strconv.Itoa(limit)}, "sort": {sort}},
	})
	if err != nil {
		metrics.RecordCatalogFetch("latest", apperr.KindOf(err).String(), 0)
		logging.Ctx(ctx).Warn().Err(err).Msg("Latest fetch failed")
		return FetchResult{Items: []models.MediaItem{}}, apperr.Wrap("catalog.FetchLatest", err)
	}

	result := c.decodeList(ctx, resp.Body, endpointLatest)
	items := result.Items
	metrics.RecordCatalogFetch("latest", metrics.ResultOK, len(items))

	c.mu.Lock()
	c.latest = items
	c.mu.Unlock()

	c.observed(started, items)
	c.publish(ctx, len(items), "fetch_latest")

	result.Items = models.CloneMediaItems(items)
	return result, nil
}

// Latest returns a copy of the most recent FetchLatest result.
func (c *Catalog) Latest() []models.MediaItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.CloneMediaItems(c.latest)
}
