// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/logging"
	"github.com/tomtom215/clipshare/internal/metrics"
	"github.com/tomtom215/clipshare/internal/models"
	"github.com/tomtom215/clipshare/internal/transport"
)

// Search filters the current list by a case-insensitive substring over
// title, caption, location and people. A blank term returns the full list.
func (c *Catalog) Search(term string) []models.MediaItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Filter(c.items, term)
}

// Filter applies the Search predicate to items and returns copies.
func Filter(items []models.MediaItem, term string) []models.MediaItem {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return models.CloneMediaItems(items)
	}

	matched := make([]models.MediaItem, 0, len(items))
	for _, item := range items {
		if Matches(item, needle) {
			matched = append(matched, item)
		}
	}
	return models.CloneMediaItems(matched)
}

// Matches reports whether item contains the lowercase needle.
func Matches(item models.MediaItem, needle string) bool {
	if strings.Contains(strings.ToLower(item.Title), needle) ||
		strings.Contains(strings.ToLower(item.Caption), needle) ||
		strings.Contains(strings.ToLower(item.Location), needle) {
		return true
	}
	for _, person := range item.People {
		if strings.Contains(strings.ToLower(person), needle) {
			return true
		}
	}
	return false
}

// SearchRemote asks the authority to search. The catalog list is not modified.
func (c *Catalog) SearchRemote(ctx context.Context, term string) ([]models.MediaItem, error) {
	resp, err := c.client.Do(ctx, transport.Request{
		Method:   http.MethodGet,
		Path:     endpointSearch,
		Endpoint: endpointSearch,
		Query:    url.Values{"q": {strings.TrimSpace(term)}},
	})
	if err != nil {
		metrics.RecordCatalogFetch("search", apperr.KindOf(err).String(), 0)
		logging.Ctx(ctx).Warn().Err(err).Msg("Remote search failed")
		return nil, apperr.Wrap("catalog.SearchRemote", err)
	}

	result := c.decodeList(ctx, resp.Body, endpointSearch)
	metrics.RecordCatalogFetch("search", metrics.ResultOK, len(result.Items))
	return result.Items, nil
}
