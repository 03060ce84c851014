// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package views

import (
	"context"
	"sync"

	"github.com/tomtom215/clipshare/internal/logging"
	"github.com/tomtom215/clipshare/internal/models"
)

// Dashboard banners and placeholder texts.
const (
	MessageLoadFailed    = "Failed to load videos. Please try again later."
	MessageRefreshFailed = "Failed to refresh videos."
	MessageEmptyTitle    = "No Videos Found"
	MessageEmptyText     = "There are no videos available yet. Be the first to upload content!"
)

// DashboardView is one render of the latest-videos dashboard.
type DashboardView struct {
	// Count is the badge next to the heading.
	Count   int
	Loading bool
	Banner  string

	// Degraded is true when the last response envelope was not recognized.
	Degraded bool
	Cards    []Card
	Empty    bool
}

// DashboardFeed shows the newest items.
type DashboardFeed struct {
	source LatestSource
	cards  *CardBuilder
	limit  int
	sort   string

	mu       sync.RWMutex
	items    []models.MediaItem
	loading  bool
	banner   string
	degraded bool
}

// NewDashboardFeed creates a dashboard. Zero limit and empty sort use the
// catalog defaults.
func NewDashboardFeed(source LatestSource, cards *CardBuilder, limit int, sort string) *DashboardFeed {
	return &DashboardFeed{source: source, cards: cards, limit: limit, sort: sort, items: []models.MediaItem{}}
}

// Load performs the initial fetch. A failure empties the list.
func (d *DashboardFeed) Load(ctx context.Context) error {
	return d.fetch(ctx, MessageLoadFailed, true)
}

// Refresh refetches the list. A failure keeps the previous list.
func (d *DashboardFeed) Refresh(ctx context.Context) error {
	return d.fetch(ctx, MessageRefreshFailed, false)
}

func (d *DashboardFeed) fetch(ctx context.Context, failure string, replaceOnError bool) error {
	d.mu.Lock()
	d.loading = true
	d.banner = ""
	d.mu.Unlock()

	res, err := d.source.FetchLatest(ctx, d.limit, d.sort)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Dashboard fetch failed")
		d.banner = failure
		if replaceOnError {
			d.items = []models.MediaItem{}
			d.degraded = false
		}
		return err
	}
	d.items = res.Items
	d.degraded = res.Warning != nil
	return nil
}

// View renders the dashboard.
func (d *DashboardFeed) View() DashboardView {
	d.mu.RLock()
	items := models.CloneMediaItems(d.items)
	v := DashboardView{Loading: d.loading, Banner: d.banner, Degraded: d.degraded}
	d.mu.RUnlock()

	v.Cards = d.cards.BuildAll(items)
	v.Count = len(v.Cards)
	v.Empty = v.Count == 0
	return v
}
