// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package views

import (
	"context"
	"sync"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/catalog"
	"github.com/tomtom215/clipshare/internal/events"
)

// MessageNoVideos is shown when the consumer feed has nothing to display.
const MessageNoVideos = "No videos found"

// ConsumerView is one render of the consumer feed.
type ConsumerView struct {
	Search       string
	Loading      bool
	Error        string
	RetryPending bool
	// Degraded is set when the last list response had an unrecognized shape.
	Degraded bool
	Cards    []Card
	// Empty is MessageNoVideos when there are no cards and nothing is loading.
	Empty string
}

// ConsumerFeed is the searchable list of every media item.
type ConsumerFeed struct {
	source ListSource
	cards  *CardBuilder

	mu       sync.RWMutex
	term     string
	loading  bool
	err      string
	degraded bool
}

// NewConsumerFeed creates a consumer feed over source.
func NewConsumerFeed(source ListSource, cards *CardBuilder) *ConsumerFeed {
	return &ConsumerFeed{source: source, cards: cards}
}

// Load fetches the full list. On failure the error banner is set and the
// catalog's single background retry is left to recover the list.
func (f *ConsumerFeed) Load(ctx context.Context) error {
	f.mu.Lock()
	f.loading = true
	f.err = ""
	f.mu.Unlock()

	res, err := f.source.FetchAll(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		f.err = "Error: " + apperr.MessageOf(err)
		return err
	}
	f.degraded = res.Warning != nil
	return nil
}

// SetSearch replaces the search term. The filter is applied locally.
func (f *ConsumerFeed) SetSearch(term string) {
	f.mu.Lock()
	f.term = term
	f.mu.Unlock()
}

// Apply reacts to a change notification. Any applied catalog change means
// the list is current again, so a stale error banner is cleared.
func (f *ConsumerFeed) Apply(change events.Change) {
	if change.Topic != events.TopicCatalogChanged {
		return
	}
	f.mu.Lock()
	f.err = ""
	f.mu.Unlock()
}

// View renders the feed.
func (f *ConsumerFeed) View() ConsumerView {
	f.mu.RLock()
	v := ConsumerView{Search: f.term, Loading: f.loading, Error: f.err, Degraded: f.degraded}
	f.mu.RUnlock()

	v.RetryPending = f.source.RetryPending()
	v.Cards = f.cards.BuildAll(catalog.Filter(f.source.Snapshot(), v.Search))
	if len(v.Cards) == 0 && !v.Loading {
		v.Empty = MessageNoVideos
	}
	return v
}
