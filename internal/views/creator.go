// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package views

import (
	"context"
	"sync"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/logging"
)

// Creator banners.
const (
	MessageUploadSucceeded = "Upload successful"
	MessageUploadFailed    = "Upload failed"
)

// CreatorView is one render of the creator surface.
type CreatorView struct {
	Notice string
	Banner string
	Cards  []Card

	// Field names the draft field that failed validation, if any.
	Field string
}

// CreatorFeed is the creator's list plus its upload form.
type CreatorFeed struct {
	source   ListSource
	uploader Uploader
	cards    *CardBuilder

	mu     sync.RWMutex
	notice string
	banner string
	field  string
}

// NewCreatorFeed creates a creator surface.
func NewCreatorFeed(source ListSource, uploader Uploader, cards *CardBuilder) *CreatorFeed {
	return &CreatorFeed{source: source, uploader: uploader, cards: cards}
}

// Load fetches the list. Failures only log; the list stays empty.
func (c *CreatorFeed) Load(ctx context.Context) error {
	if _, err := c.source.FetchAll(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Creator list fetch failed")
		return err
	}
	return nil
}

// Upload submits draft. On success the confirmed item is already at the
// head of the catalog list and its card is returned.
func (c *CreatorFeed) Upload(ctx context.Context, draft UploadForm) (Card, error) {
	c.mu.Lock()
	c.notice, c.banner, c.field = "", "", ""
	c.mu.Unlock()

	item, err := c.uploader.Submit(ctx, draft.Draft())

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.banner = MessageUploadFailed + ": " + apperr.MessageOf(err)
		c.field = apperr.FieldOf(err)
		return Card{}, err
	}
	c.notice = MessageUploadSucceeded
	return c.cards.Build(item), nil
}

// View renders the creator surface.
func (c *CreatorFeed) View() CreatorView {
	c.mu.RLock()
	v := CreatorView{Notice: c.notice, Banner: c.banner, Field: c.field}
	c.mu.RUnlock()

	v.Cards = c.cards.BuildAll(c.source.Snapshot())
	return v
}
