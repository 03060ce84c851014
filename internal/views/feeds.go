// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package views

import (
	"context"

	"github.com/tomtom215/clipshare/internal/catalog"
	"github.com/tomtom215/clipshare/internal/models"
)

// ListSource is the part of the catalog the list surfaces read.
type ListSource interface {
	FetchAll(ctx context.Context) (catalog.FetchResult, error)
	Snapshot() []models.MediaItem
	RetryPending() bool
}

// LatestSource is the part of the catalog the dashboard reads.
type LatestSource interface {
	FetchLatest(ctx context.Context, limit int, sort string) (catalog.FetchResult, error)
}

// Uploader submits upload drafts.
type Uploader interface {
	Submit(ctx context.Context, draft models.UploadDraft) (models.MediaItem, error)
}

var (
	_ ListSource   = (*catalog.Catalog)(nil)
	_ LatestSource = (*catalog.Catalog)(nil)
)
