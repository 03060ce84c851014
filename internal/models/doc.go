// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Package models provides the entities exchanged with the Clipshare authority.
//
// Response types decode tolerantly at the boundary: MediaItem accepts either
// "_id" or "id", CommentAuthor accepts a populated user object or a bare id,
// and AverageRating is clamped to [0,5]. Request types carry validator tags
// that internal/validation checks before any network call.
package models
