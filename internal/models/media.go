// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package models

import (
	"math"

	"github.com/goccy/go-json"
)

// Age ratings accepted by the authority.
const (
	AgeRatingG    = "G"
	AgeRatingPG   = "PG"
	AgeRatingPG13 = "PG-13"
	AgeRatingR    = "R"
	AgeRatingNC17 = "NC-17"
)

// AgeRatings lists the accepted age ratings in display order.
var AgeRatings = []string{AgeRatingG, AgeRatingPG, AgeRatingPG13, AgeRatingR, AgeRatingNC17}

// MaxAverageRating is the upper bound of a rating aggregate.
const MaxAverageRating = 5.0

// MediaItem is one uploaded video as reported by the authority.
type MediaItem struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Publisher     string    `json:"publisher"`
	Producer      string    `json:"producer"`
	Genre         string    `json:"genre"`
	AgeRating     string    `json:"ageRating"`
	MediaURL      string    `json:"mediaUrl"`
	ThumbnailURL  string    `json:"thumbnailUrl,omitempty"`
	CreatedAt     Timestamp `json:"createdAt,omitempty"`
	AverageRating float64   `json:"averageRating"`
	Caption       string    `json:"caption,omitempty"`
	Location      string    `json:"location,omitempty"`
	People        []string  `json:"people,omitempty"`
}

type mediaItemAlias MediaItem

type mediaItemWire struct {
	mediaItemAlias
	AltID string `json:"id"`
}

// UnmarshalJSON decodes a media item, falling back to "id" when "_id" is absent.
func (m *MediaItem) UnmarshalJSON(data []byte) error {
	var w mediaItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = MediaItem(w.mediaItemAlias)
	if m.ID == "" {
		m.ID = w.AltID
	}
	m.AverageRating = ClampAverage(m.AverageRating)
	return nil
}

// ClampAverage bounds a reported aggregate to [0,5].
func ClampAverage(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > MaxAverageRating:
		return MaxAverageRating
	default:
		return v
	}
}

// CloneMediaItems returns a deep copy of items. A nil input yields an empty slice.
func CloneMediaItems(items []MediaItem) []MediaItem {
	out := make([]MediaItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.People != nil {
			out[i].People = append([]string(nil), item.People...)
		}
	}
	return out
}

// RatingSubmission is a single 1-5 vote for one media item.
type RatingSubmission struct {
	MediaID string `json:"-" validate:"required"`
	Value   int    `json:"value" validate:"min=1,max=5"`
}

// RatingAggregate is the authority's response to a rating submission.
type RatingAggregate struct {
	AverageRating *float64 `json:"averageRating"`
}
