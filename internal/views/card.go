// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Package views turns catalog and engagement snapshots into presentation
// models for the consumer, dashboard and creator surfaces.
//
// Views never own media or engagement state. They keep UI state only
// (search term, banners, loading flags) and rebuild cards from copies on
// every View call.
package views

import (
	"fmt"
	"strings"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/engagement"
	"github.com/tomtom215/clipshare/internal/mediaurl"
	"github.com/tomtom215/clipshare/internal/models"
)

// Display defaults for missing media fields.
const (
	DefaultTitle     = "Untitled Video"
	DefaultPublisher = "Unknown Publisher"
	DefaultProducer  = "Unknown Producer"
	DefaultGenre     = "Other"
	DefaultAgeRating = "Not Rated"
)

// Feedback texts shown after a card action.
const (
	MessageCommentPosted  = "Comment posted successfully!"
	MessageCommentFailed  = "Failed to post comment"
	MessageRatingAccepted = "Rating submitted!"
	MessageRatingFailed   = "Failed to submit rating"
)

// CommentLine is one rendered comment.
type CommentLine struct {
	ID     string
	Author string
	Text   string
	// Local is true when the authority confirmed the comment without an id.
	Local bool
}

// Card is the presentation model of one media item.
type Card struct {
	ID           string
	Title        string
	Publisher    string
	Producer     string
	Genre        string
	AgeRating    string
	PlayURL      string
	VideoType    string
	ThumbnailURL string
	People       []string

	CommentsState string
	Comments      []CommentLine

	AverageRating   float64
	AverageLabel    string
	RatingsInFlight int
}

// MIMEType returns the source type of the card's video, e.g. "video/mp4".
func (c Card) MIMEType() string {
	return "video/" + c.VideoType
}

// CardBuilder builds cards from media items. A nil store renders items with
// their catalog values and no comments.
type CardBuilder struct {
	resolver *mediaurl.Resolver
	store    *engagement.Store
}

// NewCardBuilder creates a card builder.
func NewCardBuilder(resolver *mediaurl.Resolver, store *engagement.Store) *CardBuilder {
	if resolver == nil {
		resolver = mediaurl.New("")
	}
	return &CardBuilder{resolver: resolver, store: store}
}

// Build renders one item.
func (b *CardBuilder) Build(item models.MediaItem) Card {
	card := Card{
		ID:           item.ID,
		Title:        orDefault(item.Title, DefaultTitle),
		Publisher:    orDefault(item.Publisher, DefaultPublisher),
		Producer:     orDefault(item.Producer, DefaultProducer),
		Genre:        orDefault(item.Genre, DefaultGenre),
		AgeRating:    orDefault(item.AgeRating, DefaultAgeRating),
		PlayURL:      b.resolver.Resolve(item.MediaURL),
		VideoType:    mediaurl.VideoType(item.MediaURL),
		ThumbnailURL: b.resolver.Resolve(item.ThumbnailURL),
		People:       append([]string(nil), item.People...),
	}

	if b.store == nil {
		card.CommentsState = engagement.StateEmpty.String()
		card.Comments = []CommentLine{}
		card.AverageRating = models.ClampAverage(item.AverageRating)
		card.AverageLabel = AverageLabel(card.AverageRating)
		return card
	}

	thread := b.store.Thread(item.ID)
	card.CommentsState = thread.State.String()
	card.Comments = make([]CommentLine, 0, len(thread.Comments))
	for _, c := range thread.Comments {
		card.Comments = append(card.Comments, CommentLine{
			ID:     c.ID,
			Author: c.Author.DisplayName(),
			Text:   c.Text,
			Local:  strings.HasPrefix(c.ID, engagement.LocalIDPrefix),
		})
	}

	card.AverageRating = b.store.Average(item)
	card.AverageLabel = AverageLabel(card.AverageRating)
	card.RatingsInFlight = b.store.Rating(item.ID).InFlight
	return card
}

// BuildAll renders items in order.
func (b *CardBuilder) BuildAll(items []models.MediaItem) []Card {
	cards := make([]Card, len(items))
	for i, item := range items {
		cards[i] = b.Build(item)
	}
	return cards
}

// AverageLabel formats an aggregate as "4.2/5".
func AverageLabel(v float64) string {
	return fmt.Sprintf("%.1f/5", models.ClampAverage(v))
}

// Feedback is the banner shown after a card action.
type Feedback struct {
	Success string
	Error   string
}

// CommentFeedback maps the result of a comment post to its banner.
func CommentFeedback(err error) Feedback {
	if err == nil {
		return Feedback{Success: MessageCommentPosted}
	}
	return Feedback{Error: actionMessage(err, MessageCommentFailed)}
}

// RatingFeedback maps the result of a rating submission to its banner.
func RatingFeedback(err error) Feedback {
	if err == nil {
		return Feedback{Success: MessageRatingAccepted}
	}
	return Feedback{Error: actionMessage(err, MessageRatingFailed)}
}

// actionMessage prefers the authority's rejection text and validation
// messages; everything else collapses to fallback.
func actionMessage(err error, fallback string) string {
	switch apperr.KindOf(err) {
	case apperr.ServerRejected, apperr.ValidationFailed:
		if msg := apperr.MessageOf(err); msg != "" {
			return msg
		}
	}
	return fallback
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}
