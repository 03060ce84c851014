// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package engagement

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/events"
	"github.com/tomtom215/clipshare/internal/logging"
	"github.com/tomtom215/clipshare/internal/metrics"
	"github.com/tomtom215/clipshare/internal/models"
	"github.com/tomtom215/clipshare/internal/transport"
	"github.com/tomtom215/clipshare/internal/validation"
)

const endpointRatings = "/media/{id}/ratings"

// ParseRating converts user input to a rating value. Non-integer input fails
// with ValidationFailed.
func ParseRating(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, apperr.Validation("engagement.ParseRating", "value", "value must be an integer from 1 to 5")
	}
	return v, nil
}

// SubmitRating sends a 1-5 vote and stores the authority's new average.
//
// The returned value is the aggregate reported by the authority, never a
// locally computed one. Out-of-range values fail before any network call.
func (s *Store) SubmitRating(ctx context.Context, mediaID string, value int) (float64, error) {
	const op = "engagement.SubmitRating"

	sub := models.RatingSubmission{MediaID: strings.TrimSpace(mediaID), Value: value}
	if verr := validation.ValidateStruct(sub); verr != nil {
		metrics.RecordRatingSubmission(apperr.ValidationFailed.String())
		return 0, verr.ToAppError(op)
	}

	s.mu.Lock()
	s.inFlight[sub.MediaID]++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight[sub.MediaID]--
		if s.inFlight[sub.MediaID] <= 0 {
			delete(s.inFlight, sub.MediaID)
		}
		s.mu.Unlock()
	}()

	resp, err := s.client.Do(ctx, transport.Request{
		Method:   http.MethodPost,
		Path:     ratingsPath(sub.MediaID),
		Endpoint: endpointRatings,
		JSON:     sub,
	})
	if err != nil {
		metrics.RecordRatingSubmission(apperr.KindOf(err).String())
		return 0, apperr.Wrap(op, err)
	}

	agg, derr := transport.DecodeObject[models.RatingAggregate](resp.Body)
	if derr != nil {
		metrics.RecordRatingSubmission(apperr.InvalidServerResponse.String())
		return 0, apperr.Invalid(op, "rating response is not an object", derr)
	}
	if agg.AverageRating == nil {
		metrics.RecordRatingSubmission(apperr.InvalidServerResponse.String())
		return 0, apperr.Invalid(op, "rating response has no averageRating", nil)
	}

	avg := models.ClampAverage(*agg.AverageRating)

	s.mu.Lock()
	s.averages[sub.MediaID] = confirmedAverage{value: avg, at: s.now()}
	s.mu.Unlock()

	metrics.RecordRatingSubmission(metrics.ResultOK)
	logging.Ctx(ctx).Debug().Str("media_id", sub.MediaID).Float64("average", avg).Msg("Rating confirmed")

	s.publish(ctx, events.TopicRatingChanged, sub.MediaID, 0, "submit_rating")
	return avg, nil
}
