// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package engagement

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/events"
	"github.com/tomtom215/clipshare/internal/logging"
	"github.com/tomtom215/clipshare/internal/metrics"
	"github.com/tomtom215/clipshare/internal/models"
	"github.com/tomtom215/clipshare/internal/transport"
	"github.com/tomtom215/clipshare/internal/validation"
)

const endpointComments = "/media/{id}/comments"

// LocalIDPrefix marks ids assigned by the client to confirmed comments the
// authority returned without an id.
const LocalIDPrefix = "local-"

// LoadComments fetches the thread for mediaID.
//
// On a transport failure the thread resets to Loaded(empty) and the error is
// returned for out-of-band reporting. An unrecognized envelope loads an
// empty thread without error.
func (s *Store) LoadComments(ctx context.Context, mediaID string) ([]models.CommentEntry, error) {
	const op = "engagement.LoadComments"

	mediaID = strings.TrimSpace(mediaID)
	if mediaID == "" {
		return nil, apperr.Validation(op, "mediaId", "mediaId is required")
	}

	current, _ := s.threads.Get(mediaID)
	s.setThread(mediaID, thread{state: StateLoading, comments: current.comments})

	resp, err := s.client.Do(ctx, transport.Request{
		Method:   http.MethodGet,
		Path:     commentsPath(mediaID),
		Endpoint: endpointComments,
		Timeout:  s.commentsTimeout,
	})
	if err != nil {
		s.setThread(mediaID, thread{state: StateLoaded, comments: []models.CommentEntry{}})
		s.publish(ctx, events.TopicThreadChanged, mediaID, 0, "load_failed")
		logging.Ctx(ctx).Warn().Err(err).Str("media_id", mediaID).Msg("Comment load failed; thread reset")
		return []models.CommentEntry{}, apperr.Wrap(op, err)
	}

	list, derr := transport.DecodeList[models.CommentEntry](resp.Body)
	comments := list.Items
	switch {
	case derr != nil:
		metrics.RecordUnrecognizedEnvelope(endpointComments)
		logging.Ctx(ctx).Warn().Err(derr).Str("media_id", mediaID).Msg("Unrecognized comments envelope; using empty thread")
		comments = []models.CommentEntry{}
	case list.Skipped > 0:
		metrics.RecordSkippedItems(endpointComments, list.Skipped)
		logging.Ctx(ctx).Warn().Err(list.SkipErr).
			Str("media_id", mediaID).
			Int("skipped", list.Skipped).
			Msg("Skipped undecodable comments")
	}
	for i := range comments {
		if comments[i].MediaID == "" {
			comments[i].MediaID = mediaID
		}
	}

	s.setThread(mediaID, thread{state: StateLoaded, comments: comments})
	s.publish(ctx, events.TopicThreadChanged, mediaID, len(comments), "load")

	return cloneComments(comments), nil
}

// PostComment submits text and appends the confirmed entry to the thread
// when it is Loading or Loaded. Blank text fails with ValidationFailed before
// any network call.
func (s *Store) PostComment(ctx context.Context, mediaID, text string) (models.CommentEntry, error) {
	const op = "engagement.PostComment"

	mediaID = strings.TrimSpace(mediaID)
	if mediaID == "" {
		metrics.RecordCommentPost(apperr.ValidationFailed.String())
		return models.CommentEntry{}, apperr.Validation(op, "mediaId", "mediaId is required")
	}

	req := models.CommentRequest{Text: strings.TrimSpace(text)}
	if verr := validation.ValidateStruct(req); verr != nil {
		metrics.RecordCommentPost(apperr.ValidationFailed.String())
		return models.CommentEntry{}, verr.ToAppError(op)
	}

	resp, err := s.client.Do(ctx, transport.Request{
		Method:   http.MethodPost,
		Path:     commentsPath(mediaID),
		Endpoint: endpointComments,
		JSON:     req,
	})
	if err != nil {
		metrics.RecordCommentPost(apperr.KindOf(err).String())
		return models.CommentEntry{}, apperr.Wrap(op, err)
	}

	entry, derr := transport.DecodeObject[models.CommentEntry](resp.Body, transport.CommentObjectKeys...)
	if derr != nil {
		metrics.RecordCommentPost(apperr.InvalidServerResponse.String())
		return models.CommentEntry{}, apperr.Invalid(op, "comment response is not an object", derr)
	}
	if !entry.Author.Linked() {
		metrics.RecordCommentPost(apperr.InvalidServerResponse.String())
		logging.Ctx(ctx).Warn().Str("media_id", mediaID).Msg("Comment response lacks author linkage; not applied")
		return models.CommentEntry{}, apperr.Invalid(op, "comment response has no author", nil)
	}
	if entry.MediaID == "" {
		entry.MediaID = mediaID
	}
	if entry.ID == "" {
		entry.ID = LocalIDPrefix + uuid.NewString()
	}
	if entry.Text == "" {
		entry.Text = req.Text
	}

	metrics.RecordCommentPost(metrics.ResultOK)

	// Only a thread that is loading or loaded takes the entry. An unloaded
	// thread stays Empty so a later load fetches it whole.
	next, stored := s.threads.UpdateIfPresent(mediaID, func(t thread) thread {
		comments := make([]models.CommentEntry, 0, len(t.comments)+1)
		comments = append(comments, t.comments...)
		comments = append(comments, entry)
		return thread{state: t.state, comments: comments}
	})
	if !stored {
		logging.Ctx(ctx).Debug().Str("media_id", mediaID).Msg("Comment confirmed for unloaded thread; not stored")
		return entry, nil
	}

	s.publish(ctx, events.TopicThreadChanged, mediaID, len(next.comments), "post_comment")
	return entry, nil
}
