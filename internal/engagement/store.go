// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Package engagement holds per-media comment threads and confirmed rating
// averages.
//
// Mutations are confirm-then-apply: a comment is appended only after the
// authority returns it with an author linkage, and a rating replaces the
// stored average only with the aggregate the authority reports. A failed
// mutation leaves state untouched.
//
// A confirmed average overrides the catalog value only until a list fetched
// after the confirmation carries that item; Reconcile then retires it.
//
// Thread state machine:
//
//	Empty --LoadComments--> Loading --ok--> Loaded
//	Loading|Loaded --PostComment ok--> same state (entry appended)
//	Empty --PostComment ok--> Empty (entry returned, not stored)
//	any --LoadComments failure--> Loaded (empty)
//
// Threads live in an LRU; an evicted thread reads as Empty again.
package engagement

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/clipshare/internal/cache"
	"github.com/tomtom215/clipshare/internal/config"
	"github.com/tomtom215/clipshare/internal/events"
	"github.com/tomtom215/clipshare/internal/logging"
	"github.com/tomtom215/clipshare/internal/metrics"
	"github.com/tomtom215/clipshare/internal/models"
	"github.com/tomtom215/clipshare/internal/transport"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultCommentsTimeout = 10 * time.Second
	DefaultMaxThreads      = 500
)

// ThreadState is the lifecycle state of one comment thread.
type ThreadState int

const (
	StateEmpty ThreadState = iota
	StateLoading
	StateLoaded
)

// String returns the string representation of the state.
func (s ThreadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "empty"
	}
}

// Thread is a snapshot of one media item's comments.
type Thread struct {
	MediaID  string
	State    ThreadState
	Comments []models.CommentEntry
}

// Rating is a snapshot of one media item's rating state.
type Rating struct {
	// Average is the last aggregate confirmed by the authority.
	Average float64

	// Confirmed is true while a confirmed submission overrides the catalog
	// value.
	Confirmed bool

	// InFlight counts submissions awaiting a response.
	InFlight int
}

type thread struct {
	state    ThreadState
	comments []models.CommentEntry
}

type confirmedAverage struct {
	value float64
	at    time.Time
}

// Options configures a Store.
type Options struct {
	Client          transport.Doer
	Events          events.Publisher
	CommentsTimeout time.Duration
	MaxThreads      int
}

// OptionsFromConfig fills the tunables from loaded configuration.
func OptionsFromConfig(cfg *config.Config, client transport.Doer, pub events.Publisher) Options {
	return Options{
		Client:          client,
		Events:          pub,
		CommentsTimeout: cfg.API.CommentsTimeout,
		MaxThreads:      cfg.Engagement.MaxThreads,
	}
}

// Store is the process-wide owner of comment threads and rating averages.
type Store struct {
	client          transport.Doer
	events          events.Publisher
	commentsTimeout time.Duration
	logger          zerolog.Logger

	threads *cache.LRU[string, thread]

	now func() time.Time

	mu       sync.RWMutex
	averages map[string]confirmedAverage
	inFlight map[string]int
}

// New creates a store. Options.Client is required.
func New(opts Options) *Store {
	s := &Store{
		client:          opts.Client,
		events:          opts.Events,
		commentsTimeout: opts.CommentsTimeout,
		logger:          logging.WithComponent("engagement"),
		now:             time.Now,
		averages:        make(map[string]confirmedAverage),
		inFlight:        make(map[string]int),
	}
	if s.events == nil {
		s.events = events.Discard
	}
	if s.commentsTimeout <= 0 {
		s.commentsTimeout = DefaultCommentsTimeout
	}
	maxThreads := opts.MaxThreads
	if maxThreads <= 0 {
		maxThreads = DefaultMaxThreads
	}

	s.threads = cache.NewLRU[string, thread](maxThreads)
	s.threads.OnEvict(func(mediaID string, _ thread) {
		s.logger.Debug().Str("media_id", mediaID).Msg("Evicted comment thread")
	})
	return s
}

// Thread returns a snapshot of the thread for mediaID.
func (s *Store) Thread(mediaID string) Thread {
	t, ok := s.threads.Peek(mediaID)
	if !ok {
		return Thread{MediaID: mediaID, State: StateEmpty, Comments: []models.CommentEntry{}}
	}
	return Thread{MediaID: mediaID, State: t.state, Comments: cloneComments(t.comments)}
}

// Average returns the confirmed average for item, or the value the catalog
// reported when no submission has been confirmed. Never-rated items read 0.
func (s *Store) Average(item models.MediaItem) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if avg, ok := s.averages[item.ID]; ok {
		return avg.value
	}
	return models.ClampAverage(item.AverageRating)
}

// Reconcile retires confirmed averages for items in a list whose request
// started after the confirmation. Such a list already reflects the vote,
// plus any others cast since. It matches catalog.FetchObserver.
func (s *Store) Reconcile(started time.Time, items []models.MediaItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		avg, ok := s.averages[item.ID]
		if !ok || avg.at.After(started) {
			continue
		}
		delete(s.averages, item.ID)
		s.logger.Debug().
			Str("media_id", item.ID).
			Float64("confirmed", avg.value).
			Float64("reported", item.AverageRating).
			Msg("Retired confirmed average")
	}
}

// Rating returns the rating state for mediaID.
func (s *Store) Rating(mediaID string) Rating {
	s.mu.RLock()
	defer s.mu.RUnlock()
	avg, ok := s.averages[mediaID]
	return Rating{Average: avg.value, Confirmed: ok, InFlight: s.inFlight[mediaID]}
}

func (s *Store) setThread(mediaID string, t thread) {
	s.threads.Put(mediaID, t)
	metrics.EngagementThreads.Set(float64(s.threads.Len()))
}

func (s *Store) publish(ctx context.Context, topic, mediaID string, count int, source string) {
	err := s.events.Publish(ctx, events.Change{
		Topic:   topic,
		MediaID: mediaID,
		Count:   count,
		Source:  source,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("topic", topic).Msg("Failed to publish engagement change")
	}
}

func commentsPath(mediaID string) string {
	return fmt.Sprintf("/media/%s/comments", url.PathEscape(mediaID))
}

func ratingsPath(mediaID string) string {
	return fmt.Sprintf("/media/%s/ratings", url.PathEscape(mediaID))
}

func cloneComments(in []models.CommentEntry) []models.CommentEntry {
	out := make([]models.CommentEntry, len(in))
	copy(out, in)
	return out
}
