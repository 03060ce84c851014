// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Package events is the in-process change feed of the client core.
//
// The catalog and the engagement store publish a Change after every state
// transition they apply. View surfaces subscribe and re-read snapshots; a
// Change carries identifiers only, never state.
//
// The feed runs on a Watermill gochannel pub/sub:
//
//	bus := events.NewBus(events.DefaultBufferSize)
//	changes, _ := bus.Subscribe(ctx, events.TopicCatalogChanged)
//	for ch := range changes {
//	    render(cat.Snapshot())
//	}
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/clipshare/internal/logging"
)

// Topics published by the core.
const (
	TopicCatalogChanged = "catalog.changed"
	TopicThreadChanged  = "thread.changed"
	TopicRatingChanged  = "rating.changed"
)

// DefaultBufferSize is the per-subscriber output buffer.
const DefaultBufferSize = 64

// ErrBusClosed is returned by Publish and Subscribe after Close.
var ErrBusClosed = errors.New("event bus is closed")

// Change announces that the state behind Topic was replaced.
type Change struct {
	Topic string `json:"topic"`

	// MediaID is set for thread and rating changes.
	MediaID string `json:"mediaId,omitempty"`

	// Count is the list or thread length after the change.
	Count int `json:"count"`

	// Source names the operation that applied the change, e.g. "fetch_all".
	Source string `json:"source,omitempty"`

	At time.Time `json:"at"`
}

// Publisher is implemented by anything that accepts change notifications.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

// Discard drops every change. Components use it when no bus is wired.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, Change) error { return nil }

// Bus is a Watermill gochannel pub/sub carrying Change messages.
type Bus struct {
	pubsub     *gochannel.GoChannel
	logger     watermill.LoggerAdapter
	bufferSize int

	mu     sync.RWMutex
	closed bool
}

// Ensure Bus implements Publisher
var _ Publisher = (*Bus)(nil)

// NewBus creates an in-process bus with the given subscriber buffer.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	logger := logging.NewWatermillAdapter()
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(bufferSize),
	}, logger)

	return &Bus{
		pubsub:     pubsub,
		logger:     logger,
		bufferSize: bufferSize,
	}
}

// Publish serializes change and delivers it to current subscribers of its topic.
// Subscribers that join later do not see it. Delivery order across
// publishes is not guaranteed; a Change is a cue to re-read a snapshot.
func (b *Bus) Publish(ctx context.Context, change Change) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	if change.Topic == "" {
		return fmt.Errorf("publish change: topic is required")
	}
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}

	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("serialize change: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set("correlation_id", id)
	}
	if change.MediaID != "" {
		msg.Metadata.Set("media_id", change.MediaID)
	}

	if err := b.pubsub.Publish(change.Topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", change.Topic, err)
	}
	return nil
}

// Subscribe returns a channel of decoded changes for topic. The channel is
// closed when ctx is done or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan Change, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	messages, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	out := make(chan Change, b.bufferSize)
	go func() {
		defer close(out)
		for msg := range messages {
			var change Change
			if err := json.Unmarshal(msg.Payload, &change); err != nil {
				b.logger.Error("Dropping malformed change", err, watermill.LogFields{"topic": topic, "uuid": msg.UUID})
				msg.Ack()
				continue
			}
			msg.Ack()

			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Close shuts the bus down and closes every subscription.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	return b.pubsub.Close()
}
