// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Package supervisor runs the long-lived parts of `clipshare watch` under a
// Suture supervisor tree.
//
// The tree has two layers:
//   - feed: the dashboard refresh loop and change renderer
//   - status: the local HTTP listener (/healthz, /latest, /metrics)
//
// A crashed service is restarted with backoff inside its layer, so a
// listener failure never stops the feed and the reverse.
//
//	tree := supervisor.New(logging.NewSlogLogger("supervisor"), supervisor.Config{})
//	tree.AddFeedService(supervisor.NewFuncService("dashboard-refresh", loop))
//	tree.AddStatusService(listener)
//	err := tree.Serve(ctx)
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Config holds restart tuning. Zero fields take the defaults below.
type Config struct {
	// FailureThreshold is the failure count that triggers backoff. Default: 5
	FailureThreshold float64

	// FailureDecay is the failure decay rate in seconds. Default: 30
	FailureDecay float64

	// FailureBackoff is the pause once the threshold is hit. Default: 15s
	FailureBackoff time.Duration

	// ShutdownTimeout bounds each service's stop. Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultConfig returns suture's own defaults.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay <= 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff <= 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

// Tree is the watch-mode supervisor tree.
type Tree struct {
	root   *suture.Supervisor
	feed   *suture.Supervisor
	status *suture.Supervisor
	config Config
}

// New builds the tree. Supervisor events are logged through logger.
func New(logger *slog.Logger, cfg Config) *Tree {
	cfg = cfg.withDefaults()

	spec := suture.Spec{
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}
	rootSpec := spec
	rootSpec.EventHook = (&sutureslog.Handler{Logger: logger}).MustHook()

	t := &Tree{
		root:   suture.New("clipshare", rootSpec),
		feed:   suture.New("feed-layer", spec),
		status: suture.New("status-layer", spec),
		config: cfg,
	}
	t.root.Add(t.feed)
	t.root.Add(t.status)
	return t
}

// AddFeedService adds a service to the feed layer.
func (t *Tree) AddFeedService(svc suture.Service) suture.ServiceToken {
	return t.feed.Add(svc)
}

// AddStatusService adds a service to the status layer.
func (t *Tree) AddStatusService(svc suture.Service) suture.ServiceToken {
	return t.status.Add(svc)
}

// Serve runs the tree until ctx is canceled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
