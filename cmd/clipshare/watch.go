// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/clipshare/internal/config"
	"github.com/tomtom215/clipshare/internal/events"
	"github.com/tomtom215/clipshare/internal/logging"
	"github.com/tomtom215/clipshare/internal/supervisor"
	"github.com/tomtom215/clipshare/internal/views"
)

const shutdownTimeout = 5 * time.Second

// healthStatus is the body of GET /healthz.
type healthStatus struct {
	Status       string `json:"status"`
	Breaker      string `json:"breaker"`
	CatalogItems int    `json:"catalog_items"`
	LatestItems  int    `json:"latest_items"`
	RetryPending bool   `json:"retry_pending"`
}

func cmdWatch(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	addr := fs.String("addr", a.cfg.Metrics.Addr, "status listener address (empty disables it)")
	interval := fs.Duration("interval", a.cfg.Watch.Interval, "dashboard refresh interval")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *interval <= 0 {
		return usagef("watch: -interval must be positive")
	}

	ctx, err := a.withSession(ctx)
	if err != nil {
		return err
	}

	dash := views.NewDashboardFeed(a.catalog, a.cards, 0, "")
	tree := supervisor.New(logging.NewSlogLogger("supervisor"), supervisor.Config{
		ShutdownTimeout: shutdownTimeout,
	})

	if *addr != "" {
		listener := supervisor.NewHTTPService(&http.Server{
			Addr:              *addr,
			Handler:           newStatusRouter(a, dash),
			ReadHeaderTimeout: 5 * time.Second,
		}, shutdownTimeout)
		if err := listener.Listen(); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		logging.Info().Str("addr", listener.Addr()).Msg("Status listener started")
		tree.AddStatusService(listener)
	}

	watchConfig(a.cfg)

	tree.AddFeedService(supervisor.NewFuncService("dashboard-refresh", func(ctx context.Context) error {
		return runDashboard(ctx, a, dash, *interval, out)
	}))

	err = tree.Serve(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, suture.ErrTerminateSupervisorTree) {
		err = nil
	}
	logging.Info().Msg("Watch stopped")
	return err
}

// runDashboard loads the feed, then refreshes it every interval and renders
// each catalog change. It subscribes on every start so a restart resumes
// rendering.
func runDashboard(ctx context.Context, a *app, dash *views.DashboardFeed, interval time.Duration, out io.Writer) error {
	changes, err := a.bus.Subscribe(ctx, events.TopicCatalogChanged)
	if err != nil {
		return err
	}

	render := func() {
		if err := a.renderer.Dashboard(out, dash.View()); err != nil {
			logging.Warn().Err(err).Msg("Dashboard render failed")
		}
	}

	if err := dash.Load(ctx); err != nil {
		render()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				// Bus closed; the app is shutting down.
				return suture.ErrTerminateSupervisorTree
			}
			render()
		case <-ticker.C:
			refreshCtx := logging.ContextWithNewCorrelationID(ctx)
			if err := dash.Refresh(refreshCtx); err != nil {
				render()
			}
		}
	}
}

// watchConfig re-applies logging settings when the config file changes.
func watchConfig(cfg *config.Config) {
	path := config.FilePath()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		reloaded, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		logging.Init(logging.Config{
			Level:  reloaded.Logging.Level,
			Format: reloaded.Logging.Format,
			Caller: reloaded.Logging.Caller,
		})
		logging.Info().Str("level", reloaded.Logging.Level).Msg("Logging reconfigured")
	})
	if err != nil {
		logging.Debug().Err(err).Str("path", path).Msg("Config file watch unavailable")
		return
	}
	logging.Debug().Str("path", path).Str("api_origin", cfg.API.Origin).Msg("Watching config file")
}

func newStatusRouter(a *app, dash *views.DashboardFeed) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		status := healthStatus{
			Status:       "healthy",
			Breaker:      a.client.BreakerState(),
			CatalogItems: len(a.catalog.Snapshot()),
			LatestItems:  dash.View().Count,
			RetryPending: a.catalog.RetryPending(),
		}
		code := http.StatusOK
		if status.Breaker == "open" {
			status.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, status)
	})
	r.Get("/latest", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, dash.View())
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
