// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/clipshare/internal/account"
	"github.com/tomtom215/clipshare/internal/auth"
	"github.com/tomtom215/clipshare/internal/catalog"
	"github.com/tomtom215/clipshare/internal/config"
	"github.com/tomtom215/clipshare/internal/engagement"
	"github.com/tomtom215/clipshare/internal/events"
	"github.com/tomtom215/clipshare/internal/logging"
	"github.com/tomtom215/clipshare/internal/mediaurl"
	"github.com/tomtom215/clipshare/internal/transport"
	"github.com/tomtom215/clipshare/internal/upload"
	"github.com/tomtom215/clipshare/internal/views"
)

// app holds the process-wide components of one invocation.
type app struct {
	cfg *config.Config

	sessions auth.CredentialStore
	client   *transport.Client
	bus      *events.Bus

	catalog  *catalog.Catalog
	store    *engagement.Store
	pipeline *upload.Pipeline
	accounts *account.Client

	cards    *views.CardBuilder
	renderer *views.Renderer
}

func newApp(cfg *config.Config) (*app, error) {
	sessions, err := auth.NewCredentialStore(auth.StoreType(cfg.Session.Store), cfg.Session.Path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	client := transport.NewClient(transport.OptionsFromConfig(cfg))
	bus := events.NewBus(events.DefaultBufferSize)

	store := engagement.New(engagement.OptionsFromConfig(cfg, client, bus))
	catOpts := catalog.OptionsFromConfig(cfg, client, bus)
	catOpts.Observe = store.Reconcile
	cat := catalog.New(catOpts)

	a := &app{
		cfg:      cfg,
		sessions: sessions,
		client:   client,
		bus:      bus,
		catalog:  cat,
		store:    store,
		pipeline: upload.New(upload.OptionsFromConfig(cfg, client, cat)),
		accounts: account.New(client, sessions),
		cards:    views.NewCardBuilder(mediaurl.New(cfg.API.MediaOrigin()), store),
		renderer: views.NewRenderer(),
	}

	logging.Debug().
		Str("api_origin", cfg.API.Origin).
		Str("media_origin", cfg.API.MediaOrigin()).
		Str("session_store", cfg.Session.Store).
		Str("breaker", client.BreakerState()).
		Msg("Client initialized")
	return a, nil
}

// withSession attaches the saved credential, if any, to ctx.
func (a *app) withSession(ctx context.Context) (context.Context, error) {
	cred, err := a.accounts.Current(ctx)
	if err != nil {
		return ctx, err
	}
	if cred == nil {
		return ctx, nil
	}
	return auth.WithCredential(ctx, cred), nil
}

// requireSession is withSession for commands that need a login.
func (a *app) requireSession(ctx context.Context) (context.Context, error) {
	cred, err := a.accounts.Current(ctx)
	if err != nil {
		return ctx, err
	}
	if cred == nil {
		return ctx, errNotLoggedIn
	}
	return auth.WithCredential(ctx, cred), nil
}

func (a *app) Close() {
	a.catalog.Close()
	if err := a.bus.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing change feed")
	}
	if err := a.sessions.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing session store")
	}
}
