// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package views

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/clipshare/internal/catalog"
	"github.com/tomtom215/clipshare/internal/engagement"
	"github.com/tomtom215/clipshare/internal/mediaurl"
	"github.com/tomtom215/clipshare/internal/transport"
	"github.com/tomtom215/clipshare/internal/upload"
)

const testOrigin = "http://localhost:5000"

// pendingScheduler records scheduled retries without running them.
type pendingScheduler struct {
	mu    sync.Mutex
	count int
}

func (s *pendingScheduler) Schedule(_ time.Duration, _ func()) func() bool {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	return func() bool { return true }
}

type fixture struct {
	catalog  *catalog.Catalog
	store    *engagement.Store
	pipeline *upload.Pipeline
	cards    *CardBuilder
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := transport.NewClient(transport.Options{BaseURL: server.URL, DefaultTimeout: 2 * time.Second})
	sched := &pendingScheduler{}
	store := engagement.New(engagement.Options{Client: client})
	cat := catalog.New(catalog.Options{Client: client, Schedule: sched.Schedule, Observe: store.Reconcile})
	t.Cleanup(cat.Close)

	return &fixture{
		catalog:  cat,
		store:    store,
		pipeline: upload.New(upload.Options{Client: client, Catalog: cat}),
		cards:    NewCardBuilder(mediaurl.New(testOrigin), store),
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func cardIDs(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func checkCardIDs(t *testing.T, cards []Card, want ...string) {
	t.Helper()
	got := cardIDs(cards)
	if len(got) != len(want) {
		t.Fatalf("cards = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cards = %v, want %v", got, want)
		}
	}
}
