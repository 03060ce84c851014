// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/auth"
	"github.com/tomtom215/clipshare/internal/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{BaseURL: server.URL + "/api", DefaultTimeout: 2 * time.Second})
}

func checkKind(t *testing.T, err error, want apperr.Kind) *apperr.Error {
	t.Helper()
	e, ok := apperr.As(err)
	if !ok {
		t.Fatalf("error = %v (%T), want *apperr.Error", err, err)
	}
	if e.Kind != want {
		t.Fatalf("kind = %v, want %v (err: %v)", e.Kind, want, err)
	}
	return e
}

// ========================================
// Request construction
// ========================================

func TestClient_Do_GET(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/api/media/latest" {
			t.Errorf("path = %s, want /api/media/latest", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "12" {
			t.Errorf("limit = %q, want 12", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want none without credential", got)
		}
		_, _ = w.Write([]byte(`[]`))
	})

	resp, err := client.Do(context.Background(), Request{
		Path:  "/media/latest",
		Query: url.Values{"limit": {"12"}},
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.Status != http.StatusOK || string(resp.Body) != "[]" {
		t.Errorf("resp = %d %q", resp.Status, resp.Body)
	}
}

func TestClient_Do_BearerAndCorrelation(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want Bearer tok-123", got)
		}
		if got := r.Header.Get("X-Correlation-ID"); got != "abcd1234" {
			t.Errorf("X-Correlation-ID = %q, want abcd1234", got)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	})

	ctx := auth.WithCredential(context.Background(), &auth.Credential{Token: "tok-123"})
	ctx = logging.ContextWithCorrelationID(ctx, "abcd1234")

	resp, err := client.Do(ctx, Request{Method: http.MethodPost, Path: "/media/x/ratings", JSON: map[string]int{"value": 4}})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.Status != http.StatusCreated {
		t.Errorf("Status = %d, want 201", resp.Status)
	}
}

func TestClient_Do_JSONBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["text"] != "hello" {
			t.Errorf("text = %q, want hello", body["text"])
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	if _, err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/c", JSON: map[string]string{"text": "hello"}}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestClient_Do_RawBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "text/plain" {
			t.Errorf("Content-Type = %q", got)
		}
		data, _ := io.ReadAll(r.Body)
		if string(data) != "raw" {
			t.Errorf("body = %q", data)
		}
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Do(context.Background(), Request{
		Method:      http.MethodPost,
		Path:        "/raw",
		Body:        strings.NewReader("raw"),
		ContentType: "text/plain",
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

// ========================================
// Error classification
// ========================================

func TestClient_Do_Rejection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusBadRequest, `{"message":"Title taken"}`, "Title taken"},
		{"error field", http.StatusUnauthorized, `{"error":"Token expired"}`, "Token expired"},
		{"message preferred", http.StatusForbidden, `{"message":"A","error":"B"}`, "A"},
		{"non-json body", http.StatusInternalServerError, `<html>oops</html>`, ""},
		{"empty body", http.StatusBadGateway, ``, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Do(context.Background(), Request{Path: "/media"})
			e := checkKind(t, err, apperr.ServerRejected)
			if e.Status != tt.status {
				t.Errorf("Status = %d, want %d", e.Status, tt.status)
			}
			if e.Message != tt.message {
				t.Errorf("Message = %q, want %q", e.Message, tt.message)
			}
			if got := ServerMessage(err); got != tt.message {
				t.Errorf("ServerMessage() = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestClient_Do_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	_, err := client.Do(context.Background(), Request{Path: "/media", Timeout: 50 * time.Millisecond})
	e := checkKind(t, err, apperr.TimeoutFailed)
	if !e.NoResponse {
		t.Error("NoResponse = false, want true for a sent request")
	}
	if !e.Kind.Retryable() {
		t.Error("timeout should be retryable")
	}
}

func TestClient_Do_ConnectionRefused(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	client := NewClient(Options{BaseURL: addr + "/api", DefaultTimeout: time.Second})
	_, err := client.Do(context.Background(), Request{Path: "/media"})
	e := checkKind(t, err, apperr.FetchFailed)
	if e.Message != MessageNoResponse {
		t.Errorf("Message = %q, want %q", e.Message, MessageNoResponse)
	}
}

func TestClient_Do_BadRequestURL(t *testing.T) {
	t.Parallel()

	client := NewClient(Options{BaseURL: "http://invalid host", DefaultTimeout: time.Second})
	_, err := client.Do(context.Background(), Request{Path: "/media"})
	e := checkKind(t, err, apperr.FetchFailed)
	if e.NoResponse {
		t.Error("NoResponse = true for a request that was never sent")
	}
}

func TestClient_Do_UnencodableJSON(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})
	_, err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/x", JSON: make(chan int)})
	checkKind(t, err, apperr.FetchFailed)
}

// ========================================
// Rate limiting
// ========================================

func TestClient_RateLimiter(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, DefaultTimeout: time.Second, RateLimitRPS: 0.001, RateLimitBurst: 1})
	if client.limiter == nil {
		t.Fatal("limiter not configured")
	}

	if _, err := client.Do(context.Background(), Request{Path: "/media"}); err != nil {
		t.Fatalf("first Do() error = %v", err)
	}

	// The bucket is empty; the next token is far beyond the request deadline.
	_, err := client.Do(context.Background(), Request{Path: "/media", Timeout: 20 * time.Millisecond})
	if err == nil {
		t.Fatal("second Do() succeeded, want limiter failure")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	client := NewClient(Options{BaseURL: "http://localhost:5000/api/"})
	if client.baseURL != "http://localhost:5000/api" {
		t.Errorf("baseURL = %q", client.baseURL)
	}
	if client.defaultTimeout != 15*time.Second {
		t.Errorf("defaultTimeout = %v, want 15s", client.defaultTimeout)
	}
	if client.limiter != nil {
		t.Error("limiter should be off when RateLimitRPS is 0")
	}
	if got := client.BreakerState(); got != "disabled" {
		t.Errorf("BreakerState() = %q, want disabled", got)
	}
}
