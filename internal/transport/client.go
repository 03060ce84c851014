// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Package transport is the HTTP boundary between the client core and the
// Clipshare authority.
//
// Every call goes through Client.Do, which:
//   - applies a per-call timeout
//   - attaches "Authorization: Bearer <token>" when the context carries an
//     auth.Credential
//   - waits on the optional outbound rate limiter
//   - runs under the circuit breaker
//   - converts every failure into an *apperr.Error
//
// Response bodies are normalized with DecodeList and DecodeObject.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/auth"
	"github.com/tomtom215/clipshare/internal/config"
	"github.com/tomtom215/clipshare/internal/logging"
	"github.com/tomtom215/clipshare/internal/metrics"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 32 << 20

// userAgent identifies the client to the authority.
const userAgent = "clipshare-client/1.0"

// Doer executes requests against the authority.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Ensure Client implements Doer
var _ Doer = (*Client)(nil)

// Request describes one call to the authority.
type Request struct {
	Method string

	// Path is appended to the API origin, e.g. "/media/abc/comments".
	Path string

	// Endpoint is the route template used as a metrics label, e.g.
	// "/media/{id}/comments". Defaults to Path.
	Endpoint string

	Query url.Values

	// JSON is encoded as the request body when Body is nil.
	JSON interface{}

	// Body and ContentType send a pre-encoded body (multipart uploads).
	Body        io.Reader
	ContentType string

	// Timeout overrides the client default when positive.
	Timeout time.Duration
}

// Response is a successful (2xx) reply.
type Response struct {
	Status int
	Body   []byte
}

// Options configures a Client.
type Options struct {
	BaseURL        string
	DefaultTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	Breaker        config.BreakerConfig
	HTTPClient     *http.Client
}

// OptionsFromConfig builds Options from loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:        cfg.API.Origin,
		DefaultTimeout: cfg.API.DefaultTimeout,
		RateLimitRPS:   cfg.Transport.RateLimitRPS,
		RateLimitBurst: cfg.Transport.RateLimitBurst,
		Breaker:        cfg.Transport.Breaker,
	}
}

// Client provides access to the Clipshare REST API
type Client struct {
	baseURL        string
	defaultTimeout time.Duration
	httpClient     *http.Client
	limiter        *rate.Limiter
	breaker        *Breaker
}

// NewClient creates a new API client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		// Per-call deadlines come from the request context.
		httpClient = &http.Client{}
	}

	timeout := opts.DefaultTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	var limiter *rate.Limiter
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)
	}

	return &Client{
		baseURL:        strings.TrimSuffix(opts.BaseURL, "/"),
		defaultTimeout: timeout,
		httpClient:     httpClient,
		limiter:        limiter,
		breaker:        NewBreaker("clipshare-api", opts.Breaker),
	}
}

// BreakerState reports the circuit breaker state for health output.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// Do sends req and returns the 2xx response, or an *apperr.Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = req.Path
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.breaker.Execute(func() (*Response, error) {
		return c.send(ctx, method, req)
	})
	outcome := metrics.ResultOK
	if err != nil {
		outcome = apperr.KindOf(err).String()
		logFailure(ctx, method, endpoint, err)
	}
	metrics.RecordHTTPRequest(endpoint, method, outcome, time.Since(start))

	return resp, err
}

func (c *Client) send(ctx context.Context, method string, req Request) (*Response, error) {
	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, classifyDoError(err, false)
		}
		metrics.RecordRateLimitWait(time.Since(waitStart))
	}

	httpReq, err := c.newRequest(ctx, method, req)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.FetchFailed, Message: err.Error(), Err: err}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyDoError(err, true)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, classifyDoError(err, true)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, rejection(httpResp.StatusCode, body)
	}

	return &Response{Status: httpResp.StatusCode, Body: body}, nil
}

func (c *Client) newRequest(ctx context.Context, method string, req Request) (*http.Request, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	body := req.Body
	contentType := req.ContentType
	if body == nil && req.JSON != nil {
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	if body == nil {
		body = http.NoBody
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token := auth.BearerToken(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		httpReq.Header.Set("X-Correlation-ID", id)
	}

	return httpReq, nil
}

func logFailure(ctx context.Context, method, endpoint string, err error) {
	event := logging.Ctx(ctx).Warn().Err(err).Str("method", method).Str("endpoint", endpoint)
	if e, ok := apperr.As(err); ok {
		event = event.Str("kind", e.Kind.String())
		if e.Status != 0 {
			event = event.Int("status", e.Status)
		}
	}
	event.Msg("Request to authority failed")
}
