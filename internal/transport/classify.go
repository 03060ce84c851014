// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/clipshare/internal/apperr"
)

// Fallback messages for failures that carry no diagnostic of their own.
const (
	MessageTimeout    = "request timed out"
	MessageNoResponse = "No response from server"
)

// errorBody is the authority's error payload.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// rejection builds a ServerRejected error from a non-2xx response.
func rejection(status int, body []byte) *apperr.Error {
	e := &apperr.Error{Kind: apperr.ServerRejected, Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		e.Message = strings.TrimSpace(eb.Message)
		if e.Message == "" {
			e.Message = strings.TrimSpace(eb.Error)
		}
	}
	e.Err = fmt.Errorf("authority returned status %d", status)
	return e
}

// ServerMessage returns the message of the authority's error body, or "".
func ServerMessage(err error) string {
	if e, ok := apperr.As(err); ok && e.Kind == apperr.ServerRejected {
		return e.Message
	}
	return ""
}

// classifyDoError converts a failure to send or receive into the taxonomy.
// sent is true once the request has been handed to the HTTP client.
func classifyDoError(err error, sent bool) *apperr.Error {
	if isTimeout(err) {
		return &apperr.Error{Kind: apperr.TimeoutFailed, Message: MessageTimeout, NoResponse: sent, Err: err}
	}
	e := &apperr.Error{Kind: apperr.FetchFailed, NoResponse: sent, Err: err}
	if sent {
		e.Message = MessageNoResponse
	}
	return e
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, http.ErrHandlerTimeout) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
