// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Package apperr defines the error taxonomy shared by the Clipshare client core.
//
// Every failure that leaves the catalog, engagement store, upload pipeline or
// account client is an *Error carrying one of five kinds. Raw transport
// errors are wrapped, never returned bare, so callers can branch on Kind:
//
//	_, err := cat.FetchAll(ctx)
//	if apperr.Is(err, apperr.FetchFailed) {
//	    // background retry already scheduled; timeouts match too
//	}
package apperr

import (
	"errors"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	// Unknown is the zero value; it is never produced by the core.
	Unknown Kind = iota

	// ValidationFailed is a local, pre-network rejection naming a field.
	ValidationFailed

	// FetchFailed is a network-layer failure (connection refused, reset, DNS).
	FetchFailed

	// TimeoutFailed is a FetchFailed caused by a deadline. Is(err, FetchFailed)
	// matches it.
	TimeoutFailed

	// InvalidServerResponse is a structurally unexpected payload.
	InvalidServerResponse

	// ServerRejected means the authority returned an explicit error status or body.
	ServerRejected
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case ValidationFailed:
		return "validation_failed"
	case FetchFailed:
		return "fetch_failed"
	case TimeoutFailed:
		return "timeout_failed"
	case InvalidServerResponse:
		return "invalid_server_response"
	case ServerRejected:
		return "server_rejected"
	default:
		return "unknown"
	}
}

// Retryable reports whether the kind is a transient network failure.
func (k Kind) Retryable() bool {
	return k == FetchFailed || k == TimeoutFailed
}

// Error is the single error type returned by core components.
type Error struct {
	Kind Kind

	// Op is the operation that failed, e.g. "catalog.FetchAll".
	Op string

	// Field names the offending input for ValidationFailed.
	Field string

	// Message is the human-readable cause shown to the user.
	Message string

	// Status is the HTTP status for ServerRejected, 0 otherwise.
	Status int

	// NoResponse is true when the request was sent but no response arrived.
	NoResponse bool

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.String())
	}
	if e.Message != "" && e.Err != nil && e.Err.Error() != e.Message {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Validation creates a ValidationFailed error for field.
func Validation(op, field, message string) *Error {
	return &Error{Kind: ValidationFailed, Op: op, Field: field, Message: message}
}

// Invalid creates an InvalidServerResponse error.
func Invalid(op, message string, cause error) *Error {
	return &Error{Kind: InvalidServerResponse, Op: op, Message: message, Err: cause}
}

// Wrap re-labels err with op while keeping its kind and diagnostics.
// A non-taxonomy error is classified as FetchFailed.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		c := *e
		c.Op = op
		return &c
	}
	return &Error{Kind: FetchFailed, Op: op, Message: err.Error(), Err: err}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Unknown
}

// Matches reports whether an error of kind k satisfies a check for target.
// TimeoutFailed is a subtype of FetchFailed.
func (k Kind) Matches(target Kind) bool {
	return k == target || (k == TimeoutFailed && target == FetchFailed)
}

// Is reports whether err carries the given kind. A TimeoutFailed error is
// also a FetchFailed.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err).Matches(kind)
}

// Is lets errors.Is compare against a bare kind sentinel such as
// &Error{Kind: FetchFailed}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Field != "" || t.Message != "" || t.Err != nil {
		return false
	}
	return e.Kind.Matches(t.Kind)
}

// FieldOf returns the offending field of a ValidationFailed error.
func FieldOf(err error) string {
	if e, ok := As(err); ok {
		return e.Field
	}
	return ""
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
