// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Package auth holds the login credential collaborator of the client core.
//
// The core never reads ambient storage for the bearer token. The CLI loads
// the credential from a CredentialStore once and attaches it to the context
// of every intent; the transport reads it back with CredentialFromContext:
//
//	cred, _ := store.Load(ctx)
//	ctx = auth.WithCredential(ctx, cred)
//	err := engagement.PostComment(ctx, mediaID, text) // Authorization: Bearer <token>
package auth

import (
	"context"
	"errors"
	"time"
)

// ErrNoCredential is returned when no credential has been saved.
var ErrNoCredential = errors.New("no credential stored")

// Credential is the result of a successful login.
type Credential struct {
	Token    string    `json:"token"`
	Role     string    `json:"role"`
	Username string    `json:"username,omitempty"`
	UserID   string    `json:"user_id,omitempty"`
	IssuedAt time.Time `json:"issued_at"`
}

// Valid reports whether the credential can authenticate a request.
func (c *Credential) Valid() bool {
	return c != nil && c.Token != ""
}

type credentialKey struct{}

// WithCredential returns a context carrying cred. A nil or empty credential
// leaves requests unauthenticated.
func WithCredential(ctx context.Context, cred *Credential) context.Context {
	return context.WithValue(ctx, credentialKey{}, cred)
}

// CredentialFromContext returns the credential attached to ctx, or nil.
func CredentialFromContext(ctx context.Context) *Credential {
	cred, _ := ctx.Value(credentialKey{}).(*Credential)
	if !cred.Valid() {
		return nil
	}
	return cred
}

// BearerToken returns the bearer token attached to ctx, or "".
func BearerToken(ctx context.Context) string {
	if cred := CredentialFromContext(ctx); cred != nil {
		return cred.Token
	}
	return ""
}
