// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Package account registers users and exchanges credentials for a bearer
// token. A successful login is saved to the auth.CredentialStore; the core
// components never read that store themselves.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/auth"
	"github.com/tomtom215/clipshare/internal/logging"
	"github.com/tomtom215/clipshare/internal/models"
	"github.com/tomtom215/clipshare/internal/transport"
	"github.com/tomtom215/clipshare/internal/validation"
)

// MessageInvalidCredentials is the authority's rejection text for a bad login.
const MessageInvalidCredentials = "Invalid credentials"

const (
	endpointRegister = "/register"
	endpointLogin    = "/login"
)

// Client talks to the account endpoints.
type Client struct {
	client transport.Doer
	store  auth.CredentialStore
	now    func() time.Time
}

// New creates an account client that saves logins to store.
func New(client transport.Doer, store auth.CredentialStore) *Client {
	return &Client{client: client, store: store, now: time.Now}
}

// registerResponse accepts {user: {...}} or the user fields at the top level.
type registerResponse struct {
	ID       string       `json:"_id"`
	Username string       `json:"username"`
	Role     string       `json:"role"`
	Message  string       `json:"message"`
	User     *models.User `json:"user"`
}

// Register creates an account. The returned user falls back to the request
// fields when the authority echoes nothing back.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	const op = "account.Register"

	req.Username = strings.TrimSpace(req.Username)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr.ToAppError(op)
	}

	resp, err := c.client.Do(ctx, transport.Request{
		Method:   http.MethodPost,
		Path:     endpointRegister,
		Endpoint: endpointRegister,
		JSON:     req,
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	user := &models.User{Username: req.Username, Role: req.Role}
	if body, derr := transport.DecodeObject[registerResponse](resp.Body, transport.AccountObjectKeys...); derr == nil {
		if body.User != nil {
			mergeUser(user, body.User)
		} else {
			mergeUser(user, &models.User{ID: body.ID, Username: body.Username, Role: body.Role})
		}
	}

	logging.Ctx(ctx).Info().Str("username", user.Username).Str("role", user.Role).Msg("Account registered")
	return user, nil
}

// Login exchanges credentials for a token and saves it.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*auth.Credential, error) {
	const op = "account.Login"

	req.Username = strings.TrimSpace(req.Username)
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr.ToAppError(op)
	}

	resp, err := c.client.Do(ctx, transport.Request{
		Method:   http.MethodPost,
		Path:     endpointLogin,
		Endpoint: endpointLogin,
		JSON:     req,
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	body, derr := transport.DecodeObject[models.LoginResponse](resp.Body, transport.AccountObjectKeys...)
	if derr != nil {
		return nil, apperr.Invalid(op, "Invalid server response", derr)
	}
	if body.Message == MessageInvalidCredentials {
		return nil, &apperr.Error{Kind: apperr.ServerRejected, Op: op, Status: resp.Status, Message: MessageInvalidCredentials}
	}
	if !body.Success || body.Token == "" {
		return nil, apperr.Invalid(op, "Invalid server response", nil)
	}
	role := body.ResolvedRole()
	if role == "" {
		return nil, apperr.Invalid(op, "Role not received", nil)
	}

	cred := &auth.Credential{
		Token:    body.Token,
		Role:     role,
		Username: req.Username,
		IssuedAt: c.now().UTC(),
	}
	if body.User != nil {
		if body.User.Username != "" {
			cred.Username = body.User.Username
		}
		cred.UserID = body.User.ID
	}

	if c.store != nil {
		if err := c.store.Save(ctx, cred); err != nil {
			return nil, fmt.Errorf("save credential: %w", err)
		}
	}

	logging.Ctx(ctx).Info().Str("username", cred.Username).Str("role", cred.Role).Msg("Logged in")
	return cred, nil
}

// Logout forgets the saved credential.
func (c *Client) Logout(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Current returns the saved credential, or nil when logged out.
func (c *Client) Current(ctx context.Context) (*auth.Credential, error) {
	if c.store == nil {
		return nil, nil
	}
	cred, err := c.store.Load(ctx)
	if errors.Is(err, auth.ErrNoCredential) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	return cred, nil
}

func mergeUser(dst, src *models.User) {
	if src.ID != "" {
		dst.ID = src.ID
	}
	if src.Username != "" {
		dst.Username = src.Username
	}
	if src.Role != "" {
		dst.Role = src.Role
	}
}
