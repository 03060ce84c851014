// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package models

// Account roles.
const (
	RoleCreator  = "creator"
	RoleConsumer = "consumer"
)

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=creator consumer"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// User is the account object embedded in auth responses.
type User struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// LoginResponse is the body returned by POST /login.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Role    string `json:"role"`
	Message string `json:"message"`
	User    *User  `json:"user"`
}

// ResolvedRole returns the top-level role, falling back to user.role.
func (r LoginResponse) ResolvedRole() string {
	if r.Role != "" {
		return r.Role
	}
	if r.User != nil {
		return r.User.Role
	}
	return ""
}
