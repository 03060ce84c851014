// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package auth

import (
	"context"
	"sync"
)

// CredentialStore persists the current login credential.
type CredentialStore interface {
	// Save replaces the stored credential.
	Save(ctx context.Context, cred *Credential) error

	// Load returns the stored credential or ErrNoCredential.
	Load(ctx context.Context) (*Credential, error)

	// Clear removes the stored credential. Clearing an empty store is not an error.
	Clear(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

// MemoryCredentialStore keeps the credential for the life of the process.
type MemoryCredentialStore struct {
	mu   sync.RWMutex
	cred *Credential
}

var _ CredentialStore = (*MemoryCredentialStore)(nil)

// NewMemoryCredentialStore creates an empty in-memory store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

// Save stores a copy of cred.
func (s *MemoryCredentialStore) Save(_ context.Context, cred *Credential) error {
	c := *cred
	s.mu.Lock()
	s.cred = &c
	s.mu.Unlock()
	return nil
}

// Load returns a copy of the stored credential.
func (s *MemoryCredentialStore) Load(_ context.Context) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return nil, ErrNoCredential
	}
	c := *s.cred
	return &c, nil
}

// Clear forgets the credential.
func (s *MemoryCredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.cred = nil
	s.mu.Unlock()
	return nil
}

// Close is a no-op.
func (s *MemoryCredentialStore) Close() error {
	return nil
}
