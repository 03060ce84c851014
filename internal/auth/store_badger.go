// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key prefixes for BadgerDB storage
const (
	credentialKeyPrefix = "credential:"
	defaultProfile      = "default"
)

// BadgerCredentialStore persists the credential in BadgerDB so a login
// survives between CLI invocations.
type BadgerCredentialStore struct {
	db      *badger.DB
	profile string
	ownsDB  bool
}

var _ CredentialStore = (*BadgerCredentialStore)(nil)

// OpenBadgerCredentialStore opens (or creates) a store at path.
func OpenBadgerCredentialStore(path string) (*BadgerCredentialStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for credentials: %w", err)
	}
	return &BadgerCredentialStore{db: db, profile: defaultProfile, ownsDB: true}, nil
}

// NewBadgerCredentialStore wraps an existing DB. Close does not close db.
func NewBadgerCredentialStore(db *badger.DB) *BadgerCredentialStore {
	return &BadgerCredentialStore{db: db, profile: defaultProfile}
}

func (s *BadgerCredentialStore) key() []byte {
	return []byte(credentialKeyPrefix + s.profile)
}

// Save stores cred under the current profile.
func (s *BadgerCredentialStore) Save(_ context.Context, cred *Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(s.key(), data); err != nil {
			return fmt.Errorf("set credential: %w", err)
		}
		return nil
	})
}

// Load retrieves the credential of the current profile.
func (s *BadgerCredentialStore) Load(_ context.Context) (*Credential, error) {
	var cred Credential

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key())
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoCredential
		}
		if err != nil {
			return fmt.Errorf("get credential: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &cred)
		})
	})
	if err != nil {
		return nil, err
	}

	return &cred, nil
}

// Clear removes the credential of the current profile.
func (s *BadgerCredentialStore) Clear(_ context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(s.key()); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete credential: %w", err)
		}
		return nil
	})
}

// Close closes the database when the store opened it.
func (s *BadgerCredentialStore) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
