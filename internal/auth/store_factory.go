// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package auth

import "fmt"

// StoreType defines the credential storage backend.
type StoreType string

const (
	// StoreMemory keeps the credential in memory (not persistent).
	StoreMemory StoreType = "memory"

	// StoreBadger persists the credential in BadgerDB.
	StoreBadger StoreType = "badger"
)

// NewCredentialStore creates a store for storeType. An empty type means memory.
func NewCredentialStore(storeType StoreType, path string) (CredentialStore, error) {
	switch storeType {
	case StoreMemory, "":
		return NewMemoryCredentialStore(), nil
	case StoreBadger:
		return OpenBadgerCredentialStore(path)
	default:
		return nil, fmt.Errorf("unknown credential store type %q", storeType)
	}
}
