// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// exerciseStore runs the shared save/load/clear contract against store.
func exerciseStore(t *testing.T, store CredentialStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("Load() on empty store error = %v, want ErrNoCredential", err)
	}

	issued := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cred := &Credential{Token: "tok-1", Role: "creator", Username: "jane", IssuedAt: issued}
	if err := store.Save(ctx, cred); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Mutating the caller's copy must not affect the stored credential.
	cred.Token = "mutated"

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Token != "tok-1" || got.Role != "creator" || got.Username != "jane" {
		t.Errorf("Load() = %+v", got)
	}
	if !got.IssuedAt.Equal(issued) {
		t.Errorf("IssuedAt = %v, want %v", got.IssuedAt, issued)
	}

	if err := store.Save(ctx, &Credential{Token: "tok-2", Role: "consumer"}); err != nil {
		t.Fatalf("Save() overwrite error: %v", err)
	}
	got, _ = store.Load(ctx)
	if got.Token != "tok-2" {
		t.Errorf("Token after overwrite = %q, want tok-2", got.Token)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() on empty store error: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNoCredential) {
		t.Errorf("Load() after Clear error = %v, want ErrNoCredential", err)
	}
}

func TestMemoryCredentialStore(t *testing.T) {
	t.Parallel()

	store := NewMemoryCredentialStore()
	defer store.Close()
	exerciseStore(t, store)
}

func TestBadgerCredentialStore_InMemory(t *testing.T) {
	t.Parallel()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open in-memory badger: %v", err)
	}
	defer db.Close()

	exerciseStore(t, NewBadgerCredentialStore(db))
}

func TestBadgerCredentialStore_Persists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenBadgerCredentialStore(dir)
	if err != nil {
		t.Fatalf("OpenBadgerCredentialStore() error: %v", err)
	}
	if err := store.Save(ctx, &Credential{Token: "persisted", Role: "creator"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reopened, err := OpenBadgerCredentialStore(dir)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load() after reopen error: %v", err)
	}
	if got.Token != "persisted" {
		t.Errorf("Token = %q, want persisted", got.Token)
	}
}

func TestNewCredentialStore(t *testing.T) {
	t.Parallel()

	mem, err := NewCredentialStore(StoreMemory, "")
	if err != nil {
		t.Fatalf("NewCredentialStore(memory) error: %v", err)
	}
	if _, ok := mem.(*MemoryCredentialStore); !ok {
		t.Errorf("expected *MemoryCredentialStore, got %T", mem)
	}

	bdg, err := NewCredentialStore(StoreBadger, t.TempDir())
	if err != nil {
		t.Fatalf("NewCredentialStore(badger) error: %v", err)
	}
	defer bdg.Close()
	if _, ok := bdg.(*BadgerCredentialStore); !ok {
		t.Errorf("expected *BadgerCredentialStore, got %T", bdg)
	}

	if _, err := NewCredentialStore("redis", ""); err == nil {
		t.Error("expected error for unknown store type")
	}
}

// TestOpenBadgerCredentialStore_InvalidPath tests opening a store at an unwritable path.
func TestOpenBadgerCredentialStore_InvalidPath(t *testing.T) {
	t.Parallel()

	// /proc is a pseudo-filesystem that doesn't allow creating directories
	if _, err := OpenBadgerCredentialStore("/proc/1/badger-test"); err == nil {
		t.Error("OpenBadgerCredentialStore should fail with invalid path")
	}
}
