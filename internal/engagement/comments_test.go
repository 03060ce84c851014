// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package engagement

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/auth"
	"github.com/tomtom215/clipshare/internal/events"
)

// ========================================
// LoadComments
// ========================================

func TestLoadComments_Success(t *testing.T) {
	var store atomic.Pointer[Store]
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/media/m1/comments" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := store.Load().Thread("m1").State; got != StateLoading {
			t.Errorf("state during fetch = %v, want loading", got)
		}
		writeJSON(w, http.StatusOK, `{"comments":[
			{"_id":"c1","text":"first","userId":{"_id":"u1","username":"ann"}},
			{"_id":"c2","text":"second","userId":"u2"}
		]}`)
	}, Options{})
	store.Store(f.store)

	comments, err := f.store.LoadComments(context.Background(), "m1")
	if err != nil {
		t.Fatalf("LoadComments() error = %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("len = %d, want 2", len(comments))
	}
	if comments[0].Author.DisplayName() != "ann" || comments[1].Author.DisplayName() != "Anonymous" {
		t.Errorf("authors = %q, %q", comments[0].Author.DisplayName(), comments[1].Author.DisplayName())
	}
	if comments[0].MediaID != "m1" {
		t.Errorf("MediaID = %q, want m1", comments[0].MediaID)
	}

	checkThread(t, f.store.Thread("m1"), StateLoaded, "c1", "c2")

	if ch := f.events.last(); ch.Topic != events.TopicThreadChanged || ch.MediaID != "m1" || ch.Count != 2 {
		t.Errorf("last change = %+v", ch)
	}
}

func TestLoadComments_FailureResetsToLoadedEmpty(t *testing.T) {
	var fail atomic.Bool
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			writeJSON(w, http.StatusInternalServerError, `{"message":"boom"}`)
			return
		}
		writeJSON(w, http.StatusOK, `[{"_id":"c1","text":"x","userId":"u"}]`)
	}, Options{})

	_, _ = f.store.LoadComments(context.Background(), "m1")
	checkThread(t, f.store.Thread("m1"), StateLoaded, "c1")

	fail.Store(true)
	comments, err := f.store.LoadComments(context.Background(), "m1")
	if !apperr.Is(err, apperr.ServerRejected) {
		t.Fatalf("error = %v, want ServerRejected", err)
	}
	if comments == nil || len(comments) != 0 {
		t.Errorf("comments = %v, want empty", comments)
	}
	checkThread(t, f.store.Thread("m1"), StateLoaded)
}

func TestLoadComments_Timeout(t *testing.T) {
	release := make(chan struct{})
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Options{CommentsTimeout: 50 * time.Millisecond})
	defer close(release)

	_, err := f.store.LoadComments(context.Background(), "m1")
	if !apperr.Is(err, apperr.TimeoutFailed) {
		t.Fatalf("error = %v, want TimeoutFailed", err)
	}
	checkThread(t, f.store.Thread("m1"), StateLoaded)
}

func TestLoadComments_UnknownEnvelope(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"thread":[]}`)
	}, Options{})

	comments, err := f.store.LoadComments(context.Background(), "m1")
	if err != nil {
		t.Fatalf("LoadComments() error = %v, want nil", err)
	}
	if len(comments) != 0 {
		t.Errorf("comments = %v", comments)
	}
	checkThread(t, f.store.Thread("m1"), StateLoaded)
}

func TestLoadComments_BlankID(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {}, Options{})

	_, err := f.store.LoadComments(context.Background(), "  ")
	if !apperr.Is(err, apperr.ValidationFailed) {
		t.Errorf("error = %v, want ValidationFailed", err)
	}
	checkNoCalls(t, f)
}

// ========================================
// PostComment
// ========================================

func TestPostComment_BlankTextNoNetwork(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	}, Options{})

	for _, text := range []string{"", " ", "\t\n", "   \r\n  "} {
		_, err := f.store.PostComment(context.Background(), "m1", text)
		if !apperr.Is(err, apperr.ValidationFailed) {
			t.Errorf("PostComment(%q) error = %v, want ValidationFailed", text, err)
		}
		if field := apperr.FieldOf(err); field != "text" {
			t.Errorf("PostComment(%q) field = %q, want text", text, field)
		}
	}
	checkNoCalls(t, f)
	checkThread(t, f.store.Thread("m1"), StateEmpty)
}

func TestPostComment_AppendsConfirmedEntry(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, `[{"_id":"c1","text":"old","userId":"u0"}]`)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["text"] != "hello there" {
			t.Errorf("text = %q, want trimmed text", body["text"])
		}
		writeJSON(w, http.StatusCreated, `{"comment":{"_id":"c2","text":"hello there","userId":{"_id":"u1","username":"bob"}}}`)
	}, Options{})

	ctx := auth.WithCredential(context.Background(), &auth.Credential{Token: "tok"})
	_, _ = f.store.LoadComments(ctx, "m1")

	entry, err := f.store.PostComment(ctx, "m1", "  hello there  ")
	if err != nil {
		t.Fatalf("PostComment() error = %v", err)
	}
	if entry.ID != "c2" || entry.Author.DisplayName() != "bob" || entry.MediaID != "m1" {
		t.Errorf("entry = %+v", entry)
	}

	checkThread(t, f.store.Thread("m1"), StateLoaded, "c1", "c2")
	if ch := f.events.last(); ch.Source != "post_comment" || ch.Count != 2 {
		t.Errorf("last change = %+v", ch)
	}
}

func TestPostComment_UnloadedThreadStaysEmpty(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"comment":{"_id":"c2","text":"hi","userId":"u1"}}`)
	}, Options{})

	entry, err := f.store.PostComment(context.Background(), "m1", "hi")
	if err != nil {
		t.Fatalf("PostComment() error = %v", err)
	}
	if entry.ID != "c2" {
		t.Errorf("ID = %q, want c2", entry.ID)
	}
	checkThread(t, f.store.Thread("m1"), StateEmpty)
}

func TestPostComment_CommentBesideMedia(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, `[{"_id":"c1","text":"old","userId":"u0"}]`)
			return
		}
		writeJSON(w, http.StatusCreated, `{"media":{"_id":"m1","title":"Clip"},"comment":{"_id":"c2","text":"hi","userId":{"_id":"u1","username":"bob"}}}`)
	}, Options{})

	_, _ = f.store.LoadComments(context.Background(), "m1")

	entry, err := f.store.PostComment(context.Background(), "m1", "hi")
	if err != nil {
		t.Fatalf("PostComment() error = %v", err)
	}
	if entry.ID != "c2" || entry.Author.DisplayName() != "bob" {
		t.Errorf("entry = %+v", entry)
	}
	checkThread(t, f.store.Thread("m1"), StateLoaded, "c1", "c2")
}

func TestPostComment_BareEntryWithoutID(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"text":"hi","userId":"u9"}`)
	}, Options{})

	entry, err := f.store.PostComment(context.Background(), "m1", "hi")
	if err != nil {
		t.Fatalf("PostComment() error = %v", err)
	}
	if !strings.HasPrefix(entry.ID, LocalIDPrefix) {
		t.Errorf("ID = %q, want %s prefix", entry.ID, LocalIDPrefix)
	}
	if entry.Author.DisplayName() != "Anonymous" {
		t.Errorf("DisplayName() = %q", entry.Author.DisplayName())
	}
}

// Scenario B: a confirmed post without author linkage is rejected and the
// thread is left unchanged.
func TestPostComment_MissingAuthorRejected(t *testing.T) {
	bodies := map[string]string{
		"no author":   `{"comment":{"_id":"c9","text":"hi"}}`,
		"null author": `{"_id":"c9","text":"hi","userId":null}`,
		"empty obj":   `{"_id":"c9","text":"hi","userId":{}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodGet {
					writeJSON(w, http.StatusOK, `[{"_id":"c1","text":"old","userId":"u0"}]`)
					return
				}
				writeJSON(w, http.StatusCreated, body)
			}, Options{})

			_, _ = f.store.LoadComments(context.Background(), "m1")

			_, err := f.store.PostComment(context.Background(), "m1", "hi")
			if !apperr.Is(err, apperr.InvalidServerResponse) {
				t.Fatalf("error = %v, want InvalidServerResponse", err)
			}
			checkThread(t, f.store.Thread("m1"), StateLoaded, "c1")
		})
	}
}

func TestPostComment_TransportFailureLeavesThread(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, `[{"_id":"c1","text":"old","userId":"u0"}]`)
			return
		}
		writeJSON(w, http.StatusUnauthorized, `{"message":"Not authorized"}`)
	}, Options{})

	_, _ = f.store.LoadComments(context.Background(), "m1")

	_, err := f.store.PostComment(context.Background(), "m1", "hi")
	if !apperr.Is(err, apperr.ServerRejected) {
		t.Fatalf("error = %v, want ServerRejected", err)
	}
	if apperr.MessageOf(err) != "Not authorized" {
		t.Errorf("message = %q", apperr.MessageOf(err))
	}
	checkThread(t, f.store.Thread("m1"), StateLoaded, "c1")
}

func TestPostComment_NonObjectResponse(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `["not","an","entry"]`)
	}, Options{})

	_, err := f.store.PostComment(context.Background(), "m1", "hi")
	if !apperr.Is(err, apperr.InvalidServerResponse) {
		t.Errorf("error = %v, want InvalidServerResponse", err)
	}
	checkThread(t, f.store.Thread("m1"), StateEmpty)
}
