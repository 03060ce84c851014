// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package transport

import (
	"errors"
	"testing"

	"github.com/tomtom215/clipshare/internal/models"
)

// ========================================
// DecodeList
// ========================================

func TestDecodeList_AcceptedShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		envelope Envelope
		ids      []string
	}{
		{"bare array", `[{"_id":"a"},{"_id":"b"}]`, EnvelopeBare, []string{"a", "b"}},
		{"data array", `{"data":[{"_id":"a"}]}`, EnvelopeData, []string{"a"}},
		{"data results", `{"data":{"results":[{"_id":"item1"},{"_id":"item2"}]}}`, EnvelopeDataResults, []string{"item1", "item2"}},
		{"data data", `{"data":{"data":[{"_id":"x"}]}}`, EnvelopeDataData, []string{"x"}},
		{"results", `{"results":[{"_id":"r"}],"total":1}`, EnvelopeResults, []string{"r"}},
		{"media", `{"media":[{"_id":"m"}]}`, EnvelopeMedia, []string{"m"}},
		{"comments", `{"comments":[{"_id":"c"}]}`, EnvelopeComments, []string{"c"}},
		{"empty array", `[]`, EnvelopeBare, []string{}},
		{"leading whitespace", "  \n[{\"_id\":\"w\"}]", EnvelopeBare, []string{"w"}},
		{"id fallback", `[{"id":"plain"}]`, EnvelopeBare, []string{"plain"}},
		{"data results wins over top-level results", `{"data":{"results":[{"_id":"inner"}]},"results":[{"_id":"outer"}]}`, EnvelopeDataResults, []string{"inner"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			list, err := DecodeList[models.MediaItem]([]byte(tt.body))
			if err != nil {
				t.Fatalf("DecodeList() error = %v", err)
			}
			if list.Envelope != tt.envelope {
				t.Errorf("envelope = %q, want %q", list.Envelope, tt.envelope)
			}
			items := list.Items
			if items == nil {
				t.Fatal("DecodeList() returned nil slice")
			}
			if len(items) != len(tt.ids) {
				t.Fatalf("len(items) = %d, want %d", len(items), len(tt.ids))
			}
			for i, id := range tt.ids {
				if items[i].ID != id {
					t.Errorf("items[%d].ID = %q, want %q", i, items[i].ID, id)
				}
			}
		})
	}
}

func TestDecodeList_UnknownShapes(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"empty":            ``,
		"string":           `"hello"`,
		"number":           `42`,
		"unknown key":      `{"items":[{"_id":"a"}]}`,
		"data is string":   `{"data":"nope"}`,
		"data object only": `{"data":{"items":[]}}`,
		"results object":   `{"results":{"_id":"a"}}`,
		"malformed":        `{"data":[`,
		"truncated array":  `[{"_id":"a"},`,
	}

	for name, body := range bodies {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			list, err := DecodeList[models.MediaItem]([]byte(body))
			if !errors.Is(err, ErrUnrecognizedEnvelope) {
				t.Fatalf("DecodeList(%q) error = %v, want ErrUnrecognizedEnvelope", body, err)
			}
			if list.Items != nil {
				t.Errorf("DecodeList(%q) items = %v, want nil", body, list.Items)
			}
		})
	}
}

func TestDecodeList_SkipsBadElements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		ids     []string
		skipped int
	}{
		{"wrong type title", `[{"_id":"a"},{"_id":"b","title":7},{"_id":"c"}]`, []string{"a", "c"}, 1},
		{"non-object elements", `{"data":[1,{"_id":"a"},"x"]}`, []string{"a"}, 2},
		{"all bad", `[1,2,3]`, []string{}, 3},
		{"empty createdAt kept", `[{"_id":"a"},{"_id":"b","createdAt":""}]`, []string{"a", "b"}, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			list, err := DecodeList[models.MediaItem]([]byte(tt.body))
			if err != nil {
				t.Fatalf("DecodeList() error = %v", err)
			}
			if list.Skipped != tt.skipped {
				t.Errorf("Skipped = %d, want %d", list.Skipped, tt.skipped)
			}
			if (list.SkipErr != nil) != (tt.skipped > 0) {
				t.Errorf("SkipErr = %v with %d skipped", list.SkipErr, tt.skipped)
			}
			if len(list.Items) != len(tt.ids) {
				t.Fatalf("len(items) = %d, want %d", len(list.Items), len(tt.ids))
			}
			for i, id := range tt.ids {
				if list.Items[i].ID != id {
					t.Errorf("items[%d].ID = %q, want %q", i, list.Items[i].ID, id)
				}
			}
		})
	}
}

// ========================================
// DecodeObject
// ========================================

func TestDecodeObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		id   string
	}{
		{"bare", `{"_id":"m1","title":"Clip"}`, "m1"},
		{"media", `{"media":{"_id":"m2"},"message":"Uploaded"}`, "m2"},
		{"data", `{"data":{"_id":"m3"}}`, "m3"},
		{"media preferred over data", `{"media":{"_id":"m4"},"data":{"_id":"other"}}`, "m4"},
		{"media list ignored", `{"media":[{"_id":"x"}],"_id":"self"}`, "self"},
		{"no id", `{"message":"ok"}`, ""},
		{"comment key ignored", `{"comment":{"_id":"c1"},"_id":"self"}`, "self"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			item, err := DecodeObject[models.MediaItem]([]byte(tt.body), MediaObjectKeys...)
			if err != nil {
				t.Fatalf("DecodeObject() error = %v", err)
			}
			if item.ID != tt.id {
				t.Errorf("ID = %q, want %q", item.ID, tt.id)
			}
		})
	}
}

func TestDecodeObject_Comment(t *testing.T) {
	t.Parallel()

	body := `{"comment":{"_id":"c1","text":"nice","userId":{"_id":"u1","username":"alice"}}}`
	entry, err := DecodeObject[models.CommentEntry]([]byte(body), CommentObjectKeys...)
	if err != nil {
		t.Fatalf("DecodeObject() error = %v", err)
	}
	if entry.ID != "c1" || entry.Text != "nice" {
		t.Errorf("entry = %+v", entry)
	}
	if got := entry.Author.DisplayName(); got != "alice" {
		t.Errorf("DisplayName() = %q, want alice", got)
	}
}

func TestDecodeObject_CommentBesideMedia(t *testing.T) {
	t.Parallel()

	body := `{"media":{"_id":"m1","title":"Clip"},"comment":{"_id":"c2","text":"hi","userId":"u1"}}`
	entry, err := DecodeObject[models.CommentEntry]([]byte(body), CommentObjectKeys...)
	if err != nil {
		t.Fatalf("DecodeObject() error = %v", err)
	}
	if entry.ID != "c2" || !entry.Author.Linked() {
		t.Errorf("entry = %+v, want comment c2 with author", entry)
	}
}

func TestDecodeObject_NoKeysReadsTopLevel(t *testing.T) {
	t.Parallel()

	body := `{"averageRating":4.5,"data":{"averageRating":1}}`
	agg, err := DecodeObject[models.RatingAggregate]([]byte(body))
	if err != nil {
		t.Fatalf("DecodeObject() error = %v", err)
	}
	if agg.AverageRating == nil || *agg.AverageRating != 4.5 {
		t.Errorf("AverageRating = %v, want 4.5", agg.AverageRating)
	}
}

func TestDecodeObject_NotObject(t *testing.T) {
	t.Parallel()

	for _, body := range []string{``, `[]`, `"x"`, `{"_id":`} {
		if _, err := DecodeObject[models.MediaItem]([]byte(body)); !errors.Is(err, ErrUnrecognizedEnvelope) {
			t.Errorf("DecodeObject(%q) error = %v, want ErrUnrecognizedEnvelope", body, err)
		}
	}
}
