// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package mediaurl

import (
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	r := New("http://localhost:5000/")

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"relative", "uploads/a.mp4", "http://localhost:5000/uploads/a.mp4"},
		{"leading slash", "/uploads/a.mp4", "http://localhost:5000/uploads/a.mp4"},
		{"duplicate separators", "//uploads///a.mp4", "http://localhost:5000/uploads/a.mp4"},
		{"backslashes", `uploads\\videos\a.mp4`, "http://localhost:5000/uploads/videos/a.mp4"},
		{"undefined prefix", "undefined/uploads/a.mp4", "http://localhost:5000/uploads/a.mp4"},
		{"null prefix", "null//uploads/a.mp4", "http://localhost:5000/uploads/a.mp4"},
		{"only placeholder", "undefined", ""},
		{"placeholder with backslash", `null\uploads\a.mp4`, "http://localhost:5000/uploads/a.mp4"},
		{"path starting with null", "nullarbor/clip.mp4", "http://localhost:5000/nullarbor/clip.mp4"},
		{"path starting with undefined", "/undefinedness/a.mp4", "http://localhost:5000/undefinedness/a.mp4"},
		{"placeholder glued to name", "undefineda.mp4", "http://localhost:5000/undefineda.mp4"},
		{"only separators", "///", ""},
		{"absolute http", "http://cdn.example.com/a.mp4", "http://cdn.example.com/a.mp4"},
		{"absolute https untouched", "https://cdn.example.com//a.mp4", "https://cdn.example.com//a.mp4"},
		{"other scheme", "s3://bucket/a.mp4", "s3://bucket/a.mp4"},
		{"query kept", "uploads/a.mp4?v=2", "http://localhost:5000/uploads/a.mp4?v=2"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := r.Resolve(tt.ref); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

// TestResolve_NoDuplicateSeparators checks every malformed relative reference
// resolves to a path without "//" after the origin.
func TestResolve_NoDuplicateSeparators(t *testing.T) {
	t.Parallel()

	r := New("http://localhost:5000")
	parts := []string{"", "/", "//", `\`, "undefined", "null", "a", "b.mp4", "?x=1", " ", "..", "%2F"}

	for _, a := range parts {
		for _, b := range parts {
			for _, c := range parts {
				ref := a + b + c
				got := r.Resolve(ref)
				if got == "" {
					continue
				}
				if schemeRE.MatchString(strings.TrimSpace(ref)) {
					continue
				}
				path := strings.TrimPrefix(got, "http://localhost:5000")
				if strings.Contains(path, "//") {
					t.Errorf("Resolve(%q) = %q contains duplicate separators", ref, got)
				}
				if strings.Contains(path, `\`) {
					t.Errorf("Resolve(%q) = %q contains a backslash", ref, got)
				}
			}
		}
	}
}

func TestVideoType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref  string
		want string
	}{
		{"", "mp4"},
		{"uploads/a.webm", "webm"},
		{"uploads/a.MOV?token=1", "mov"},
		{"uploads/a", "mp4"},
		{"uploads.v2/a", "mp4"},
		{"uploads/a.", "mp4"},
		{"http://cdn.example.com/a.mkv#t=10", "mkv"},
	}
	for _, tt := range tests {
		if got := VideoType(tt.ref); got != tt.want {
			t.Errorf("VideoType(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestOrigin(t *testing.T) {
	t.Parallel()

	if got := New("https://clips.example.com///").Origin(); got != "https://clips.example.com" {
		t.Errorf("Origin() = %q", got)
	}
}
