// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Package mediaurl maps stored media references to playable URLs.
//
// The authority stores uploads as server-relative paths ("uploads/a.mp4",
// "/uploads//a.mp4", or "undefined/uploads/a.mp4" when the upstream base URL
// was missing at write time). Resolve turns any of these into an absolute URL
// under the media origin and leaves absolute URLs untouched.
package mediaurl

import (
	"regexp"
	"strings"
)

var (
	schemeRE    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)
	separatorRE = regexp.MustCompile(`[/\\]+`)

	// placeholderRE matches a literal left by a missing upstream variable. It
	// must be a whole path segment, so "nullarbor/a.mp4" is kept.
	placeholderRE = regexp.MustCompile(`^(?:undefined|null)(?:[/\\]|$)`)
)

// DefaultVideoType is used when a reference has no usable extension.
const DefaultVideoType = "mp4"

// Resolver resolves stored references against a media origin.
type Resolver struct {
	origin string
}

// New creates a resolver for origin (e.g. "http://localhost:5000").
func New(origin string) *Resolver {
	return &Resolver{origin: strings.TrimRight(origin, "/")}
}

// Origin returns the media origin without a trailing slash.
func (r *Resolver) Origin() string {
	return r.origin
}

// Resolve returns the playable URL for ref, or "" when ref carries no path.
func (r *Resolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if schemeRE.MatchString(ref) {
		return ref
	}

	path := Clean(ref)
	if path == "" {
		return ""
	}
	return r.origin + "/" + path
}

// Clean strips a leading placeholder segment, collapses separator runs to a single
// '/' and removes the leading separator. It never returns a path with
// duplicate separators.
func Clean(ref string) string {
	ref = placeholderRE.ReplaceAllString(ref, "/")
	ref = separatorRE.ReplaceAllString(ref, "/")
	return strings.TrimPrefix(ref, "/")
}

// VideoType returns the container extension of ref ("mp4", "webm"),
// ignoring any query string. It defaults to mp4.
func VideoType(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	slash := strings.LastIndexAny(ref, `/\`)
	dot := strings.LastIndex(ref, ".")
	if dot < 0 || dot < slash || dot == len(ref)-1 {
		return DefaultVideoType
	}
	return strings.ToLower(ref[dot+1:])
}
