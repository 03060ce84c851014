// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package models

import (
	"bytes"

	"github.com/goccy/go-json"
)

// AnonymousAuthor is displayed when a comment's author is not populated.
const AnonymousAuthor = "Anonymous"

// CommentAuthor is the author linkage of a comment. The authority returns
// either a populated user object or a bare user id.
type CommentAuthor struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username,omitempty"`

	// Populated is true when the authority returned a user object.
	Populated bool `json:"-"`
}

// UnmarshalJSON accepts {"_id": "...", "username": "..."}, a bare id string or null.
func (a *CommentAuthor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = CommentAuthor{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*a = CommentAuthor{ID: id}
		return nil
	}
	var obj struct {
		ID       string `json:"_id"`
		AltID    string `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.ID == "" {
		obj.ID = obj.AltID
	}
	*a = CommentAuthor{ID: obj.ID, Username: obj.Username, Populated: true}
	return nil
}

// MarshalJSON writes a populated author as an object and a bare one as its id.
func (a CommentAuthor) MarshalJSON() ([]byte, error) {
	if !a.Populated {
		if a.ID == "" {
			return []byte("null"), nil
		}
		return json.Marshal(a.ID)
	}
	return json.Marshal(struct {
		ID       string `json:"_id,omitempty"`
		Username string `json:"username,omitempty"`
	}{a.ID, a.Username})
}

// Linked reports whether the comment carries a usable author association.
func (a CommentAuthor) Linked() bool {
	return a.ID != "" || a.Username != ""
}

// DisplayName returns the username, or "Anonymous" when it is unknown.
func (a CommentAuthor) DisplayName() string {
	if a.Populated && a.Username != "" {
		return a.Username
	}
	return AnonymousAuthor
}

// CommentEntry is one comment on a media item.
type CommentEntry struct {
	ID        string        `json:"_id"`
	MediaID   string        `json:"mediaId,omitempty"`
	Author    CommentAuthor `json:"userId"`
	Text      string        `json:"text"`
	CreatedAt Timestamp     `json:"createdAt,omitempty"`
}

type commentAlias CommentEntry

type commentWire struct {
	commentAlias
	AltID  string          `json:"id"`
	Media  string          `json:"media"`
	AltAut json.RawMessage `json:"author"`
}

// UnmarshalJSON decodes a comment, accepting "author" as an alias of "userId".
func (c *CommentEntry) UnmarshalJSON(data []byte) error {
	var w commentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = CommentEntry(w.commentAlias)
	if c.ID == "" {
		c.ID = w.AltID
	}
	if c.MediaID == "" {
		c.MediaID = w.Media
	}
	if !c.Author.Linked() && len(w.AltAut) > 0 {
		if err := json.Unmarshal(w.AltAut, &c.Author); err != nil {
			return err
		}
	}
	return nil
}

// CommentRequest is the body of a comment post.
type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}
