// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package models

import "io"

// FileRef is a reference to the single video file of an upload draft.
type FileRef struct {
	Name        string `validate:"required"`
	ContentType string `validate:"required,startswith=video/"`
	Size        int64

	// Open returns a fresh reader over the file contents.
	Open func() (io.ReadCloser, error) `validate:"required"`
}

// UploadDraft is a creator's in-progress upload.
// Validation order follows field order; the first failing field is reported.
type UploadDraft struct {
	Title     string   `validate:"required,notblank"`
	Publisher string   `validate:"required,notblank"`
	Producer  string   `validate:"required,notblank"`
	Genre     string   `validate:"required,notblank"`
	AgeRating string   `validate:"required,oneof=G PG PG-13 R NC-17"`
	File      *FileRef `validate:"required"`
}
