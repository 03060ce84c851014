// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package views

import "github.com/tomtom215/clipshare/internal/models"

// UploadForm holds the creator's draft as typed.
type UploadForm struct {
	Title     string
	Publisher string
	Producer  string
	Genre     string
	AgeRating string
	File      *models.FileRef
}

// NewUploadForm returns an empty form with the default age rating.
func NewUploadForm() UploadForm {
	return UploadForm{AgeRating: models.AgeRatingPG}
}

// Draft converts the form into an upload draft. An empty age rating falls
// back to PG.
func (f UploadForm) Draft() models.UploadDraft {
	age := f.AgeRating
	if age == "" {
		age = models.AgeRatingPG
	}
	return models.UploadDraft{
		Title:     f.Title,
		Publisher: f.Publisher,
		Producer:  f.Producer,
		Genre:     f.Genre,
		AgeRating: age,
		File:      f.File,
	}
}
