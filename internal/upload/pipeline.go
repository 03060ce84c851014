// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Package upload validates, packages and submits creator uploads.
//
// Submit runs in three stages:
//  1. local validation of the draft (no network on failure)
//  2. a streamed multipart POST /media under the upload timeout
//  3. response normalization, then Catalog.ApplyUpload on success
//
// Failures are classified in a fixed order so the most specific diagnostic
// reaches the user: the authority's own message first, then "No response
// from server", then the raw transport message.
package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/config"
	"github.com/tomtom215/clipshare/internal/logging"
	"github.com/tomtom215/clipshare/internal/metrics"
	"github.com/tomtom215/clipshare/internal/models"
	"github.com/tomtom215/clipshare/internal/transport"
	"github.com/tomtom215/clipshare/internal/validation"
)

// DefaultTimeout bounds a whole upload request.
const DefaultTimeout = 30 * time.Second

const endpointUpload = "/media"

// Classified failure messages.
const (
	MessageServerError = "Server error during upload"
	MessageNoResponse  = "No response from server"
	MessageUnknown     = "Unknown upload error"
)

// Multipart field names expected by the authority.
const (
	FieldTitle     = "title"
	FieldPublisher = "publisher"
	FieldProducer  = "producer"
	FieldGenre     = "genre"
	FieldAgeRating = "ageRating"
	FieldMedia     = "media"
)

// Applier receives confirmed uploads. *catalog.Catalog implements it.
type Applier interface {
	ApplyUpload(ctx context.Context, item models.MediaItem)
}

// Options configures a Pipeline.
type Options struct {
	Client  transport.Doer
	Catalog Applier
	Timeout time.Duration
}

// OptionsFromConfig fills the timeout from loaded configuration.
func OptionsFromConfig(cfg *config.Config, client transport.Doer, cat Applier) Options {
	return Options{Client: client, Catalog: cat, Timeout: cfg.API.UploadTimeout}
}

// Pipeline submits upload drafts.
type Pipeline struct {
	client  transport.Doer
	catalog Applier
	timeout time.Duration
}

// New creates a pipeline. Options.Client is required; a nil Catalog skips
// the apply step.
func New(opts Options) *Pipeline {
	p := &Pipeline{client: opts.Client, catalog: opts.Catalog, timeout: opts.Timeout}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	return p
}

// Submit validates draft, uploads it and prepends the created item to the
// catalog.
func (p *Pipeline) Submit(ctx context.Context, draft models.UploadDraft) (models.MediaItem, error) {
	const op = "upload.Submit"

	if verr := validation.ValidateStruct(draft); verr != nil {
		metrics.RecordUpload(apperr.ValidationFailed.String(), 0)
		return models.MediaItem{}, verr.ToAppError(op)
	}

	src, err := draft.File.Open()
	if err != nil {
		metrics.RecordUpload(apperr.ValidationFailed.String(), 0)
		e := apperr.Validation(op, "file", "file could not be opened")
		e.Err = err
		return models.MediaItem{}, e
	}

	body, contentType := encode(draft, src)
	defer func() { _ = body.Close() }()

	log := logging.Ctx(ctx)
	log.Info().Str("title", draft.Title).Str("file", draft.File.Name).Int64("size", draft.File.Size).Msg("Uploading media")

	resp, err := p.client.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        endpointUpload,
		Endpoint:    endpointUpload,
		Body:        body,
		ContentType: contentType,
		Timeout:     p.timeout,
	})
	if err != nil {
		cerr := classify(op, err)
		metrics.RecordUpload(apperr.KindOf(cerr).String(), draft.File.Size)
		log.Warn().Err(cerr).Msg("Upload failed")
		return models.MediaItem{}, cerr
	}

	item, derr := transport.DecodeObject[models.MediaItem](resp.Body, transport.MediaObjectKeys...)
	if derr != nil {
		metrics.RecordUpload(apperr.InvalidServerResponse.String(), draft.File.Size)
		return models.MediaItem{}, apperr.Invalid(op, "upload response is not an object", derr)
	}
	if item.ID == "" {
		metrics.RecordUpload(apperr.InvalidServerResponse.String(), draft.File.Size)
		return models.MediaItem{}, apperr.Invalid(op, "upload response contains no media item", nil)
	}

	metrics.RecordUpload(metrics.ResultOK, draft.File.Size)
	log.Info().Str("media_id", item.ID).Msg("Upload accepted")

	if p.catalog != nil {
		p.catalog.ApplyUpload(ctx, item)
	}
	return item, nil
}

// classify assigns the user-facing message of a failed upload.
func classify(op string, err error) error {
	e, ok := apperr.As(err)
	if !ok {
		return &apperr.Error{Kind: apperr.FetchFailed, Op: op, Message: orDefault(err.Error(), MessageUnknown), Err: err}
	}

	c := *e
	c.Op = op
	switch {
	case e.Kind == apperr.ServerRejected:
		c.Message = orDefault(e.Message, MessageServerError)
	case e.NoResponse:
		c.Message = MessageNoResponse
	default:
		raw := e.Message
		if raw == "" && e.Err != nil {
			raw = e.Err.Error()
		}
		c.Message = orDefault(raw, MessageUnknown)
	}
	return &c
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encode streams draft as multipart/form-data and closes src when done. The
// returned reader must be closed so the writer goroutine exits when the
// request ends early.
func encode(draft models.UploadDraft, src io.ReadCloser) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer func() { _ = src.Close() }()
		_ = pw.CloseWithError(writeParts(mw, draft, src))
	}()

	return pr, mw.FormDataContentType()
}

func writeParts(mw *multipart.Writer, draft models.UploadDraft, src io.Reader) error {
	fields := []struct{ name, value string }{
		{FieldTitle, draft.Title},
		{FieldPublisher, draft.Publisher},
		{FieldProducer, draft.Producer},
		{FieldGenre, draft.Genre},
		{FieldAgeRating, draft.AgeRating},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, strings.TrimSpace(f.value)); err != nil {
			return fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FieldMedia, quoteEscaper.Replace(draft.File.Name)))
	h.Set("Content-Type", draft.File.ContentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create media part: %w", err)
	}

	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy %s: %w", draft.File.Name, err)
	}

	return mw.Close()
}
