// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/tomtom215/clipshare/internal/models"
)

// FileFromPath builds a FileRef for a file on disk. The content type comes
// from the extension when it names a known type, otherwise from sniffing
// the file header.
func FileFromPath(path string) (*models.FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	contentType := typeByExtension(path)
	if contentType == "" {
		detected, err := mimetype.DetectFile(path)
		if err != nil {
			return nil, fmt.Errorf("detect content type of %s: %w", path, err)
		}
		contentType = baseType(detected.String())
	}

	return &models.FileRef{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path) //nolint:gosec // path is chosen by the local user
		},
	}, nil
}

// FileFromBytes builds a FileRef over in-memory content, sniffing its type.
func FileFromBytes(name string, data []byte) *models.FileRef {
	contentType := typeByExtension(name)
	if contentType == "" {
		contentType = baseType(mimetype.Detect(data).String())
	}
	return &models.FileRef{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func typeByExtension(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return ""
	}
	return baseType(mime.TypeByExtension(strings.ToLower(ext)))
}

// baseType drops parameters such as "; charset=utf-8".
func baseType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}
