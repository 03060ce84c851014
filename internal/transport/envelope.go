// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package transport

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrUnrecognizedEnvelope is returned when a response body matches none of
// the accepted envelope shapes.
var ErrUnrecognizedEnvelope = errors.New("unrecognized response envelope")

// Envelope names the shape a list was found in.
type Envelope string

// Accepted list envelopes, in the order they are tried.
const (
	EnvelopeBare        Envelope = "[...]"
	EnvelopeData        Envelope = "{data:[...]}"
	EnvelopeDataResults Envelope = "{data:{results:[...]}}"
	EnvelopeDataData    Envelope = "{data:{data:[...]}}"
	EnvelopeResults     Envelope = "{results:[...]}"
	EnvelopeMedia       Envelope = "{media:[...]}"
	EnvelopeComments    Envelope = "{comments:[...]}"
)

// listKeys are the top-level keys that may hold a list directly.
var listKeys = []struct {
	key      string
	envelope Envelope
}{
	{"results", EnvelopeResults},
	{"media", EnvelopeMedia},
	{"comments", EnvelopeComments},
}

// Keys that wrap a single created entity, per response kind. A key not
// listed for a kind is ignored even when it holds an object.
var (
	MediaObjectKeys   = []string{"media", "data"}
	CommentObjectKeys = []string{"comment"}
	AccountObjectKeys = []string{"data"}
)

// DecodedList is the outcome of DecodeList.
type DecodedList[T any] struct {
	Items    []T
	Envelope Envelope

	// Skipped counts elements that failed to decode and were dropped.
	Skipped int

	// SkipErr is the decode error of the first skipped element.
	SkipErr error
}

// DecodeList normalizes a list response into a flat slice of T.
//
// Accepted shapes: a bare array, {data:[...]}, {data:{results:[...]}},
// {data:{data:[...]}}, {results:[...]}, {media:[...]} and {comments:[...]}.
// Anything else yields ErrUnrecognizedEnvelope. Elements are decoded one at
// a time; an element that fails is counted in Skipped and the rest are kept.
// Items is never nil on success.
func DecodeList[T any](body []byte) (DecodedList[T], error) {
	raw, envelope, err := findList(body)
	if err != nil {
		return DecodedList[T]{}, err
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return DecodedList[T]{}, fmt.Errorf("%w: %s: %v", ErrUnrecognizedEnvelope, envelope, err)
	}

	out := DecodedList[T]{Items: make([]T, 0, len(elems)), Envelope: envelope}
	for i, elem := range elems {
		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			out.Skipped++
			if out.SkipErr == nil {
				out.SkipErr = fmt.Errorf("element %d: %w", i, err)
			}
			continue
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func findList(body []byte) (json.RawMessage, Envelope, error) {
	switch firstByte(body) {
	case '[':
		return body, EnvelopeBare, nil
	case '{':
	default:
		return nil, "", fmt.Errorf("%w: body is not a JSON array or object", ErrUnrecognizedEnvelope)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnrecognizedEnvelope, err)
	}

	if data, ok := top["data"]; ok {
		switch firstByte(data) {
		case '[':
			return data, EnvelopeData, nil
		case '{':
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(data, &inner); err == nil {
				if v, ok := inner["results"]; ok && firstByte(v) == '[' {
					return v, EnvelopeDataResults, nil
				}
				if v, ok := inner["data"]; ok && firstByte(v) == '[' {
					return v, EnvelopeDataData, nil
				}
			}
		}
	}

	for _, lk := range listKeys {
		if v, ok := top[lk.key]; ok && firstByte(v) == '[' {
			return v, lk.envelope, nil
		}
	}

	return nil, "", fmt.Errorf("%w: object has no list under a known key", ErrUnrecognizedEnvelope)
}

// DecodeObject decodes a single entity nested as an object under the first
// of keys present in body, or the body itself when none is. With no keys the
// top level is decoded.
//
//	item, err := transport.DecodeObject[models.MediaItem](body, transport.MediaObjectKeys...)
func DecodeObject[T any](body []byte, keys ...string) (T, error) {
	var zero T

	if firstByte(body) != '{' {
		return zero, fmt.Errorf("%w: body is not a JSON object", ErrUnrecognizedEnvelope)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrUnrecognizedEnvelope, err)
	}

	target := json.RawMessage(body)
	for _, key := range keys {
		if v, ok := top[key]; ok && firstByte(v) == '{' {
			target = v
			break
		}
	}

	var out T
	if err := json.Unmarshal(target, &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrUnrecognizedEnvelope, err)
	}
	return out, nil
}

func firstByte(b []byte) byte {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}
