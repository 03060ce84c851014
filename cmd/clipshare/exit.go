// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/clipshare/internal/apperr"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitInvalid   = 2
	exitRejected  = 3
	exitNetwork   = 4
	exitMalformed = 5
	exitUsage     = 64
)

var errNotLoggedIn = errors.New("not logged in; run `clipshare login` first")

// usageError reports a command-line mistake.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var uerr *usageError
	if errors.As(err, &uerr) {
		return exitUsage
	}
	if errors.Is(err, errNotLoggedIn) {
		return exitRejected
	}
	switch apperr.KindOf(err) {
	case apperr.ValidationFailed:
		return exitInvalid
	case apperr.ServerRejected:
		return exitRejected
	case apperr.FetchFailed, apperr.TimeoutFailed:
		return exitNetwork
	case apperr.InvalidServerResponse:
		return exitMalformed
	default:
		return exitFailure
	}
}

// report writes err for the user.
func report(w io.Writer, err error) {
	if field := apperr.FieldOf(err); field != "" {
		fmt.Fprintf(w, "error: %s: %s\n", field, apperr.MessageOf(err))
		return
	}
	fmt.Fprintf(w, "error: %s\n", apperr.MessageOf(err))
}
