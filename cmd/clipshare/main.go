// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

// Command clipshare is the command-line client for a Clipshare authority.
//
// # Application Architecture
//
// Every invocation initializes components in the following order:
//
//  1. Configuration: defaults, optional YAML file, environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Session: credential store (BadgerDB or memory)
//  4. Transport: HTTP client with rate limiter and circuit breaker
//  5. Change feed: in-process Watermill gochannel bus
//  6. Core: catalog, engagement store, upload pipeline, account client
//
// # Commands
//
//	clipshare register -username dana -password secret1 -role creator
//	clipshare login -username dana -password secret1
//	clipshare logout
//	clipshare list [-q term] [-remote]
//	clipshare latest [-limit 12] [-sort -createdAt]
//	clipshare comments <media-id>
//	clipshare comment <media-id> <text>
//	clipshare rate <media-id> <1-5>
//	clipshare upload -title T -publisher P -producer P -genre G [-age PG] -file clip.mp4
//	clipshare watch
//
// # Exit Status
//
//	0  success
//	1  unexpected failure
//	2  invalid input
//	3  rejected by the server
//	4  network failure or timeout
//	5  malformed server response
//	64 usage error
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel in-flight requests and stop `watch`.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
