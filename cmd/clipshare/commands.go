// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tomtom215/clipshare/internal/apperr"
	"github.com/tomtom215/clipshare/internal/config"
	"github.com/tomtom215/clipshare/internal/engagement"
	"github.com/tomtom215/clipshare/internal/events"
	"github.com/tomtom215/clipshare/internal/logging"
	"github.com/tomtom215/clipshare/internal/models"
	"github.com/tomtom215/clipshare/internal/upload"
	"github.com/tomtom215/clipshare/internal/views"
)

// passwordEnvVar supplies the password when -password is omitted.
const passwordEnvVar = "CLIPSHARE_PASSWORD"

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, a *app, args []string, out io.Writer) error
}

var commands = []command{
	{"register", "register -username U -password P [-role consumer|creator]", cmdRegister},
	{"login", "login -username U [-password P]", cmdLogin},
	{"logout", "logout", cmdLogout},
	{"list", "list [-q term] [-remote]", cmdList},
	{"latest", "latest [-limit N] [-sort field]", cmdLatest},
	{"comments", "comments <media-id>", cmdComments},
	{"comment", "comment <media-id> <text>", cmdComment},
	{"rate", "rate <media-id> <1-5>", cmdRate},
	{"upload", "upload -title T -publisher P -producer P -genre G [-age PG] -file PATH", cmdUpload},
	{"watch", "watch", cmdWatch},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: clipshare <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %s\n", c.usage)
	}
}

// run executes one invocation and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stdout)
		return exitOK
	}
	cmd, ok := lookupCommand(args[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: stderr,
	})

	a, err := newApp(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	defer a.Close()

	ctx = logging.ContextWithNewCorrelationID(ctx)
	if err := cmd.run(ctx, a, args[1:], stdout); err != nil {
		var uerr *usageError
		if errors.As(err, &uerr) {
			fmt.Fprintf(stderr, "%s\nusage: clipshare %s\n", uerr.msg, cmd.usage)
		} else {
			report(stderr, err)
		}
		return exitCode(err)
	}
	return exitOK
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return usagef("%s: %v", fs.Name(), err)
	}
	return nil
}

// ========================================
// Account
// ========================================

func cmdRegister(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("username", "", "account name")
	password := fs.String("password", "", "account password")
	role := fs.String("role", models.RoleConsumer, "consumer or creator")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	user, err := a.accounts.Register(ctx, models.RegisterRequest{
		Username: *username,
		Password: passwordOrEnv(*password),
		Role:     *role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Registered %s (%s)\n", user.Username, user.Role)
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", "", "account name")
	password := fs.String("password", "", "account password (default $"+passwordEnvVar+")")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	cred, err := a.accounts.Login(ctx, models.LoginRequest{
		Username: *username,
		Password: passwordOrEnv(*password),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Logged in as %s (%s)\n", cred.Username, cred.Role)
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string, out io.Writer) error {
	if err := a.accounts.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Logged out")
	return nil
}

func passwordOrEnv(p string) string {
	if p != "" {
		return p
	}
	return os.Getenv(passwordEnvVar)
}

// ========================================
// Browsing
// ========================================

func cmdList(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	term := fs.String("q", "", "filter by title, caption, location or people")
	remote := fs.Bool("remote", false, "search on the server instead of locally")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *remote {
		items, err := a.catalog.SearchRemote(ctx, *term)
		if err != nil {
			return err
		}
		v := views.ConsumerView{Search: *term, Cards: a.cards.BuildAll(items)}
		if len(v.Cards) == 0 {
			v.Empty = views.MessageNoVideos
		}
		return a.renderer.Consumer(out, v)
	}

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	changes, err := a.bus.Subscribe(subCtx, events.TopicCatalogChanged)
	if err != nil {
		return err
	}

	feed := views.NewConsumerFeed(a.catalog, a.cards)
	feed.SetSearch(*term)

	loadErr := feed.Load(ctx)
	if loadErr != nil && a.catalog.RetryPending() {
		if err := a.renderer.Consumer(out, feed.View()); err != nil {
			return err
		}
		wait := a.cfg.Catalog.RetryDelay + a.cfg.API.MediaTimeout
		if change, ok := waitForChange(ctx, changes, wait); ok {
			feed.Apply(change)
			loadErr = nil
		}
	}

	if err := a.renderer.Consumer(out, feed.View()); err != nil {
		return err
	}
	return loadErr
}

// waitForChange returns the first change received within d.
func waitForChange(ctx context.Context, changes <-chan events.Change, d time.Duration) (events.Change, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case change, ok := <-changes:
		return change, ok
	case <-timer.C:
	case <-ctx.Done():
	}
	return events.Change{}, false
}

func cmdLatest(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("latest", flag.ContinueOnError)
	limit := fs.Int("limit", a.cfg.Catalog.LatestLimit, "number of videos")
	sort := fs.String("sort", a.cfg.Catalog.LatestSort, "sort order")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	dash := views.NewDashboardFeed(a.catalog, a.cards, *limit, *sort)
	loadErr := dash.Load(ctx)
	if err := a.renderer.Dashboard(out, dash.View()); err != nil {
		return err
	}
	return loadErr
}

// lookupItem finds id in the catalog, fetching the list once if needed.
func (a *app) lookupItem(ctx context.Context, id string) models.MediaItem {
	if item, ok := a.catalog.Lookup(id); ok {
		return item
	}
	if _, err := a.catalog.FetchAll(ctx); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("media_id", id).Msg("Catalog unavailable for card details")
	}
	if item, ok := a.catalog.Lookup(id); ok {
		return item
	}
	return models.MediaItem{ID: id}
}

// ========================================
// Engagement
// ========================================

func cmdComments(ctx context.Context, a *app, args []string, out io.Writer) error {
	if len(args) != 1 {
		return usagef("comments: expected a media id")
	}
	id := args[0]

	ctx, err := a.withSession(ctx)
	if err != nil {
		return err
	}
	item := a.lookupItem(ctx, id)
	_, loadErr := a.store.LoadComments(ctx, id)
	if err := a.renderer.Card(out, a.cards.Build(item)); err != nil {
		return err
	}
	return loadErr
}

func cmdComment(ctx context.Context, a *app, args []string, out io.Writer) error {
	if len(args) < 2 {
		return usagef("comment: expected a media id and text")
	}
	ctx, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	entry, err := a.store.PostComment(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, views.CommentFeedback(nil).Success)
	fmt.Fprintf(out, "  %s: %s\n", entry.Author.DisplayName(), entry.Text)
	return nil
}

func cmdRate(ctx context.Context, a *app, args []string, out io.Writer) error {
	if len(args) != 2 {
		return usagef("rate: expected a media id and a rating")
	}
	value, err := engagement.ParseRating(args[1])
	if err != nil {
		return err
	}
	ctx, err = a.requireSession(ctx)
	if err != nil {
		return err
	}

	avg, err := a.store.SubmitRating(ctx, args[0], value)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, views.RatingFeedback(nil).Success)
	fmt.Fprintf(out, "Average Rating: %s\n", views.AverageLabel(avg))
	return nil
}

// ========================================
// Upload
// ========================================

func cmdUpload(ctx context.Context, a *app, args []string, out io.Writer) error {
	form := views.NewUploadForm()

	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.StringVar(&form.Title, "title", "", "video title")
	fs.StringVar(&form.Publisher, "publisher", "", "publisher")
	fs.StringVar(&form.Producer, "producer", "", "producer")
	fs.StringVar(&form.Genre, "genre", "", "genre")
	fs.StringVar(&form.AgeRating, "age", form.AgeRating, strings.Join(models.AgeRatings, ", "))
	path := fs.String("file", "", "video file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *path != "" {
		ref, err := upload.FileFromPath(*path)
		if err != nil {
			return apperr.Validation("upload", "file", err.Error())
		}
		form.File = ref
	}

	// The authority decides whether an anonymous upload is allowed.
	ctx, err := a.withSession(ctx)
	if err != nil {
		return err
	}

	creator := views.NewCreatorFeed(a.catalog, a.pipeline, a.cards)
	card, err := creator.Upload(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, creator.View().Notice)
	return a.renderer.Card(out, card)
}
