package actions

import (
	"context"
	"fmt"
	"io"
	"os"

	"stridebeat/internal/config"
	"stridebeat/internal/library"
	"stridebeat/internal/logging"
	"stridebeat/internal/session"

	"github.com/charmbracelet/huh/spinner"
	"github.com/urfave/cli/v2"
)

// Actions holds what every command needs: the loaded configuration and
// where to write results.
type Actions struct {
	cfg *config.Config
	out io.Writer
}

// New creates the command actions for cfg.
func New(cfg *config.Config) *Actions {
	return &Actions{cfg: cfg, out: os.Stdout}
}

// matchOptions merges command-line overrides into the configured defaults.
func (a *Actions) matchOptions(c *cli.Context) library.MatchOptions {
	opts := library.MatchOptions{
		Tolerance: a.cfg.Match.Tolerance,
		Limit:     a.cfg.Match.Limit,
		Dedupe:    a.cfg.Match.Dedupe,
		Closest:   a.cfg.Match.Closest,
	}
	if c.IsSet("tolerance") {
		opts.Tolerance = c.Float64("tolerance")
	}
	if c.IsSet("limit") {
		opts.Limit = c.Int("limit")
	}
	if c.IsSet("dedupe") {
		opts.Dedupe = c.Bool("dedupe")
	}
	if c.IsSet("closest") {
		opts.Closest = c.Bool("closest")
	}
	return opts
}

// login creates the library, runs the OAuth flow and marks the session
// authenticated.
func (a *Actions) login(ctx context.Context, state *session.State) (*library.Library, error) {
	if err := a.cfg.ValidateCredentials(); err != nil {
		return nil, err
	}

	paging := library.Paging{
		SavedTracks:    a.cfg.Paging.SavedTracks,
		Playlists:      a.cfg.Paging.Playlists,
		PlaylistTracks: a.cfg.Paging.PlaylistTracks,
		AudioFeatures:  a.cfg.Paging.AudioFeatures,
	}
	lib, err := library.NewLibraryWithCredentials("spotify", a.cfg.Credentials(), paging)
	if err != nil {
		return nil, err
	}

	if err := lib.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("spotify login failed: %w", err)
	}
	if err := state.MarkAuthenticated(); err != nil {
		return nil, err
	}
	RenderLoggedIn(a.out)
	return lib, nil
}

// newSession starts session state tagged with the run's session ID.
func newSession(ctx context.Context) *session.State {
	return session.New(logging.SessionIDFromContext(ctx))
}

// withSpinner runs action behind a spinner titled title.
func withSpinner(ctx context.Context, title string, action func(ctx context.Context) error) error {
	return spinner.New().Title(title).Context(ctx).ActionWithErr(action).Run()
}
