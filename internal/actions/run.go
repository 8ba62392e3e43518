package actions

import (
	"context"
	"errors"

	"stridebeat/internal/cadence"
	"stridebeat/internal/library"
	"stridebeat/internal/playlist"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"
)

// Run is the interactive session: log in, then loop over entering height
// and pace, showing matches and offering a reset. The library is fetched
// once and reused for every cadence.
func (a *Actions) Run(c *cli.Context) error {
	ctx := c.Context
	state := newSession(ctx)
	lib, err := a.login(ctx, state)
	if err != nil {
		return err
	}
	opts := a.matchOptions(c)

	var (
		pool   []playlist.Track
		values formValues
	)
	for {
		values, err = promptInputs(values)
		if err != nil {
			return ignoreAborted(err)
		}
		height, pace, err := values.toInputs()
		if err != nil {
			return err
		}
		cad, err := state.Submit(height, pace)
		if errors.Is(err, cadence.ErrInvalidInput) {
			RenderWarning(a.out, state)
			continue
		}
		if err != nil {
			return err
		}

		if pool == nil {
			err = withSpinner(ctx, "Loading your library...", func(ctx context.Context) error {
				var err error
				pool, err = lib.AnnotatedPool(ctx, opts.Dedupe)
				return err
			})
			if err != nil {
				return err
			}
		}
		RenderMatches(a.out, state, library.Evaluate(float64(cad), pool, opts))

		again := false
		err = huh.NewConfirm().
			Title("Reset and try another height or pace?").
			Affirmative("Reset").
			Negative("Quit").
			Value(&again).
			Run()
		if err != nil {
			return ignoreAborted(err)
		}
		if !again {
			return nil
		}
		if err := state.Reset(); err != nil {
			return err
		}
	}
}

// ignoreAborted treats ctrl+c inside a form as a normal exit.
func ignoreAborted(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}
