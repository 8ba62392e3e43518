package actions

import (
	"context"
	"fmt"

	"stridebeat/internal/cadence"
	"stridebeat/internal/library"
	"stridebeat/internal/logging"

	"github.com/urfave/cli/v2"
)

// MatchFlags shape the match result.
var MatchFlags = []cli.Flag{
	&cli.Float64Flag{Name: "tolerance", Usage: "BPM allowed either side of the cadence"},
	&cli.IntFlag{Name: "limit", Usage: "maximum number of songs to show"},
	&cli.BoolFlag{Name: "dedupe", Usage: "drop tracks that appear more than once in your library"},
	&cli.BoolFlag{Name: "closest", Usage: "order matches by distance from your cadence"},
}

// Match finds the songs in the user's library whose tempo fits their cadence.
func (a *Actions) Match(c *cli.Context) error {
	ctx := c.Context
	height, pace, err := inputsFromCommand(c)
	if err != nil {
		return err
	}
	// Reject bad input before sending the user through the login flow.
	if _, err := cadence.Estimate(height, pace); err != nil {
		return err
	}

	state := newSession(ctx)
	lib, err := a.login(ctx, state)
	if err != nil {
		return err
	}
	cad, err := state.Submit(height, pace)
	if err != nil {
		return err
	}

	opts := a.matchOptions(c)
	var report library.MatchReport
	err = withSpinner(ctx, "Finding songs that match your cadence...", func(ctx context.Context) error {
		var err error
		report, err = lib.FindMatches(ctx, float64(cad), opts)
		return err
	})
	if err != nil {
		return err
	}
	RenderMatches(a.out, state, report)

	if out := c.String("out"); out != "" {
		path, err := exportTracks(out, report.Tracks)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Saved %d songs to %s\n", len(report.Tracks), path)
	}

	logging.Ctx(ctx).Info().
		Float64("cadence", float64(cad)).
		Int("matched", report.Matched).
		Msg("match complete")
	return nil
}
