package actions

import (
	"stridebeat/internal/logging"
	"stridebeat/internal/session"

	"github.com/urfave/cli/v2"
)

// Cadence estimates the cadence for a height and pace. It needs no login.
func (a *Actions) Cadence(c *cli.Context) error {
	height, pace, err := inputsFromCommand(c)
	if err != nil {
		return err
	}

	state := session.NewOffline(logging.SessionIDFromContext(c.Context))
	if _, err := state.Submit(height, pace); err != nil {
		RenderWarning(a.out, state)
		return err
	}
	RenderCadence(a.out, state)
	return nil
}
