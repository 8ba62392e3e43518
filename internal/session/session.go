// Package session tracks the state of one interactive run: whether the user
// is logged in, whether the input form is locked after a submission, the
// cadence that submission produced and any validation warning to display.
package session

import (
	"errors"

	"stridebeat/internal/cadence"
)

// Phase is the form lifecycle stage.
type Phase int

const (
	// PhaseLoggedOut means no catalog client exists yet.
	PhaseLoggedOut Phase = iota
	// PhaseEditing means the form accepts input.
	PhaseEditing
	// PhaseSubmitted means a cadence was computed and the form is locked until Reset.
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseLoggedOut:
		return "logged out"
	case PhaseEditing:
		return "editing"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

var (
	ErrNotAuthenticated  = errors.New("log in before submitting")
	ErrAlreadySubmitted  = errors.New("form already submitted, reset it first")
	ErrNothingToReset    = errors.New("nothing submitted yet")
	ErrAlreadyLoggedIn   = errors.New("already logged in")
	errNoCadenceComputed = errors.New("no cadence computed")
)

// State is passed by pointer to the render functions. The zero value is
// not usable; call New.
type State struct {
	ID      string
	phase   Phase
	height  cadence.HeightInput
	pace    cadence.PaceInput
	cadence *cadence.Cadence
	warning string
}

// New returns a logged-out session.
func New(id string) *State {
	return &State{ID: id, phase: PhaseLoggedOut}
}

// NewOffline returns a session that skips login, for commands that only
// compute a cadence.
func NewOffline(id string) *State {
	return &State{ID: id, phase: PhaseEditing}
}

// Phase returns the current stage.
func (s *State) Phase() Phase { return s.phase }

// Authenticated reports whether login completed.
func (s *State) Authenticated() bool { return s.phase != PhaseLoggedOut }

// Disabled reports whether the input fields are locked.
func (s *State) Disabled() bool { return s.phase == PhaseSubmitted }

// Submitted reports whether a cadence is on display.
func (s *State) Submitted() bool { return s.phase == PhaseSubmitted }

// Warning returns the last validation message, or "".
func (s *State) Warning() string { return s.warning }

// Inputs returns the last submitted height and pace.
func (s *State) Inputs() (cadence.HeightInput, cadence.PaceInput) {
	return s.height, s.pace
}

// Cadence returns the computed cadence once the form is submitted.
func (s *State) Cadence() (cadence.Cadence, error) {
	if s.cadence == nil {
		return 0, errNoCadenceComputed
	}
	return *s.cadence, nil
}

// MarkAuthenticated moves a logged-out session to editing.
func (s *State) MarkAuthenticated() error {
	if s.phase != PhaseLoggedOut {
		return ErrAlreadyLoggedIn
	}
	s.phase = PhaseEditing
	return nil
}

// Submit validates the inputs and computes the cadence. An invalid input
// sets the warning and leaves the form editable; the returned error wraps
// cadence.ErrInvalidInput.
func (s *State) Submit(height cadence.HeightInput, pace cadence.PaceInput) (cadence.Cadence, error) {
	switch s.phase {
	case PhaseLoggedOut:
		return 0, ErrNotAuthenticated
	case PhaseSubmitted:
		return 0, ErrAlreadySubmitted
	}

	c, err := cadence.Estimate(height, pace)
	if err != nil {
		s.warning = err.Error()
		return 0, err
	}

	s.height, s.pace = height, pace
	s.cadence = &c
	s.warning = ""
	s.phase = PhaseSubmitted
	return c, nil
}

// Reset discards the cadence and unlocks the form.
func (s *State) Reset() error {
	if s.phase != PhaseSubmitted {
		return ErrNothingToReset
	}
	s.cadence = nil
	s.warning = ""
	s.phase = PhaseEditing
	return nil
}
