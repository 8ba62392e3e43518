package adapters

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
)

// ErrCollaboratorUnavailable is matched by every CollaboratorUnavailableError.
var ErrCollaboratorUnavailable = errors.New("music platform unavailable")

// CollaboratorUnavailableError wraps a failed platform call. Calls are not
// retried; the caller decides what to show.
type CollaboratorUnavailableError struct {
	Platform string
	Op       string
	Status   int
	Err      error
}

func (e *CollaboratorUnavailableError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s failed (HTTP %d): %v", e.Platform, e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Platform, e.Op, e.Err)
}

func (e *CollaboratorUnavailableError) Unwrap() error {
	return e.Err
}

func (e *CollaboratorUnavailableError) Is(target error) bool {
	return target == ErrCollaboratorUnavailable
}

// RateLimited reports whether the platform rejected the call for quota.
func (e *CollaboratorUnavailableError) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// Unauthorized reports whether the access token was rejected.
func (e *CollaboratorUnavailableError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

func unavailable(platform, op string, err error) error {
	e := &CollaboratorUnavailableError{Platform: platform, Op: op, Err: err}
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		e.Status = apiErr.Status
	}
	return e
}
