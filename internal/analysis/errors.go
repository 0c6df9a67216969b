package analysis

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// Comment sources wrap these so the engine can classify first-page failures.
	ErrVideoNotFound    = errors.New("video not found")
	ErrCommentsDisabled = errors.New("comments disabled")
)

type RunErrorKind string

const (
	RunErrorInvalidID        RunErrorKind = "INVALID ID"
	RunErrorCommentsDisabled RunErrorKind = "COMMENTS DISABLED"
	RunErrorFetchFailed      RunErrorKind = "FETCH FAILED"
)

// RunError is returned when a run ends before producing any summary, i.e. the
// first page could not be fetched.
type RunError struct {
	Kind    RunErrorKind
	VideoID string
	Err     error
}

func (e *RunError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("run for video %q: %s", e.VideoID, e.Kind)
	}
	return fmt.Sprintf("run for video %q: %s: %v", e.VideoID, e.Kind, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

func newRunError(videoID string, err error) *RunError {
	kind := RunErrorFetchFailed
	switch {
	case errors.Is(err, ErrVideoNotFound):
		kind = RunErrorInvalidID
	case errors.Is(err, ErrCommentsDisabled):
		kind = RunErrorCommentsDisabled
	}
	return &RunError{Kind: kind, VideoID: videoID, Err: err}
}

// RunErrorKindOf reports the kind of a RunError anywhere in err's chain.
func RunErrorKindOf(err error) (RunErrorKind, bool) {
	var runErr *RunError
	if errors.As(err, &runErr) {
		return runErr.Kind, true
	}
	return "", false
}
