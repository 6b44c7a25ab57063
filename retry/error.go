package retry

import (
	"errors"

	"github.com/amp-labs/amp-backoff/interval"
)

var (
	// ErrInvalidArgument is returned by NewPolicy for bad configuration. It is
	// the same sentinel the interval package uses, so one errors.Is check
	// covers both.
	ErrInvalidArgument = interval.ErrInvalidArgument

	// ErrInvalidDelay is returned when an algorithm fails or yields a
	// negative delay.
	ErrInvalidDelay = errors.New("invalid retry delay")

	// ErrSequenceTerminated is returned by a Coordinator that has already
	// given up.
	ErrSequenceTerminated = errors.New("retry sequence already terminated")

	// ErrAborted is what Abort(nil) surfaces, so that an aborted operation
	// never reads as a success.
	ErrAborted = errors.New("operation aborted")
)

// Error is an interface for errors that can indicate whether they are temporary
// (retryable) or permanent (non-retryable). The Temporary predicate honours it.
type Error interface {
	// Temporary returns true if the error is temporary and the operation should be retried.
	Temporary() bool
	error
}

// permanentError wraps an error to mark it as permanent (non-retryable).
type permanentError struct {
	error
}

func (e *permanentError) Temporary() bool { return false }

func (e *permanentError) Unwrap() error {
	return e.error
}

// Abort wraps an error to mark it as permanent. A Coordinator gives up on it
// immediately, whatever the filter says, and surfaces the wrapped error.
// A nil err is replaced by ErrAborted.
//
// Example:
//
//	if err := validateInput(data); err != nil {
//	    return retry.Abort(err)  // Don't retry validation errors
//	}
func Abort(err error) Error {
	if err == nil {
		err = ErrAborted
	}

	return &permanentError{err}
}

// unwrapAbort reports whether err carries an Abort marker and, if so,
// returns the error the marker wraps.
func unwrapAbort(err error) (error, bool) {
	var p *permanentError
	if errors.As(err, &p) {
		return p.error, true
	}

	return err, false
}
