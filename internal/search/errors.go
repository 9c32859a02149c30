package search

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/hyperjump/dishmatch/internal/recognition"
)

// Pipeline stages that call out to a collaborator.
const (
	StageEmbed     = "embed"
	StageRecognize = "recognize"
)

// ErrNothingRecognized is returned by ImageNearby when no dish was found in the image.
var ErrNothingRecognized = recognition.ErrNothingRecognized

// ErrRecognizerUnavailable is wrapped in a StageError when the engine has no recognizer.
var ErrRecognizerUnavailable = errors.New("no dish recognizer configured")

// StageError reports a failed collaborator call. It is recoverable; callers may retry.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the stage ran out of time.
func (e *StageError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// InvalidInputError rejects a request before any computation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field string, err error) error {
	return &InvalidInputError{Field: field, Reason: err.Error()}
}
