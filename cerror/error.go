package cerror

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is the kind of errors returned when a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrCorruptRecording is the kind of errors returned when a recording cannot be decoded.
	ErrCorruptRecording = errors.New("corrupt recording")
)

// ClimbError is an error raised by the locomotion packages. It optionally carries a kind, which
// may be matched using errors.Is.
type ClimbError struct {
	Err  string
	kind error
}

// New returns a ClimbError with a formatted message and no kind.
func New(format string, args ...any) *ClimbError {
	return &ClimbError{Err: fmt.Sprintf(format, args...)}
}

// Kind returns a ClimbError of the kind passed with a formatted message.
func Kind(kind error, format string, args ...any) *ClimbError {
	return &ClimbError{Err: fmt.Sprintf(format, args...), kind: kind}
}

func (e *ClimbError) Error() string {
	if e.kind != nil {
		return e.kind.Error() + ": " + e.Err
	}
	return e.Err
}

func (e *ClimbError) Unwrap() error {
	return e.kind
}
