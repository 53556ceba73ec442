package hivetrace

import (
	"fmt"
	"runtime"

	"golang.org/x/xerrors"
)

// ConfigurationError indicates that the notifier cannot operate as
// configured, most commonly because no API key could be resolved. It is
// raised before any network call is attempted.
type ConfigurationError struct {
	E error
}

// NewConfigurationError returns a new ConfigurationError.
func NewConfigurationError(msg string, a ...any) ConfigurationError {
	return ConfigurationError{E: xerrors.Errorf(msg, a...)}
}

// Error returns the error message of this error.
func (e ConfigurationError) Error() string { return e.E.Error() }

// AsConfigurationError checks whether the error is a configuration error.
func AsConfigurationError(err error) (ConfigurationError, bool) {
	var e ConfigurationError
	ok := xerrors.As(err, &e)
	return e, ok
}

// ErrEventDropped is returned by Notify when the configured rate limiter
// denied the send. The report was built but never left the process.
var ErrEventDropped = xerrors.New("event dropped by rate limiter")

// Error is the library's own error type. It records the call stack at
// construction and can carry an arbitrary payload that surfaces under the
// "payload" tab of the report's metadata. Reports built from an *Error
// group by message rather than by type.
type Error struct {
	msg     string
	cause   error
	payload map[string]any
	stack   []uintptr
}

// New returns an *Error with the given printf-style message.
func New(msg string, a ...any) *Error {
	return &Error{
		msg:   fmt.Sprintf(msg, a...),
		stack: callers(3),
	}
}

// Wrap returns an *Error wrapping cause. The message of the returned error
// is "msg: cause".
func Wrap(cause error, msg string, a ...any) *Error {
	return &Error{
		msg:   fmt.Sprintf(msg, a...),
		cause: cause,
		stack: callers(3),
	}
}

// WithPayload attaches structured data to the error and returns it. The
// payload rides along into the report's metadata and marks the error as
// structured for grouping purposes.
func (e *Error) WithPayload(payload map[string]any) *Error {
	e.payload = payload
	return e
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// Payload returns the structured data attached at construction, or nil.
func (e *Error) Payload() map[string]any { return e.payload }

// Callers returns the program counters captured when the error was created.
func (e *Error) Callers() []uintptr { return e.stack }

func callers(skip int) []uintptr {
	pcs := make([]uintptr, 50)
	n := runtime.Callers(skip, pcs)
	return pcs[:n]
}
