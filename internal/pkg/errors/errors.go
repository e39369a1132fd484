package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime"
	"runtime/debug"
)

// New creates a new instance of the base error
func New(msg string) error {
	return fmt.Errorf("%s: %s", msg, filePath())
}

// Wrap creates a new error of the wrapped error
func Wrap(err error, msg string) error {
	return fmt.Errorf("%s %s \ncaused by: %w", msg, filePath(), err)
}

// Is checks if the error is equal to the target
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As returns the wrapped error
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Errorf(format string, args ...interface{}) error {
	args = append(args, filePath())
	return fmt.Errorf(format+` %s`, args...)
}

// FetchError is returned when the target page could not be retrieved:
// network failure, timeout or a malformed target URL.
type FetchError struct {
	URL string
	Err error
}

func NewFetchError(url string, err error) *FetchError {
	return &FetchError{URL: url, Err: err}
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Error fetching URL: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the fetch gave up because a deadline passed.
func (e *FetchError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// ExtractionError marks a failure after a successful fetch. It carries the
// goroutine trace taken where the failure was observed.
type ExtractionError struct {
	Err   error
	Trace string
}

func NewExtractionError(err error) *ExtractionError {
	return &ExtractionError{Err: err, Trace: string(debug.Stack())}
}

// FromPanic converts a recovered panic value into an ExtractionError.
func FromPanic(rec any) *ExtractionError {
	err, ok := rec.(error)
	if !ok {
		err = fmt.Errorf("%v", rec)
	}
	return &ExtractionError{Err: err, Trace: string(debug.Stack())}
}

func (e *ExtractionError) Error() string {
	return e.Err.Error()
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func filePath() string {
	pc, f, l, ok := runtime.Caller(2)
	fn := `unknown`
	if ok {
		fn = runtime.FuncForPC(pc).Name()
	}
	return fmt.Sprintf("at %s\n\t%s:%d", fn, f, l)
}
