// Package errors defines the error kinds shared by the counters, the
// benchmark harness and the corpus tooling.
package errors

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrIO          = errors.New("i/o failure")
	ErrConfig      = errors.New("configuration error")
	ErrDiscrepancy = errors.New("backend discrepancy")
	ErrFetch       = errors.New("fetch failed")
	ErrClosed      = errors.New("resource closed")
)

// Error types reported in records and logs.
const (
	TypeIO          = "io_error"
	TypeConfig      = "config_error"
	TypeDiscrepancy = "discrepancy"
	TypeFetch       = "fetch_error"
	TypeCanceled    = "canceled"
	TypeCount       = "count_error"
)

type AppError struct {
	Err     error
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Err.Error(), e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a sentinel kind to an underlying error.
func Wrap(sentinel error, cause error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
		Cause:   cause,
	}
}

// ErrorType maps an error to the short type string used in reports.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfig):
		return TypeConfig
	case errors.Is(err, ErrIO):
		return TypeIO
	case errors.Is(err, ErrDiscrepancy):
		return TypeDiscrepancy
	case errors.Is(err, ErrFetch):
		return TypeFetch
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return TypeCanceled
	default:
		return TypeCount
	}
}
