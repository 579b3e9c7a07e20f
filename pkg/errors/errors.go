package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInputNotFound        = errors.New("input not found")
	ErrMalformedInput       = errors.New("malformed input")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrSerialization        = errors.New("serialization error")
	ErrPublish              = errors.New("publish failed")
)

const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitInput         = 3
	ExitSerialization = 4
	ExitPublish       = 5
)

type AppError struct {
	Err      error
	Message  string
	ExitCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  message,
		ExitCode: exitCodeFor(sentinel),
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  fmt.Sprintf(format, args...),
		ExitCode: exitCodeFor(sentinel),
	}
}

// Is reports whether err matches target, re-exported so callers need only
// this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.ExitCode != 0 {
		return appErr.ExitCode
	}
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidConfiguration):
		return ExitConfiguration
	case errors.Is(err, ErrInputNotFound), errors.Is(err, ErrMalformedInput):
		return ExitInput
	case errors.Is(err, ErrSerialization):
		return ExitSerialization
	case errors.Is(err, ErrPublish):
		return ExitPublish
	default:
		return ExitFailure
	}

}
