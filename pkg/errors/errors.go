package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes for the scheduling domain
const (
	ErrInvalidTimeFormat ErrorCode = iota + 1000
	ErrInvalidInterval
	ErrMissingInterval
	ErrEventNotFound
	ErrDestinationUnresolvable
	ErrStoreUnavailable
)

// Error constructors
func InvalidTimeFormat(input string) *AppError {
	return &AppError{
		Code:    ErrInvalidTimeFormat,
		Message: fmt.Sprintf("invalid time format %q, expected YYYY-MM-DD HH:MM or MM-DD HH:MM", input),
	}
}

func InvalidInterval(input string) *AppError {
	return &AppError{
		Code:    ErrInvalidInterval,
		Message: fmt.Sprintf("invalid interval %q, expected <amount><d|h|m> e.g. 2d, 12h, 30m", input),
	}
}

func MissingInterval() *AppError {
	return &AppError{
		Code:    ErrMissingInterval,
		Message: "repeats require a valid interval",
	}
}

func EventNotFound(id int64) *AppError {
	return &AppError{
		Code:    ErrEventNotFound,
		Message: fmt.Sprintf("event %d not found", id),
	}
}

func DestinationUnresolvable(guildID string) *AppError {
	return &AppError{
		Code:    ErrDestinationUnresolvable,
		Message: fmt.Sprintf("no announcement channel configured for guild %s", guildID),
	}
}

func StoreUnavailable(err error) *AppError {
	return &AppError{
		Code:    ErrStoreUnavailable,
		Message: "event store unavailable",
		Err:     err,
	}
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsInputError reports whether err is a caller-input error that should be
// rejected outright rather than retried.
func IsInputError(err error) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case ErrInvalidTimeFormat, ErrInvalidInterval, ErrMissingInterval:
		return true
	}
	return false
}
