package stay

import (
	"errors"
	"fmt"
)

const (
	CodeValidation = "validationError"
	CodeNotFound   = "notFound"
	CodeConflict   = "conflict"
	CodeInvariant  = "invariantViolation"
)

// Error is the engine's typed error. Code identifies the taxonomy bucket,
// Message carries the human-readable reason surfaced to the caller.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError rejects malformed input before any search runs.
func NewValidationError(format string, args ...any) error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports a referenced entity that does not exist.
func NewNotFoundError(format string, args ...any) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewConflictError reports a state or availability conflict. The caller may
// re-run the search and retry with fresh data; the engine never auto-retries.
func NewConflictError(format string, args ...any) error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// NewInvariantViolation reports an internal defect, such as a tiling that
// does not cover its window. It must never be persisted or silently dropped.
func NewInvariantViolation(format string, args ...any) error {
	return &Error{Code: CodeInvariant, Message: fmt.Sprintf(format, args...)}
}

func hasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func IsValidationError(err error) bool { return hasCode(err, CodeValidation) }
func IsNotFoundError(err error) bool   { return hasCode(err, CodeNotFound) }
func IsConflictError(err error) bool   { return hasCode(err, CodeConflict) }
func IsInvariantViolation(err error) bool { return hasCode(err, CodeInvariant) }
