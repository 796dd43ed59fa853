package circuit

import (
	"errors"
	"fmt"
)

// Kind classifies circuit and simulation errors so callers can map them to
// recovery strategies (or HTTP statuses) without string matching.
type Kind int

const (
	// KindValidation covers structural circuit problems: bad arity, unknown
	// qubit, wrong parameter count, position collision.
	KindValidation Kind = iota
	// KindReference is returned when removing an entity that is still
	// referenced by another (a qubit with placements on it).
	KindReference
	// KindNotFound is returned for operations on unknown ids or indices.
	KindNotFound
	// KindConfig covers bad simulation parameters such as a non-positive
	// shot count or an unknown backend name.
	KindConfig
	// KindBackend covers failures of the external execution backend.
	KindBackend
	// KindTimeout is returned when a simulation exceeds its deadline.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindReference:
		return "reference"
	case KindNotFound:
		return "not_found"
	case KindConfig:
		return "config"
	case KindBackend:
		return "backend"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is the domain error type. Backend and timeout errors keep their
// original cause so callers can inspect it through errors.Is/As.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewValidationError reports a structural circuit problem.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewReferenceError reports removal of a still-referenced entity.
func NewReferenceError(format string, args ...any) *Error {
	return &Error{Kind: KindReference, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports an operation on an unknown id or index.
func NewNotFoundError(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewConfigError reports bad simulation parameters.
func NewConfigError(format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// NewBackendError reports an external backend failure, preserving the cause.
func NewBackendError(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindBackend, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// NewTimeoutError reports an exceeded simulation deadline, preserving the cause.
func NewTimeoutError(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindTimeout, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsKind reports whether err (or anything it wraps) is a domain error of the
// given kind.
func IsKind(err error, k Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == k
	}
	return false
}
