package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error. The router maps each kind to a
// transport status; nothing below the router knows about HTTP.
type Kind string

const (
	KindMissingCredential Kind = "missing_credential"
	KindInvalidCredential Kind = "invalid_credential"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindDuplicateID       Kind = "duplicate_id"
	KindValidation        Kind = "validation"
	KindTooManyAttempts   Kind = "too_many_attempts"
	KindInternal          Kind = "internal"
)

// AppError represents an application error
type AppError struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// StatusCode satisfies the interface the error middleware looks for.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindMissingCredential, KindInvalidCredential:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateID, KindValidation:
		return http.StatusBadRequest
	case KindTooManyAttempts:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Is lets errors.Is match on kind alone, so sentinels like ErrNotFound work
// against errors carrying a resource-specific message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is comparisons.
var (
	ErrMissingCredential = &AppError{Kind: KindMissingCredential}
	ErrInvalidCredential = &AppError{Kind: KindInvalidCredential}
	ErrForbidden         = &AppError{Kind: KindForbidden}
	ErrNotFound          = &AppError{Kind: KindNotFound}
	ErrDuplicateID       = &AppError{Kind: KindDuplicateID}
	ErrValidation        = &AppError{Kind: KindValidation}
	ErrTooManyAttempts   = &AppError{Kind: KindTooManyAttempts}
	ErrInternal          = &AppError{Kind: KindInternal}
)

func MissingCredential() *AppError {
	return &AppError{Kind: KindMissingCredential, Message: "authentication token is required"}
}

func InvalidCredential(err error) *AppError {
	return &AppError{Kind: KindInvalidCredential, Message: "invalid or expired credential", Err: err}
}

func Forbidden(message string) *AppError {
	if message == "" {
		message = "administrator privileges are required"
	}
	return &AppError{Kind: KindForbidden, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func DuplicateID(resource, id string) *AppError {
	return &AppError{Kind: KindDuplicateID, Message: fmt.Sprintf("%s %q already exists", resource, id)}
}

func Validation(message string, err error) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Err: err}
}

func TooManyAttempts() *AppError {
	return &AppError{Kind: KindTooManyAttempts, Message: "too many failed login attempts, try again later"}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// As extracts an *AppError from err. Anything that is not an AppError is
// reported as an internal failure so its detail never reaches a caller.
func As(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// KindOf returns the kind of err, or KindInternal.
func KindOf(err error) Kind {
	return As(err).Kind
}
