package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so callers can decide whether retrying is useful.
type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindForbidden        Kind = "FORBIDDEN"
	KindInvalidState     Kind = "INVALID_STATE"
	KindValidationFailed Kind = "VALIDATION_FAILED"
	KindUpstreamFailure  Kind = "UPSTREAM_FAILURE"
	KindInternal         Kind = "INTERNAL_ERROR"
)

type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the kind to the HTTP status used in responses. Forbidden is
// deliberately rendered as 404 so ownership mismatches do not reveal that the
// resource exists.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindNotFound, KindForbidden:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindUpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicKind is what goes on the wire. Forbidden masquerades as NotFound.
func (e *AppError) PublicKind() Kind {
	if e.Kind == KindForbidden {
		return KindNotFound
	}
	return e.Kind
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Forbidden(resource string) *AppError {
	return &AppError{Kind: KindForbidden, Message: fmt.Sprintf("%s not found", resource)}
}

func InvalidState(message string) *AppError {
	return &AppError{Kind: KindInvalidState, Message: message}
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidationFailed, Message: message}
}

func Upstream(message string, err error) *AppError {
	return &AppError{Kind: KindUpstreamFailure, Message: message, Err: err}
}

func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}

func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
