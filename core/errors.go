package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the gate.
var (
	// ErrBadRequest is the class of every error returned by CheckToken.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized is returned by AuthExtension.RequireLogged for
	// anonymous requests.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrHeaderMalformed is returned when the accesstoken header is not
	// visible ASCII text.
	ErrHeaderMalformed = errors.New("accesstoken header is not valid text")

	// ErrTokenInvalid is returned when the token cannot be decoded or
	// verified.
	ErrTokenInvalid = errors.New("accesstoken is invalid")

	// ErrExtensionNotFound is returned when no AuthExtension was attached to
	// the context.
	ErrExtensionNotFound = errors.New("auth extension not found in context")
)

// badRequestError wraps a request-level failure so that errors.Is matches
// both ErrBadRequest and its kind, while Unwrap still reaches the cause.
type badRequestError struct {
	kind    error
	details error
}

// Is allows the error to support equality to ErrBadRequest and its kind.
func (e *badRequestError) Is(target error) bool {
	return target == ErrBadRequest || target == e.kind
}

// Error returns a string representation of the error.
func (e *badRequestError) Error() string {
	if e.details == nil {
		return e.kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.kind, e.details)
}

// Unwrap allows the error to support equality to the underlying error.
func (e *badRequestError) Unwrap() error {
	return e.details
}

// NewBadRequest wraps details as a bad-request error of the given kind.
func NewBadRequest(kind, details error) error {
	return &badRequestError{kind: kind, details: details}
}
