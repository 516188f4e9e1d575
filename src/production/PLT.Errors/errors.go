// Package plterrors defines the error taxonomy shared by the service layer
// and the HTTP boundary. Errors are raised at the point of detection and
// surfaced unmodified; the boundary maps each kind to an HTTP status.
package plterrors

import (
	"errors"
	"net/http"
)

// Kind classifies an error for status mapping at the boundary.
type Kind int

const (
	// KindValidation is a malformed or unacceptable input.
	KindValidation Kind = iota
	// KindAuthentication is a failed credential check. The message never
	// distinguishes an unknown email from a wrong password.
	KindAuthentication
	// KindAuthorization is an authenticated caller with insufficient role.
	KindAuthorization
	// KindInvalidToken is a forged, malformed, or expired token.
	KindInvalidToken
	// KindNotFound is a missing entity referenced by a mutation. Read
	// queries return empty results instead.
	KindNotFound
)

// Error carries a kind and a caller-visible message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication, KindInvalidToken:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// NewValidation creates a validation error.
func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewAuthentication creates an authentication error.
func NewAuthentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// NewAuthorization creates an authorization error.
func NewAuthorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NewInvalidToken creates an invalid-token error.
func NewInvalidToken(message string) *Error {
	return &Error{Kind: KindInvalidToken, Message: message}
}

// NewNotFound creates a not-found error.
func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// StatusOf returns the HTTP status for any error, defaulting to 500 for
// errors outside the taxonomy.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status()
	}
	return http.StatusInternalServerError
}
