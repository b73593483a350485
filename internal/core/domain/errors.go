package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport wraps failures that happen before the auth API answers.
	ErrTransport = errors.New("auth api unreachable")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
	ErrUserNotFound = errors.New("user not found")

	ErrInvalidRole        = errors.New("invalid role")
	ErrEmptyCredential    = errors.New("empty credential")
	ErrCredentialNotFound = errors.New("credential not found")
)

// APIError is a non-2xx answer from the auth API. Detail carries the
// human-readable message the API put in its body, when there was one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("auth api: %d %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("auth api: %d %s", e.Status, http.StatusText(e.Status))
}

// Is lets callers match status classes with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrUserNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Detail returns the server-provided message carried by err, if any.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// Message picks the text shown to the user: the server detail verbatim when
// present, otherwise fallback.
func Message(err error, fallback string) string {
	if d := Detail(err); d != "" {
		return d
	}
	return fallback
}
