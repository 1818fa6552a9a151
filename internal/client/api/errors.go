package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials means the login endpoint rejected the
	// email/password pair (HTTP 401).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateAccount means registration hit an email conflict (HTTP 409).
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrUnauthenticated means an authorized operation was attempted with no
	// active session or an expired token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnauthorized means the server rejected the presented token. The
	// client treats this as a forced sign-out.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStaleResponse marks a list response that was superseded by a newer
	// request before it arrived. It never reaches user-facing callers.
	ErrStaleResponse = errors.New("stale response")

	// ErrRequestFailed is the sentinel every RequestError unwraps to.
	ErrRequestFailed = errors.New("request failed")
)

// RequestError carries the HTTP status and message of any failure that does
// not map to a more specific sentinel: unexpected status codes, transport
// errors (Status 0), or a response payload that failed schema validation.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("request failed: status %d: %s", e.Status, e.Message)
}

func (e *RequestError) Unwrap() error { return ErrRequestFailed }
