package quickbooks

import (
	"errors"
	"fmt"
)

// TransportError represents a network-level failure before any HTTP
// response was obtained.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError represents a failed token refresh, revoke, or userinfo call,
// or otherwise invalid credentials.
type AuthError struct {
	Reason     string
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication error: %s (status %d): %s", e.Reason, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("authentication error: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError is returned when a request is rejected before any
// network I/O, e.g. an update missing Id or SyncToken.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Reason)
}

// FaultDetail is one entry of a QuickBooks Fault envelope's Error array.
type FaultDetail struct {
	Message string `json:"Message"`
	Detail  string `json:"Detail"`
	Code    string `json:"code"`
	Element string `json:"element"`
}

// RemoteFault represents a Fault envelope or non-success HTTP status
// returned by QuickBooks. Body carries the raw response for callers that
// need the full detail.
type RemoteFault struct {
	StatusCode int
	Type       string
	Errors     []FaultDetail
	Body       string
}

func (e *RemoteFault) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("quickbooks fault (status %d, code %s): %s", e.StatusCode, e.Errors[0].Code, e.Errors[0].Message)
	}
	return fmt.Sprintf("quickbooks fault (status %d): %s", e.StatusCode, e.Body)
}

// ParseError indicates a response body that did not match the expected shape.
type ParseError struct {
	Expected string
	Err      error
	Body     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response as %s: %v", e.Expected, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsTransportError checks if the error is a network-level failure.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsAuthError checks if the error is an authentication error.
func IsAuthError(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

// IsValidationError checks if the error is a client-side validation error.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsRemoteFault checks if the error is a QuickBooks fault response.
func IsRemoteFault(err error) bool {
	var e *RemoteFault
	return errors.As(err, &e)
}

// IsParseError checks if the error is an unexpected-body-shape error.
func IsParseError(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}
