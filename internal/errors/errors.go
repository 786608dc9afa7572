// Package errors provides a structured error type hierarchy for chaosq.
//
// This package defines base error types for common error conditions, wrapped error
// types that add contextual information, and helper functions for error wrapping
// and type checking.
//
// # Error Types
//
// Base errors (sentinel errors):
//   - ErrNotFound - resource not found
//   - ErrInvalid - validation failed or the server rejected the request
//   - ErrUnauthorized - missing or rejected credentials
//   - ErrTransport - the request never produced an HTTP response
//   - ErrServer - the dashboard answered with a 5xx status
//   - ErrCanceled - the operation was canceled or superseded
//
// Wrapped error types (add context):
//   - APIError{Op, Endpoint, Status, Message, Err} - dashboard API errors
//   - ConfigError{Path, Err} - configuration errors
//
// # Usage
//
//	// Map an HTTP status to a structured error
//	return &errors.APIError{Op: "list experiments", Endpoint: "/experiments", Status: 404, Err: errors.ForStatus(404)}
//
//	// Wrap with context using Wrap
//	return errors.Wrap(err, "search")
//
//	// Check error types
//	if errors.IsUnauthorized(err) {
//	    // ask the user to run "chaosq init"
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Base error types (sentinel errors).
var (
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = baseError("not found")

	// ErrInvalid indicates validation failed.
	ErrInvalid = baseError("invalid")

	// ErrUnauthorized indicates the dashboard rejected our credentials.
	ErrUnauthorized = baseError("unauthorized")

	// ErrTransport indicates a network-level failure.
	ErrTransport = baseError("transport error")

	// ErrServer indicates the dashboard failed to serve the request.
	ErrServer = baseError("server error")

	// ErrCanceled indicates the operation was canceled.
	ErrCanceled = baseError("canceled")
)

// baseError is a string that implements error.
type baseError string

func (e baseError) Error() string { return string(e) }

// APIError represents a failed call to the dashboard API.
type APIError struct {
	// Op is the operation being performed (e.g., "list workflows").
	Op string
	// Endpoint is the API path that was requested.
	Endpoint string
	// Status is the HTTP status code, zero for transport failures.
	Status int
	// Message is the server-provided message, if any.
	Message string
	// Err is the underlying error.
	Err error
}

func (e *APIError) Error() string {
	msg := e.Err.Error()
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (%s, HTTP %d): %s", e.Op, e.Endpoint, e.Status, msg)
	}
	return fmt.Sprintf("%s (%s): %s", e.Op, e.Endpoint, msg)
}

func (e *APIError) Unwrap() error { return e.Err }

// ConfigError represents an error related to configuration.
type ConfigError struct {
	// Path is the configuration file path (optional).
	Path string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ForStatus returns the sentinel matching an HTTP status code, or nil for 2xx.
func ForStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	default:
		return ErrInvalid
	}
}

// Wrap adds context to an error by wrapping it with an operation name.
// The returned error implements Unwrap() allowing errors.Is and errors.As
// to work with the wrapped error.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{op: op, err: err}
}

// wrappedError is an error with an operation context.
type wrappedError struct {
	op  string
	err error
}

func (e *wrappedError) Error() string { return fmt.Sprintf("%s: %s", e.op, e.err) }
func (e *wrappedError) Unwrap() error { return e.err }

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalid reports whether err is or wraps ErrInvalid.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// IsUnauthorized reports whether err is or wraps ErrUnauthorized.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsTransport reports whether err is or wraps ErrTransport.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsServer reports whether err is or wraps ErrServer.
func IsServer(err error) bool {
	return errors.Is(err, ErrServer)
}

// IsCanceled reports whether err is or wraps ErrCanceled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// AsAPIError reports whether err can be typed as an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// AsConfigError reports whether err can be typed as a *ConfigError.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
