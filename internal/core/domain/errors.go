package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedSource indicates a source outside the integrated services.
	ErrUnsupportedSource = errors.New("unsupported source")

	// Search Errors.

	// ErrNotConfigured indicates a required setting, such as the search
	// endpoint, is missing. Nothing depending on it can succeed until the
	// configuration changes.
	ErrNotConfigured = errors.New("not configured")

	// ErrTransport indicates the search endpoint could not be reached or
	// answered with a non-success status.
	ErrTransport = errors.New("search transport failed")

	// ErrDecode indicates the search endpoint answered with a body that does
	// not match the response contract.
	ErrDecode = errors.New("unexpected search response")

	// Authentication Errors.

	// ErrNotAuthenticated indicates no user is signed in.
	ErrNotAuthenticated = errors.New("not signed in")

	// ErrNotAuthorized indicates the signed-in user is not on the allow-list.
	ErrNotAuthorized = errors.New("access denied")
)

// ConfigurationError reports a missing or invalid required setting.
type ConfigurationError struct {
	// Setting is the config key or environment variable at fault.
	Setting string
	// Hint tells the user how to fix it.
	Hint string
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s is %s", e.Setting, ErrNotConfigured.Error())
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// Unwrap returns ErrNotConfigured.
func (e *ConfigurationError) Unwrap() error {
	return ErrNotConfigured
}

// TransportError reports a failed HTTP round trip.
// StatusCode is zero when no response was received.
type TransportError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return "search failed: " + e.Err.Error()
		}
		return "search failed"
	}
	text := e.Status
	if text == "" {
		text = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("search failed: %d %s", e.StatusCode, text)
}

// Unwrap exposes ErrTransport and the underlying cause.
func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTransport, e.Err}
	}
	return []error{ErrTransport}
}

// Retryable reports whether repeating the request may succeed.
// Network failures, timeouts, throttling and server errors are retryable.
func (e *TransportError) Retryable() bool {
	switch {
	case e.StatusCode == 0:
		return true
	case e.StatusCode == http.StatusRequestTimeout,
		e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// DecodeError reports a response body that violates the contract.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return ErrDecode.Error()
	}
	return ErrDecode.Error() + ": " + e.Err.Error()
}

// Unwrap exposes ErrDecode and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrDecode, e.Err}
	}
	return []error{ErrDecode}
}

// IsRetryable reports whether err is a transport failure worth retrying.
func IsRetryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable()
	}
	return false
}

// UserMessage renders err for people rather than logs.
func UserMessage(err error) string {
	var (
		cfgErr *ConfigurationError
		te     *TransportError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &cfgErr):
		if cfgErr.Hint != "" {
			return fmt.Sprintf("%s is not set: %s", cfgErr.Setting, cfgErr.Hint)
		}
		return cfgErr.Setting + " is not set"
	case errors.As(err, &te):
		return te.Error()
	case errors.Is(err, ErrDecode):
		return "The search service returned an unexpected response."
	case errors.Is(err, ErrNotAuthenticated):
		return "You are not signed in. Run: notesearch auth login"
	case errors.Is(err, ErrNotAuthorized):
		return "Your account is not allowed to use notesearch."
	default:
		return err.Error()
	}
}
