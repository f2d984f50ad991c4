package agent

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed request or a profile missing a required
// credential or address. Detected before any network call; never retried.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports a deployment mistake such as an unknown provider
// tag or a hosted provider constructed without a credential. Surfaced at
// construction or selection time, never retried.
type ConfigurationError struct {
	Provider string
	Reason   string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for provider %q: %s", e.Provider, e.Reason)
}

// NetworkError reports a transport-level failure: a non-success response
// status, a connection failure or a timeout. Eligible for retry.
type NetworkError struct {
	Provider string
	Status   int // HTTP status when known, 0 otherwise
	Err      error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s request failed with status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

// Unwrap exposes the transport error for errors.Is/As chains.
func (e *NetworkError) Unwrap() error { return e.Err }

// Retryable reports whether an error is worth burning backoff budget on.
// Only network-class failures qualify; validation and configuration mistakes
// fail the same way on every attempt.
func Retryable(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
