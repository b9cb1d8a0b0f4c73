package location

import (
	"errors"
	"fmt"
)

// ErrorCategory normalises provider failures so the resolver can treat every
// provider the same way.
type ErrorCategory string

const (
	// ErrorTimeout indicates the provider did not answer within its budget
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorPermissionDenied indicates the device refused location access
	ErrorPermissionDenied ErrorCategory = "permission_denied"

	// ErrorAuthentication indicates rejected provider credentials
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorProviderOutage indicates a network failure or 5xx from the provider
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorBadData indicates a malformed or out-of-range answer
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorEmptyResult indicates the provider answered but had no position
	ErrorEmptyResult ErrorCategory = "empty_result"

	// ErrorRateLimited indicates the provider quota is exhausted
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorCircuitOpen indicates the provider was skipped by its circuit breaker
	ErrorCircuitOpen ErrorCategory = "circuit_open"

	// ErrorInternal indicates an unexpected failure
	ErrorInternal ErrorCategory = "internal"
)

// ProviderError wraps a provider failure with its category.
type ProviderError struct {
	Category   ErrorCategory
	ProviderID string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.ProviderID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.ProviderID, e.Category, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// NewProviderError creates a categorised provider error.
func NewProviderError(category ErrorCategory, providerID, message string, underlying error) *ProviderError {
	retryable := category == ErrorTimeout ||
		category == ErrorProviderOutage ||
		category == ErrorRateLimited ||
		category == ErrorCircuitOpen

	return &ProviderError{
		Category:   category,
		ProviderID: providerID,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable reports whether a later attempt could succeed.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// GetCategory extracts the category, defaulting to ErrorInternal.
func GetCategory(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorInternal
}

// ErrNoProviders is returned when a resolver is built with an empty chain.
var ErrNoProviders = errors.New("no location providers configured")
