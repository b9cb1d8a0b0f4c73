// Package contract holds reusable checks that every location provider must
// pass: result shape on success and the error taxonomy on failure.
package contract

import (
	"context"
	"testing"

	"geoclock/internal/location"
)

// ContractTest defines a success case for provider contract validation
type ContractTest struct {
	Name         string
	Provider     location.Provider
	Hint         location.Hint
	ValidateFunc func(res *location.Result) error
}

// ContractSuite is a collection of contract tests for a provider
type ContractSuite struct {
	ProviderID string
	Tests      []ContractTest
}

// Run executes all contract tests in the suite
func (s *ContractSuite) Run(t *testing.T) {
	for _, test := range s.Tests {
		t.Run(test.Name, func(t *testing.T) {
			res, err := test.Provider.Locate(context.Background(), test.Hint)
			if err != nil {
				t.Fatalf("provider locate failed: %v", err)
			}
			if res == nil {
				t.Fatal("provider returned nil result without error")
			}
			if test.Provider.ID() != s.ProviderID {
				t.Errorf("expected provider ID %s, got %s", s.ProviderID, test.Provider.ID())
			}
			if res.Provider != "" && res.Provider != test.Provider.Kind() {
				t.Errorf("result kind %s does not match provider kind %s", res.Provider, test.Provider.Kind())
			}
			if err := res.Coordinate.Validate(); err != nil {
				t.Errorf("invalid coordinate: %v", err)
			}
			if test.ValidateFunc != nil {
				if err := test.ValidateFunc(res); err != nil {
					t.Errorf("custom validation failed: %v", err)
				}
			}
		})
	}
}

// ErrorContractTest validates that provider errors follow the taxonomy
type ErrorContractTest struct {
	Name          string
	Provider      location.Provider
	Hint          location.Hint
	ExpectedError location.ErrorCategory
	ExpectedRetry bool
}

// Run executes an error contract test
func (ect *ErrorContractTest) Run(t *testing.T) {
	t.Run(ect.Name, func(t *testing.T) {
		_, err := ect.Provider.Locate(context.Background(), ect.Hint)
		if err == nil {
			t.Fatal("expected error but got none")
		}

		category := location.GetCategory(err)
		if category != ect.ExpectedError {
			t.Errorf("expected error category %s, got %s", ect.ExpectedError, category)
		}

		isRetryable := location.IsRetryable(err)
		if isRetryable != ect.ExpectedRetry {
			t.Errorf("expected retryable=%v, got %v", ect.ExpectedRetry, isRetryable)
		}
	})
}
