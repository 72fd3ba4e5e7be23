/*
errors.go - Centralized error types for the shift pay engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Input errors - malformed or contradictory shift data
  2. Configuration errors - a rate table is missing a band it needs
  3. Store errors - records that do not exist or collide

USAGE:
  Callers branch with errors.Is / errors.As:

    if errors.Is(err, generic.ErrInvalidInput) {
        var inputErr *generic.InputError
        errors.As(err, &inputErr)
        ...
    }

  The calculator never turns an error into a zero value: a missing rate is
  an error, not a $0.00 line.

SEE ALSO:
  - payrate/calculator.go: Returns InputError and MissingRateError
  - api/handlers.go: Maps error categories to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for malformed or contradictory shift input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration is returned when rate configuration cannot serve a
	// calculation, e.g. a band is absent from a rate table.
	ErrConfiguration = errors.New("configuration error")

	// ErrEntryNotFound is returned when a roster entry doesn't exist.
	ErrEntryNotFound = errors.New("roster entry not found")

	// ErrRatesNotFound is returned when no rate settings have been stored.
	ErrRatesNotFound = errors.New("rate settings not found")

	// ErrHolidayNotFound is returned when a holiday doesn't exist.
	ErrHolidayNotFound = errors.New("holiday not found")

	// ErrDuplicateRecord is returned when a pay record ID already exists in
	// the append-only pay history.
	ErrDuplicateRecord = errors.New("duplicate pay record")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InputError describes a rejected input field.
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// MissingRateError reports a band absent from a rate table.
type MissingRateError struct {
	Table string // "staff" or "ndis"
	Band  string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("%s rate table has no rate for band %q", e.Table, e.Band)
}

func (e *MissingRateError) Unwrap() error {
	return ErrConfiguration
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrDuplicateRecord)
}

// IsConfigError returns true if the error comes from rate configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrRatesNotFound) ||
		errors.Is(err, ErrHolidayNotFound)
}
