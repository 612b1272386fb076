/*
errors.go - Centralized error types for the commission engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The calculators are total functions, so the only faults they raise are
  unrecognised enum values. Everything else here belongs to the store and
  the HTTP layer.

ERROR CATEGORIES:
  1. Input errors - unknown act/product types, malformed periods
  2. Lookup errors - records that do not exist
  3. Store errors - Database-level failures

POLICY EDGE CASES ARE NOT ERRORS:
  - Empty product on a commercial act -> commission 0
  - Zero auto contracts in a period   -> ratio condition satisfied
  - Missing monthly entry             -> month excluded from projection

USAGE:
  if errors.Is(err, generic.ErrUnknownProduct) {
      // caller sent a product code outside the rate table
  }

SEE ALSO:
  - commercial/commission.go: Raises ErrUnknownProduct
  - health/premium.go: Raises ErrUnknownActType
  - api/handlers.go: Maps these errors to HTTP statuses
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
	// ErrUnknownProduct is returned when a product code is not in the rate table.
	ErrUnknownProduct = errors.New("unknown product type")

	// ErrUnknownActType is returned when an act type is not recognised.
	ErrUnknownActType = errors.New("unknown act type")

	// ErrInvalidPeriod is returned when a period key is malformed.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidDate is returned when a date is not formatted YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNegativeAmount is returned by the data-entry layer for negative premiums.
	ErrNegativeAmount = errors.New("amount must not be negative")

	// ErrRecordNotFound is returned when a referenced record doesn't exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrSalespersonNotFound is returned when a referenced salesperson doesn't exist.
	ErrSalespersonNotFound = errors.New("salesperson not found")

	// ErrDuplicateRecord is returned when a unique key already exists.
	ErrDuplicateRecord = errors.New("duplicate record")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError describes a rejected field value.
type InvalidInputError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string
	ID   string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err == nil {
		return ErrRecordNotFound
	}
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownProduct) ||
		errors.Is(err, ErrUnknownActType) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrDuplicateRecord)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrSalespersonNotFound)
}
