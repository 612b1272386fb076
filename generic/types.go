/*
Package generic provides the primitives shared by the commission engine.

PURPOSE:
  This package contains domain-agnostic types used by the commercial, health
  and finance packages. Money arithmetic, period keys, identifiers, the clock
  and the error taxonomy live here so every calculator speaks the same
  vocabulary.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: decimal.Decimal in the agency's local currency
  - RoundCurrency: the single rounding point to whole currency units
  - Identifiers: type-safe record, salesperson and agency IDs

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Type Safety: Strong typing for IDs prevents mixing salesperson/agency IDs
  3. Purity: Nothing in this package holds mutable shared state

USAGE:
  premium := generic.MustParseDecimal("10000")
  commission := generic.RoundCurrency(premium.Mul(generic.Percent(1)))

SEE ALSO:
  - period.go: Year-month period keys
  - errors.go: Sentinel and structured errors
  - time.go: Clock used to stamp new records
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Amounts in the agency's local currency
// =============================================================================

// Money is a currency amount. Internal computation may carry fractions;
// display values are whole units after RoundCurrency.
type Money = decimal.Decimal

var hundred = decimal.NewFromInt(100)

// NewMoney returns a whole-unit amount.
func NewMoney(units int64) Money {
	return decimal.NewFromInt(units)
}

// MustParseDecimal parses a literal decimal such as a rate table entry.
// It panics on malformed input.
func MustParseDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// RoundCurrency rounds to the nearest whole currency unit, halves away from zero.
func RoundCurrency(m Money) Money {
	return m.Round(0)
}

// Percent converts a percentage (e.g. 2 for 2%) into a multiplier.
func Percent(p int64) decimal.Decimal {
	return decimal.NewFromInt(p).Div(hundred)
}

// Ratio returns num/den expressed as a percentage. den must be non-zero.
func Ratio(num, den int) decimal.Decimal {
	return decimal.NewFromInt(int64(num)).Mul(hundred).Div(decimal.NewFromInt(int64(den)))
}

// Sum adds amounts.
func Sum(amounts ...Money) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type RecordID string
type SalespersonID string
type AgencyID string
