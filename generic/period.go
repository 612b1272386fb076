package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - The reporting unit for every calculation
// =============================================================================

// Period is a calendar month. Commissions, eligibility and health brackets
// are ALWAYS computed for a period, never per record.
//
// A record's period is stamped from the clock when it is created and never
// changes afterwards. It is not the contract's effective date.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod returns the period for year/month.
func NewPeriod(year int, month time.Month) Period {
	return Period{Year: year, Month: month}
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, &InvalidInputError{Field: "period", Value: s, Err: ErrInvalidPeriod}
	}
	return PeriodOf(t), nil
}

// Valid reports whether the month is in 1..12 and the year is set.
func (p Period) Valid() bool {
	return p.Year > 0 && p.Month >= time.January && p.Month <= time.December
}

// Start returns the first instant of the period in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the period following this one.
func (p Period) Next() Period {
	return PeriodOf(p.Start().AddDate(0, 1, 0))
}

// Before reports whether p is strictly earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// String returns "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// MonthsOf returns the twelve periods of a calendar year.
func MonthsOf(year int) []Period {
	months := make([]Period, 0, 12)
	for p := NewPeriod(year, time.January); p.Year == year; p = p.Next() {
		months = append(months, p)
	}
	return months
}
