// Package finance holds the agency's monthly bookkeeping entries and the
// year-end extrapolation computed from them.
package finance

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// MONTHLY ENTRY - One bookkeeping record per agency and month
// =============================================================================

// Income groups the six income-side amounts of a month.
type Income struct {
	PCCommissions           decimal.Decimal
	LifeCommissions         decimal.Decimal
	BrokerageCommissions    decimal.Decimal
	PCExceptionalProfits    decimal.Decimal
	LifeExceptionalProfits  decimal.Decimal
	OtherExceptionalProfits decimal.Decimal
}

// Total sums every income field.
func (i Income) Total() decimal.Decimal {
	return generic.Sum(
		i.PCCommissions,
		i.LifeCommissions,
		i.BrokerageCommissions,
		i.PCExceptionalProfits,
		i.LifeExceptionalProfits,
		i.OtherExceptionalProfits,
	)
}

// Drawings maps a partner identifier to the amount drawn that month.
// New partners are new keys, not new columns.
type Drawings map[string]decimal.Decimal

// Total sums every partner's drawing.
func (d Drawings) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range d {
		total = total.Add(v)
	}
	return total
}

// Partners returns the partner identifiers in sorted order.
func (d Drawings) Partners() []string {
	out := make([]string, 0, len(d))
	for k := range d {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MonthlyEntry is an agency's bookkeeping for one month.
type MonthlyEntry struct {
	AgencyID  generic.AgencyID
	Period    generic.Period
	Income    Income
	Expenses  decimal.Decimal
	Drawings  Drawings
	Notes     string
	UpdatedAt time.Time
}

// TotalIncome sums the six income fields.
func (e MonthlyEntry) TotalIncome() decimal.Decimal {
	return e.Income.Total()
}

// Result is total income minus expenses. Drawings are not part of it.
func (e MonthlyEntry) Result() decimal.Decimal {
	return e.TotalIncome().Sub(e.Expenses)
}

// IsReported reports whether the month counts as a complete month.
// A zero result is treated as "not yet reported", even when income and
// expenses are both non-zero and cancel out.
func (e MonthlyEntry) IsReported() bool {
	return !e.Result().IsZero()
}

// Store persists monthly entries, one per (agency, year, month).
type Store interface {
	UpsertMonthlyEntry(ctx context.Context, e MonthlyEntry) error
	GetMonthlyEntry(ctx context.Context, agency generic.AgencyID, period generic.Period) (*MonthlyEntry, error)
	DeleteMonthlyEntry(ctx context.Context, agency generic.AgencyID, period generic.Period) error
	ListMonthlyEntries(ctx context.Context, agency generic.AgencyID, year int) ([]MonthlyEntry, error)
}
