/*
projection.go - Full-year estimate from a partial year of entries

PURPOSE:
  Projects the agency's yearly income from the months that have genuinely
  been reported so far.

MONTH CLASSIFICATION:
  missing     no entry for the slot          -> excluded
  unreported  entry whose result == 0        -> excluded
  complete    entry whose result != 0        -> included

  An untouched month defaults to all-zero fields, which also nets to zero.
  A real month whose income and expenses happen to cancel is therefore
  indistinguishable from an empty one and is excluded as well. This policy
  is kept as-is; see DESIGN.md.

FORMULA:
  complete == 0  -> extrapolated = 0
  otherwise      -> extrapolated = (sum of total income over complete) / complete * 12

SEE ALSO:
  - types.go: MonthlyEntry.IsReported
  - summary.go: Yearly totals built on top of the projection
*/
package finance

import (
	"github.com/shopspring/decimal"
)

const monthsPerYear = 12

var twelve = decimal.NewFromInt(monthsPerYear)

// Projection is the yearly extrapolation result.
type Projection struct {
	Year              int
	CompleteMonths    int
	IncludedIncome    decimal.Decimal
	AverageIncome     decimal.Decimal
	ExtrapolatedTotal decimal.Decimal
}

// Slots places entries of year into their month slot (index 0 = January).
// Entries of other years are ignored. When two entries share a month the
// later one in the slice wins.
func Slots(entries []MonthlyEntry, year int) [monthsPerYear]*MonthlyEntry {
	var slots [monthsPerYear]*MonthlyEntry
	for i := range entries {
		e := entries[i]
		if e.Period.Year != year || !e.Period.Valid() {
			continue
		}
		slots[int(e.Period.Month)-1] = &e
	}
	return slots
}

// Project extrapolates a full year of income from the complete months.
func Project(entries []MonthlyEntry, year int) Projection {
	return ProjectSlots(Slots(entries, year), year)
}

// ProjectSlots is Project over pre-slotted months. Nil slots are missing.
func ProjectSlots(slots [monthsPerYear]*MonthlyEntry, year int) Projection {
	p := Projection{
		Year:              year,
		IncludedIncome:    decimal.Zero,
		AverageIncome:     decimal.Zero,
		ExtrapolatedTotal: decimal.Zero,
	}
	for _, e := range slots {
		if e == nil || !e.IsReported() {
			continue
		}
		p.CompleteMonths++
		p.IncludedIncome = p.IncludedIncome.Add(e.TotalIncome())
	}
	if p.CompleteMonths == 0 {
		return p
	}
	p.AverageIncome = p.IncludedIncome.Div(decimal.NewFromInt(int64(p.CompleteMonths)))
	p.ExtrapolatedTotal = p.AverageIncome.Mul(twelve)
	if p.CompleteMonths == monthsPerYear {
		// exact when no month is extrapolated
		p.ExtrapolatedTotal = p.IncludedIncome
	}
	return p
}
