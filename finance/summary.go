package finance

import (
	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// MonthRow is one line of the yearly table.
type MonthRow struct {
	Period      generic.Period
	Present     bool
	Complete    bool
	TotalIncome decimal.Decimal
	Expenses    decimal.Decimal
	Result      decimal.Decimal
	Drawings    decimal.Decimal
}

// YearSummary is the agency's year at a glance.
//
// Totals cover every present month, reported or not. Only the Projection
// applies the complete-month rule.
type YearSummary struct {
	Year              int
	Months            []MonthRow
	TotalIncome       decimal.Decimal
	TotalExpenses     decimal.Decimal
	TotalResult       decimal.Decimal
	TotalDrawings     decimal.Decimal
	DrawingsByPartner map[string]decimal.Decimal
	Projection        Projection
}

// Summarize builds the yearly table and projection for year.
func Summarize(entries []MonthlyEntry, year int) YearSummary {
	slots := Slots(entries, year)
	s := YearSummary{
		Year:              year,
		TotalIncome:       decimal.Zero,
		TotalExpenses:     decimal.Zero,
		TotalResult:       decimal.Zero,
		TotalDrawings:     decimal.Zero,
		DrawingsByPartner: make(map[string]decimal.Decimal),
		Projection:        ProjectSlots(slots, year),
	}
	for i, p := range generic.MonthsOf(year) {
		row := MonthRow{
			Period:      p,
			TotalIncome: decimal.Zero,
			Expenses:    decimal.Zero,
			Result:      decimal.Zero,
			Drawings:    decimal.Zero,
		}
		if e := slots[i]; e != nil {
			row.Present = true
			row.Complete = e.IsReported()
			row.TotalIncome = e.TotalIncome()
			row.Expenses = e.Expenses
			row.Result = e.Result()
			row.Drawings = e.Drawings.Total()

			s.TotalIncome = s.TotalIncome.Add(row.TotalIncome)
			s.TotalExpenses = s.TotalExpenses.Add(row.Expenses)
			s.TotalResult = s.TotalResult.Add(row.Result)
			s.TotalDrawings = s.TotalDrawings.Add(row.Drawings)
			for partner, amount := range e.Drawings {
				prev, ok := s.DrawingsByPartner[partner]
				if !ok {
					prev = decimal.Zero
				}
				s.DrawingsByPartner[partner] = prev.Add(amount)
			}
		}
		s.Months = append(s.Months, row)
	}
	return s
}
