package health

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// PeriodSummary is the reporting view of a salesperson's health month.
type PeriodSummary struct {
	TotalCount     int
	CountByActType map[ActType]int
	TotalPremium   decimal.Decimal
	Commission     Commission
}

// Summarize reduces a period's health acts. It must receive the complete
// period record set.
func Summarize(activities []Activity) PeriodSummary {
	s := PeriodSummary{
		CountByActType: make(map[ActType]int),
		TotalPremium:   decimal.Zero,
	}
	weighted := decimal.Zero
	for _, a := range activities {
		s.TotalCount++
		s.CountByActType[a.ActType]++
		s.TotalPremium = s.TotalPremium.Add(a.AnnualPremium)
		weighted = weighted.Add(a.WeightedPremium)
	}
	s.Commission = ComputeCommission(weighted, s.CountByActType[ActRevision])
	return s
}

// Store persists health-individual acts.
type Store interface {
	SaveHealth(ctx context.Context, a Activity) error
	GetHealth(ctx context.Context, id generic.RecordID) (*Activity, error)
	DeleteHealth(ctx context.Context, id generic.RecordID) error
	ListHealthByPeriod(ctx context.Context, salesperson generic.SalespersonID, period generic.Period) ([]Activity, error)
}
