package commercial

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// KPI AGGREGATOR - Reporting totals for one period
// =============================================================================

// KPI is the reporting reduction of a period's activities.
//
// Ratio is 0 when there are no activities at all, and 100 when there are
// activities but no auto contract. The two cases must not be conflated.
type KPI struct {
	TotalPremium   decimal.Decimal
	TotalCount     int
	AutoCount      int
	NonAutoCount   int
	Ratio          decimal.Decimal
	ProcessCount   int
	PotentialTotal decimal.Decimal
	RealTotal      decimal.Decimal
	CountByActType map[ActType]int
	CountByProduct map[ProductType]int
	Eligibility    Eligibility
}

// Aggregate reduces activities into a KPI. Order-independent.
func Aggregate(activities []Activity) KPI {
	kpi := KPI{
		TotalPremium:   decimal.Zero,
		Ratio:          decimal.Zero,
		PotentialTotal: decimal.Zero,
		RealTotal:      decimal.Zero,
		CountByActType: make(map[ActType]int),
		CountByProduct: make(map[ProductType]int),
	}
	if len(activities) == 0 {
		kpi.Eligibility = Evaluate(nil)
		kpi.Eligibility.Ratio = decimal.Zero
		return kpi
	}

	for _, a := range activities {
		kpi.TotalCount++
		kpi.CountByActType[a.ActType]++
		kpi.TotalPremium = kpi.TotalPremium.Add(a.EffectivePremium())
		if a.IsNewBusiness() && a.Product != "" {
			kpi.CountByProduct[a.Product]++
		}
	}

	e := Evaluate(activities)
	kpi.Eligibility = e
	kpi.AutoCount = e.AutoCount
	kpi.NonAutoCount = e.NonAutoCount
	kpi.ProcessCount = e.ProcessCount
	kpi.Ratio = e.Ratio
	kpi.PotentialTotal = e.PotentialTotal
	if e.IsCommissionReal {
		kpi.RealTotal = e.PotentialTotal
	}
	return kpi
}

// Summarize is Aggregate for one salesperson's period record set.
func Summarize(activities []Activity) KPI {
	return Aggregate(activities)
}

// =============================================================================
// YEARLY VIEW - Each month evaluated on its own record set
// =============================================================================

// MonthKPI pairs a period with its KPI.
type MonthKPI struct {
	Period generic.Period
	KPI    KPI
}

// YearKPI is the per-month breakdown of a calendar year plus totals.
// Eligibility is never computed across months.
type YearKPI struct {
	Year           int
	Months         []MonthKPI
	TotalPremium   decimal.Decimal
	PotentialTotal decimal.Decimal
	RealTotal      decimal.Decimal
	EligibleMonths int
}

// Yearly groups activities by period and aggregates each month of year.
// Activities outside the year are ignored.
func Yearly(activities []Activity, year int) YearKPI {
	byPeriod := GroupByPeriod(activities)
	out := YearKPI{
		Year:           year,
		TotalPremium:   decimal.Zero,
		PotentialTotal: decimal.Zero,
		RealTotal:      decimal.Zero,
	}
	for _, p := range generic.MonthsOf(year) {
		kpi := Aggregate(byPeriod[p])
		out.Months = append(out.Months, MonthKPI{Period: p, KPI: kpi})
		out.TotalPremium = out.TotalPremium.Add(kpi.TotalPremium)
		out.PotentialTotal = out.PotentialTotal.Add(kpi.PotentialTotal)
		out.RealTotal = out.RealTotal.Add(kpi.RealTotal)
		if kpi.TotalCount > 0 && kpi.Eligibility.IsCommissionReal {
			out.EligibleMonths++
		}
	}
	return out
}

// GroupByPeriod buckets activities by their period key.
func GroupByPeriod(activities []Activity) map[generic.Period][]Activity {
	out := make(map[generic.Period][]Activity)
	for _, a := range activities {
		out[a.Period] = append(out[a.Period], a)
	}
	return out
}

// SortByCreation orders activities oldest first, ties broken by ID.
func SortByCreation(activities []Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		if activities[i].CreatedAt.Equal(activities[j].CreatedAt) {
			return activities[i].ID < activities[j].ID
		}
		return activities[i].CreatedAt.Before(activities[j].CreatedAt)
	})
}
