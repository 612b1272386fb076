/*
eligibility.go - Period-wide gate turning potential commissions into real ones

PURPOSE:
  A salesperson's commissions for a month are only payable when the whole
  month clears three conditions. The verdict applies uniformly to every
  activity of the period; it is never a per-activity fact.

CONDITIONS (all must hold):
  1. Volume:     process acts (M3, early terminations) >= 15
  2. Mix:        non-auto NewBusiness / auto NewBusiness >= 200%
                 With zero auto contracts the ratio is reported as 100% and
                 the condition is satisfied.
  3. Commission: sum of potential commission of NewBusiness acts >= 200

RECOMPUTATION:
  The conditions are not monotonic: deleting a single auto contract can
  move the ratio either way. Evaluate must always receive the complete,
  current record set of the period. The API layer calls it on every read
  instead of storing a flag on each record.

SEE ALSO:
  - kpi.go: Aggregates the same counts for reporting
  - commission.go: Produces the potential commission summed in condition 3
*/
package commercial

import (
	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// THRESHOLDS
// =============================================================================

const (
	// MinProcessActs is the volume condition.
	MinProcessActs = 15
)

var (
	// MinNonAutoRatio is the mix condition, in percent.
	MinNonAutoRatio = decimal.NewFromInt(200)

	// MinPotentialCommission is the commission condition.
	MinPotentialCommission = generic.NewMoney(200)

	// zeroAutoRatio is the ratio reported when a period has no auto contract.
	zeroAutoRatio = decimal.NewFromInt(100)
)

// =============================================================================
// ELIGIBILITY
// =============================================================================

// Eligibility is the verdict for one salesperson's period, with each
// condition reported separately.
type Eligibility struct {
	ProcessCount     int
	AutoCount        int
	NonAutoCount     int
	Ratio            decimal.Decimal // percent
	PotentialTotal   decimal.Decimal
	VolumeMet        bool
	MixMet           bool
	CommissionMet    bool
	IsCommissionReal bool
}

// Evaluate checks the three conditions over a period's activities.
func Evaluate(activities []Activity) Eligibility {
	var e Eligibility
	e.PotentialTotal = decimal.Zero
	for _, a := range activities {
		switch {
		case a.ActType.IsProcess():
			e.ProcessCount++
		case a.IsAuto():
			e.AutoCount++
		case a.IsNonAuto():
			e.NonAutoCount++
		}
		e.PotentialTotal = e.PotentialTotal.Add(a.EffectiveCommission())
	}

	e.Ratio = mixRatio(e.NonAutoCount, e.AutoCount)
	e.VolumeMet = e.ProcessCount >= MinProcessActs
	e.MixMet = e.AutoCount == 0 || e.Ratio.GreaterThanOrEqual(MinNonAutoRatio)
	e.CommissionMet = e.PotentialTotal.GreaterThanOrEqual(MinPotentialCommission)
	e.IsCommissionReal = e.VolumeMet && e.MixMet && e.CommissionMet
	return e
}

// IsCommissionReal reports whether a period's commissions are payable.
func IsCommissionReal(activities []Activity) bool {
	return Evaluate(activities).IsCommissionReal
}

// RealCommission returns the payable commission of one activity given the
// period verdict.
func RealCommission(a Activity, eligible bool) decimal.Decimal {
	if !eligible {
		return decimal.Zero
	}
	return a.EffectiveCommission()
}

func mixRatio(nonAuto, auto int) decimal.Decimal {
	if auto == 0 {
		return zeroAutoRatio
	}
	return generic.Ratio(nonAuto, auto)
}
