package commercial_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/commission-engine/commercial"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var march = generic.NewPeriod(2025, time.March)

func money(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func newBusiness(product commercial.ProductType, premium int64) commercial.Activity {
	a := commercial.Activity{
		Period:        march,
		ActType:       commercial.ActNewBusiness,
		Product:       product,
		AnnualPremium: money(premium),
	}
	a.PotentialCommission = commercial.Rates[product].Apply(a.AnnualPremium)
	return a
}

func process(actType commercial.ActType) commercial.Activity {
	return commercial.Activity{Period: march, ActType: actType}
}

func processActs(n int) []commercial.Activity {
	types := []commercial.ActType{
		commercial.ActProcessM3,
		commercial.ActEarlyTerminationAuto,
		commercial.ActEarlyTerminationOther,
	}
	out := make([]commercial.Activity, n)
	for i := range out {
		out[i] = process(types[i%len(types)])
	}
	return out
}

// =============================================================================
// COMMISSION CALCULATOR TESTS
// =============================================================================

func TestComputeCommission_FlatRatesIgnorePremium(t *testing.T) {
	flat := map[commercial.ProductType]int64{
		commercial.ProductAutoMoto:         10,
		commercial.ProductPCPersonal:       20,
		commercial.ProductLegalProtection:  30,
		commercial.ProductGAV:              40,
		commercial.ProductHealthProvidence: 50,
		commercial.ProductNOP50:            10,
		commercial.ProductLifePP:           50,
	}

	for product, want := range flat {
		for _, premium := range []int64{0, 1, 999, 1000, 250000} {
			got, err := commercial.ComputeCommission(product, money(premium))
			require.NoError(t, err)
			assert.True(t, got.Equal(money(want)),
				"%s with premium %d: expected %d, got %s", product, premium, want, got)
		}
	}
}

func TestComputeCommission_PCProfessionalTranches(t *testing.T) {
	tests := []struct {
		premium string
		want    int64
	}{
		{"0", 20},
		{"500", 20},
		{"999", 20},
		{"1000", 30},
		{"1999", 30},
		{"2000", 40},
		{"2999", 40},
		{"3000", 50},
		{"10000", 110},
	}

	for _, tt := range tests {
		t.Run(tt.premium, func(t *testing.T) {
			got, err := commercial.ComputeCommission(commercial.ProductPCProfessional, generic.MustParseDecimal(tt.premium))
			require.NoError(t, err)
			assert.True(t, got.Equal(money(tt.want)), "expected %d, got %s", tt.want, got)
		})
	}
}

func TestComputeCommission_LifeLumpSumIsOnePercentRounded(t *testing.T) {
	tests := []struct {
		premium string
		want    int64
	}{
		{"10000", 100},
		{"0", 0},
		{"1249", 12},
		{"1250", 13},
		{"6700", 67},
	}

	for _, tt := range tests {
		t.Run(tt.premium, func(t *testing.T) {
			got, err := commercial.ComputeCommission(commercial.ProductLifeLumpSum, generic.MustParseDecimal(tt.premium))
			require.NoError(t, err)
			assert.True(t, got.Equal(money(tt.want)), "expected %d, got %s", tt.want, got)
		})
	}
}

func TestComputeCommission_EmptyProductIsZero(t *testing.T) {
	got, err := commercial.ComputeCommission("", money(5000))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestComputeCommission_UnknownProductIsInvalidInput(t *testing.T) {
	_, err := commercial.ComputeCommission("yacht", money(5000))
	require.Error(t, err)
	assert.True(t, errors.Is(err, generic.ErrUnknownProduct))

	var inputErr *generic.InvalidInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "product_type", inputErr.Field)
}

func TestRecompute_ProcessActIsNormalised(t *testing.T) {
	// GIVEN: A process act carrying leftover product data
	a := commercial.Activity{
		ActType:             commercial.ActProcessM3,
		Product:             commercial.ProductGAV,
		Company:             "Acme",
		AnnualPremium:       money(900),
		PotentialCommission: money(40),
	}

	// WHEN: Recomputing derived fields
	require.NoError(t, commercial.Recompute(&a))

	// THEN: Product dimension is cleared and commission is zero
	assert.Empty(t, a.Product)
	assert.Empty(t, a.Company)
	assert.True(t, a.AnnualPremium.IsZero())
	assert.True(t, a.PotentialCommission.IsZero())
}

func TestRecompute_NewBusinessFollowsPremium(t *testing.T) {
	a := newBusiness(commercial.ProductPCProfessional, 999)
	assert.True(t, a.PotentialCommission.Equal(money(20)))

	a.AnnualPremium = money(2500)
	require.NoError(t, commercial.Recompute(&a))
	assert.True(t, a.PotentialCommission.Equal(money(40)))
}

// =============================================================================
// ELIGIBILITY TESTS
// =============================================================================

func TestEvaluate_AllConditionsMetWithZeroAuto(t *testing.T) {
	// GIVEN: 15 process acts, no auto contract, 3 non-auto acts of 70 each
	acts := processActs(15)
	for i := 0; i < 3; i++ {
		acts = append(acts, newBusiness(commercial.ProductPCProfessional, 5000))
	}

	// WHEN: Evaluating the period
	e := commercial.Evaluate(acts)

	// THEN: Commissions are real; ratio is reported as 100%
	assert.True(t, e.IsCommissionReal)
	assert.True(t, e.VolumeMet)
	assert.True(t, e.MixMet)
	assert.True(t, e.CommissionMet)
	assert.True(t, e.Ratio.Equal(money(100)), "got ratio %s", e.Ratio)
	assert.True(t, e.PotentialTotal.Equal(money(210)))
	assert.True(t, commercial.IsCommissionReal(acts))
}

func TestEvaluate_CommissionBelowThresholdFails(t *testing.T) {
	// GIVEN: 50 process acts, ratio 500%, but potential total 199
	acts := processActs(50)
	acts = append(acts, newBusiness(commercial.ProductAutoMoto, 0)) // 10
	acts = append(acts, newBusiness(commercial.ProductLifeLumpSum, 3900),
		newBusiness(commercial.ProductLifeLumpSum, 3900),
		newBusiness(commercial.ProductLifeLumpSum, 3900),
		newBusiness(commercial.ProductLifeLumpSum, 3900),
		newBusiness(commercial.ProductLifeLumpSum, 3300)) // 39*4 + 33 = 189

	e := commercial.Evaluate(acts)

	assert.True(t, e.VolumeMet)
	assert.True(t, e.MixMet)
	assert.True(t, e.Ratio.Equal(money(500)), "got ratio %s", e.Ratio)
	assert.True(t, e.PotentialTotal.Equal(money(199)), "got total %s", e.PotentialTotal)
	assert.False(t, e.CommissionMet)
	assert.False(t, e.IsCommissionReal)
}

func TestEvaluate_VolumeBelowThresholdFails(t *testing.T) {
	acts := processActs(14)
	for i := 0; i < 10; i++ {
		acts = append(acts, newBusiness(commercial.ProductLifePP, 0))
	}

	e := commercial.Evaluate(acts)

	assert.False(t, e.VolumeMet)
	assert.True(t, e.MixMet)
	assert.True(t, e.CommissionMet)
	assert.False(t, e.IsCommissionReal)
}

func TestEvaluate_MixBoundary(t *testing.T) {
	// 2 auto, 4 non-auto -> exactly 200%
	acts := processActs(15)
	acts = append(acts,
		newBusiness(commercial.ProductAutoMoto, 0),
		newBusiness(commercial.ProductAutoMoto, 0),
	)
	for i := 0; i < 4; i++ {
		acts = append(acts, newBusiness(commercial.ProductLifePP, 0))
	}

	e := commercial.Evaluate(acts)
	assert.True(t, e.Ratio.Equal(money(200)))
	assert.True(t, e.MixMet)
	assert.True(t, e.IsCommissionReal)

	// Adding a third auto contract drops the ratio to 133%
	acts = append(acts, newBusiness(commercial.ProductAutoMoto, 0))
	e = commercial.Evaluate(acts)
	assert.False(t, e.MixMet)
	assert.False(t, e.IsCommissionReal)
}

func TestEvaluate_DeletingAutoCanFlipVerdictEitherWay(t *testing.T) {
	// GIVEN: 3 auto + 4 non-auto -> ratio 133%, fails mix
	auto := newBusiness(commercial.ProductAutoMoto, 0)
	acts := processActs(15)
	acts = append(acts, newBusiness(commercial.ProductHealthProvidence, 0),
		newBusiness(commercial.ProductHealthProvidence, 0),
		newBusiness(commercial.ProductHealthProvidence, 0),
		newBusiness(commercial.ProductHealthProvidence, 0))
	withAuto := append(append([]commercial.Activity{}, acts...), auto, auto, auto)

	assert.False(t, commercial.IsCommissionReal(withAuto), "4 non-auto vs 3 auto is below 200%")

	// WHEN: The auto contracts are deleted
	// THEN: Zero auto contracts satisfy the mix condition
	assert.True(t, commercial.IsCommissionReal(acts))
}

func TestEvaluate_ProcessActsIgnoreStalePremium(t *testing.T) {
	// A process act with a stray commission must not count toward condition 3
	acts := processActs(15)
	stale := process(commercial.ActProcessM3)
	stale.PotentialCommission = money(500)
	acts = append(acts, stale)

	e := commercial.Evaluate(acts)
	assert.True(t, e.PotentialTotal.IsZero())
	assert.False(t, e.IsCommissionReal)
}

func TestRealCommission(t *testing.T) {
	a := newBusiness(commercial.ProductGAV, 0)
	assert.True(t, commercial.RealCommission(a, true).Equal(money(40)))
	assert.True(t, commercial.RealCommission(a, false).IsZero())
}

// =============================================================================
// KPI TESTS
// =============================================================================

func TestAggregate_EmptyInputIsAllZero(t *testing.T) {
	kpi := commercial.Aggregate(nil)

	assert.Zero(t, kpi.TotalCount)
	assert.Zero(t, kpi.AutoCount)
	assert.Zero(t, kpi.NonAutoCount)
	assert.Zero(t, kpi.ProcessCount)
	assert.True(t, kpi.TotalPremium.IsZero())
	assert.True(t, kpi.Ratio.IsZero(), "no data means ratio 0, not 100")
	assert.True(t, kpi.PotentialTotal.IsZero())
	assert.True(t, kpi.RealTotal.IsZero())
	assert.False(t, kpi.Eligibility.IsCommissionReal)
}

func TestAggregate_ProcessOnlyReportsHundredPercent(t *testing.T) {
	kpi := commercial.Aggregate(processActs(3))

	assert.Equal(t, 3, kpi.TotalCount)
	assert.Equal(t, 3, kpi.ProcessCount)
	assert.True(t, kpi.Ratio.Equal(money(100)))
}

func TestAggregate_Totals(t *testing.T) {
	acts := processActs(16)
	acts = append(acts,
		newBusiness(commercial.ProductAutoMoto, 600),
		newBusiness(commercial.ProductPCProfessional, 2500),
		newBusiness(commercial.ProductLifeLumpSum, 12000),
		newBusiness(commercial.ProductLegalProtection, 300),
	)

	kpi := commercial.Aggregate(acts)

	assert.Equal(t, 20, kpi.TotalCount)
	assert.Equal(t, 1, kpi.AutoCount)
	assert.Equal(t, 3, kpi.NonAutoCount)
	assert.Equal(t, 16, kpi.ProcessCount)
	assert.True(t, kpi.Ratio.Equal(money(300)))
	assert.True(t, kpi.TotalPremium.Equal(money(15400)))
	// 10 + 40 + 120 + 30
	assert.True(t, kpi.PotentialTotal.Equal(money(200)))
	assert.True(t, kpi.RealTotal.Equal(money(200)))
	assert.Equal(t, 1, kpi.CountByProduct[commercial.ProductLifeLumpSum])
	assert.Equal(t, 4, kpi.CountByActType[commercial.ActNewBusiness])
}

func TestAggregate_RealTotalZeroWhenIneligible(t *testing.T) {
	acts := []commercial.Activity{newBusiness(commercial.ProductLifeLumpSum, 50000)}

	kpi := commercial.Aggregate(acts)

	assert.True(t, kpi.PotentialTotal.Equal(money(500)))
	assert.True(t, kpi.RealTotal.IsZero())
}

func TestAggregate_OrderIndependent(t *testing.T) {
	acts := processActs(15)
	acts = append(acts,
		newBusiness(commercial.ProductAutoMoto, 0),
		newBusiness(commercial.ProductLifeLumpSum, 20000),
		newBusiness(commercial.ProductGAV, 0),
	)
	reversed := make([]commercial.Activity, len(acts))
	for i, a := range acts {
		reversed[len(acts)-1-i] = a
	}

	a, b := commercial.Aggregate(acts), commercial.Aggregate(reversed)
	assert.Equal(t, a.TotalCount, b.TotalCount)
	assert.True(t, a.Ratio.Equal(b.Ratio))
	assert.True(t, a.RealTotal.Equal(b.RealTotal))
	assert.Equal(t, a.Eligibility.IsCommissionReal, b.Eligibility.IsCommissionReal)
}

func TestYearly_MonthsEvaluatedIndependently(t *testing.T) {
	// GIVEN: March qualifies, April only has the big sale
	acts := processActs(15)
	for i := 0; i < 3; i++ {
		acts = append(acts, newBusiness(commercial.ProductPCProfessional, 5000))
	}
	april := newBusiness(commercial.ProductLifeLumpSum, 100000)
	april.Period = generic.NewPeriod(2025, time.April)
	acts = append(acts, april)

	other := newBusiness(commercial.ProductGAV, 0)
	other.Period = generic.NewPeriod(2024, time.December)
	acts = append(acts, other)

	y := commercial.Yearly(acts, 2025)

	require.Len(t, y.Months, 12)
	assert.Equal(t, 1, y.EligibleMonths)
	assert.True(t, y.Months[2].KPI.Eligibility.IsCommissionReal)
	assert.False(t, y.Months[3].KPI.Eligibility.IsCommissionReal)
	assert.True(t, y.PotentialTotal.Equal(money(1210)))
	assert.True(t, y.RealTotal.Equal(money(210)))
}

func TestParseHelpers(t *testing.T) {
	p, err := commercial.ParseProduct("")
	require.NoError(t, err)
	assert.Empty(t, p)

	p, err = commercial.ParseProduct("nop50")
	require.NoError(t, err)
	assert.Equal(t, commercial.ProductNOP50, p)

	_, err = commercial.ParseActType("renewal")
	assert.True(t, errors.Is(err, generic.ErrUnknownActType))

	a, err := commercial.ParseActType("early_termination_auto")
	require.NoError(t, err)
	assert.True(t, a.IsProcess())
}
