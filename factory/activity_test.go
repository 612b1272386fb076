package factory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/commission-engine/commercial"
	"github.com/warp/commission-engine/factory"
	"github.com/warp/commission-engine/generic"
	"github.com/warp/commission-engine/health"
)

func newFactory(t *testing.T) (*factory.RecordFactory, *generic.FixedClock) {
	clock := generic.NewFixedClock(time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC))
	f := factory.NewRecordFactory(clock)
	n := 0
	f.NewID = func() string {
		n++
		return "rec-" + string(rune('0'+n))
	}
	return f, clock
}

func dec(s string) *decimal.Decimal {
	d := generic.MustParseDecimal(s)
	return &d
}

func TestNewCommercial_StampsPeriodFromClock(t *testing.T) {
	// GIVEN: A contract effective in January entered on March 14
	f, _ := newFactory(t)

	a, err := f.NewCommercial("sp-1", factory.CommercialInput{
		ActType:       "new_business",
		ProductType:   "pc_professional",
		Company:       " Allianz ",
		EffectiveDate: "2025-01-05",
		AnnualPremium: dec("2000"),
	})
	require.NoError(t, err)

	// THEN: The period is the entry month, not the effective month
	assert.Equal(t, generic.NewPeriod(2025, time.March), a.Period)
	assert.Equal(t, time.January, a.EffectiveDate.Month())
	assert.Equal(t, generic.RecordID("rec-1"), a.ID)
	assert.Equal(t, "Allianz", a.Company)
	assert.True(t, a.PotentialCommission.Equal(decimal.NewFromInt(40)))
}

func TestNewCommercial_ProcessActDropsProductDimension(t *testing.T) {
	f, _ := newFactory(t)

	a, err := f.NewCommercial("sp-1", factory.CommercialInput{
		ActType:       "process_m3",
		ProductType:   "gav",
		AnnualPremium: dec("800"),
	})
	require.NoError(t, err)

	assert.Empty(t, a.Product)
	assert.True(t, a.AnnualPremium.IsZero())
	assert.True(t, a.PotentialCommission.IsZero())
}

func TestNewCommercial_RejectsBadInput(t *testing.T) {
	f, _ := newFactory(t)

	tests := []struct {
		name string
		in   factory.CommercialInput
		want error
	}{
		{"unknown act", factory.CommercialInput{ActType: "renewal"}, generic.ErrUnknownActType},
		{"unknown product", factory.CommercialInput{ActType: "new_business", ProductType: "boat"}, generic.ErrUnknownProduct},
		{"new business without product", factory.CommercialInput{ActType: "new_business", AnnualPremium: dec("5000")}, generic.ErrUnknownProduct},
		{"negative premium", factory.CommercialInput{ActType: "new_business", ProductType: "gav", AnnualPremium: dec("-1")}, generic.ErrNegativeAmount},
		{"bad date", factory.CommercialInput{ActType: "new_business", ProductType: "gav", EffectiveDate: "14/03/2025"}, generic.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.NewCommercial("sp-1", tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.True(t, generic.IsClientError(err))
		})
	}
}

func TestApplyCommercialUpdate_RecomputesAndKeepsPeriod(t *testing.T) {
	// GIVEN: An activity created in March
	f, clock := newFactory(t)
	a, err := f.NewCommercial("sp-1", factory.CommercialInput{
		ActType:       "new_business",
		ProductType:   "life_lump_sum",
		AnnualPremium: dec("10000"),
	})
	require.NoError(t, err)
	require.True(t, a.PotentialCommission.Equal(decimal.NewFromInt(100)))

	// WHEN: It is edited in April
	clock.Set(time.Date(2025, time.April, 2, 9, 0, 0, 0, time.UTC))
	updated, err := f.ApplyCommercialUpdate(a, factory.CommercialInput{AnnualPremium: dec("25000")})
	require.NoError(t, err)

	// THEN: Commission follows the premium, period stays in March
	assert.True(t, updated.PotentialCommission.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, generic.NewPeriod(2025, time.March), updated.Period)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	// WHEN: The product changes
	updated, err = f.ApplyCommercialUpdate(updated, factory.CommercialInput{ProductType: "legal_protection"})
	require.NoError(t, err)
	assert.Equal(t, commercial.ProductLegalProtection, updated.Product)
	assert.True(t, updated.PotentialCommission.Equal(decimal.NewFromInt(30)))
}

func TestApplyCommercialUpdate_NewBusinessNeedsProduct(t *testing.T) {
	// GIVEN: A process act, which carries no product
	f, _ := newFactory(t)
	a, err := f.NewCommercial("sp-1", factory.CommercialInput{ActType: "process_m3"})
	require.NoError(t, err)
	require.Empty(t, a.Product)

	// WHEN: It is turned into new business without naming a product
	_, err = f.ApplyCommercialUpdate(a, factory.CommercialInput{ActType: "new_business", AnnualPremium: dec("5000")})

	// THEN: The update is rejected
	require.Error(t, err)
	assert.True(t, errors.Is(err, generic.ErrUnknownProduct), "got %v", err)

	// WHEN: The product is supplied with the act type
	updated, err := f.ApplyCommercialUpdate(a, factory.CommercialInput{ActType: "new_business", ProductType: "gav", AnnualPremium: dec("900")})

	// THEN: It becomes a non-auto contract with its commission
	require.NoError(t, err)
	assert.True(t, updated.IsNonAuto())
	assert.True(t, updated.PotentialCommission.Equal(decimal.NewFromInt(40)))
}

func TestNewHealth_WeightsPremium(t *testing.T) {
	f, _ := newFactory(t)

	a, err := f.NewHealth("sp-1", factory.HealthInput{
		ActType:       "broker_to_direct",
		AnnualPremium: dec("1200"),
	})
	require.NoError(t, err)

	assert.Equal(t, health.ActBrokerToDirect, a.ActType)
	assert.True(t, a.WeightedPremium.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, generic.NewPeriod(2025, time.March), a.Period)

	updated, err := f.ApplyHealthUpdate(a, factory.HealthInput{ActType: "revision"})
	require.NoError(t, err)
	assert.True(t, updated.WeightedPremium.Equal(decimal.NewFromInt(600)))
}

func TestNewMonthlyEntry_Validation(t *testing.T) {
	f, _ := newFactory(t)
	period := generic.NewPeriod(2025, time.February)

	e, err := f.NewMonthlyEntry("main", period, factory.MonthlyEntryInput{
		PCCommissions: decimal.NewFromInt(1000),
		Expenses:      decimal.NewFromInt(400),
		Drawings: map[string]decimal.Decimal{
			"alice": decimal.NewFromInt(200),
			"  ":    decimal.NewFromInt(50),
		},
	})
	require.NoError(t, err)
	assert.True(t, e.Result().Equal(decimal.NewFromInt(600)))
	assert.Len(t, e.Drawings, 1)

	_, err = f.NewMonthlyEntry("main", period, factory.MonthlyEntryInput{Expenses: decimal.NewFromInt(-5)})
	assert.True(t, errors.Is(err, generic.ErrNegativeAmount))

	_, err = f.NewMonthlyEntry("main", generic.Period{Year: 2025, Month: 13}, factory.MonthlyEntryInput{})
	assert.True(t, errors.Is(err, generic.ErrInvalidPeriod))
}
