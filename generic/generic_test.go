package generic_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// PERIOD TESTS
// =============================================================================

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    generic.Period
		wantErr bool
	}{
		{"2025-03", generic.NewPeriod(2025, time.March), false},
		{"2025-12", generic.NewPeriod(2025, time.December), false},
		{"2025-13", generic.Period{}, true},
		{"2025-3", generic.Period{}, true},
		{"03-2025", generic.Period{}, true},
		{"", generic.Period{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := generic.ParsePeriod(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
				assert.True(t, generic.IsClientError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestPeriod_Navigation(t *testing.T) {
	dec := generic.NewPeriod(2024, time.December)
	jan := generic.NewPeriod(2025, time.January)

	assert.Equal(t, jan, dec.Next())
	assert.Equal(t, generic.NewPeriod(2025, time.February), jan.Next())
	assert.True(t, dec.Before(jan))
	assert.False(t, jan.Before(dec))
	assert.False(t, jan.Before(jan))
}

func TestPeriod_Valid(t *testing.T) {
	assert.True(t, generic.NewPeriod(2025, time.June).Valid())
	assert.False(t, generic.NewPeriod(2025, 0).Valid())
	assert.False(t, generic.NewPeriod(2025, 13).Valid())
	assert.False(t, generic.Period{}.Valid())
}

func TestMonthsOf(t *testing.T) {
	months := generic.MonthsOf(2025)

	require.Len(t, months, 12)
	assert.Equal(t, "2025-01", months[0].String())
	assert.Equal(t, "2025-12", months[11].String())
	for i := 1; i < len(months); i++ {
		assert.True(t, months[i-1].Before(months[i]))
	}
}

// =============================================================================
// MONEY TESTS
// =============================================================================

func TestRoundCurrency_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "3", generic.RoundCurrency(generic.MustParseDecimal("2.5")).String())
	assert.Equal(t, "2", generic.RoundCurrency(generic.MustParseDecimal("2.49")).String())
	assert.Equal(t, "80", generic.RoundCurrency(generic.MustParseDecimal("8000").Mul(generic.Percent(1))).String())
}

func TestMustParseDecimal(t *testing.T) {
	assert.Equal(t, "0.75", generic.MustParseDecimal("0.75").String())
	assert.Panics(t, func() { generic.MustParseDecimal("1,00") })
	assert.Panics(t, func() { generic.MustParseDecimal("") })
}

func TestRatio(t *testing.T) {
	assert.True(t, generic.Ratio(4, 2).Equal(generic.NewMoney(200)))
	assert.Equal(t, "133.33", generic.Ratio(4, 3).StringFixed(2))
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestErrorClassification(t *testing.T) {
	invalid := &generic.InvalidInputError{Field: "product_type", Value: "boat", Err: generic.ErrUnknownProduct}
	missing := &generic.NotFoundError{Kind: "commercial", ID: "a-1"}
	missingSP := &generic.NotFoundError{Kind: "salesperson", ID: "sp-1", Err: generic.ErrSalespersonNotFound}
	wrapped := fmt.Errorf("create: %w", invalid)

	assert.True(t, generic.IsClientError(invalid))
	assert.True(t, generic.IsClientError(wrapped))
	assert.False(t, generic.IsNotFound(invalid))

	assert.True(t, generic.IsNotFound(missing))
	assert.ErrorIs(t, missing, generic.ErrRecordNotFound)
	assert.True(t, generic.IsNotFound(missingSP))
	assert.ErrorIs(t, missingSP, generic.ErrSalespersonNotFound)
	assert.False(t, generic.IsClientError(missing))

	assert.False(t, generic.IsClientError(errors.New("disk full")))
	assert.False(t, generic.IsNotFound(errors.New("disk full")))

	assert.Contains(t, invalid.Error(), `"boat"`)
	assert.Equal(t, "commercial a-1 not found", missing.Error())
}

// =============================================================================
// CLOCK AND AUDIT TESTS
// =============================================================================

func TestFixedClock(t *testing.T) {
	start := time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)
	c := generic.NewFixedClock(start)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, "2025-03", generic.CurrentPeriod(c).String())

	c.Set(start.Add(2 * time.Hour))
	assert.Equal(t, "2025-04", generic.CurrentPeriod(c).String())
}

func TestAuditFilter_Matches(t *testing.T) {
	e := generic.AuditEntry{Kind: "commercial", RecordID: "a-1", Action: generic.AuditDeleted}

	assert.True(t, generic.AuditFilter{}.Matches(e))
	assert.True(t, generic.AuditFilter{Kind: "commercial"}.Matches(e))
	assert.False(t, generic.AuditFilter{Kind: "health"}.Matches(e))
	assert.False(t, generic.AuditFilter{RecordID: "a-2"}.Matches(e))
	assert.True(t, generic.AuditFilter{Actions: []generic.AuditAction{generic.AuditCreated, generic.AuditDeleted}}.Matches(e))
	assert.False(t, generic.AuditFilter{Actions: []generic.AuditAction{generic.AuditUpdated}}.Matches(e))
}
