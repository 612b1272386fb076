package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/commission-engine/api"
	"github.com/warp/commission-engine/finance"
	"github.com/warp/commission-engine/generic"
)

func entry(month int, income, expenses int64) finance.MonthlyEntry {
	return finance.MonthlyEntry{
		AgencyID: "main",
		Period:   generic.NewPeriod(2025, time.Month(month)),
		Income:   finance.Income{PCCommissions: generic.NewMoney(income)},
		Expenses: generic.NewMoney(expenses),
		Drawings: finance.Drawings{"alice": generic.NewMoney(1000)},
	}
}

func TestFormatYearSummary(t *testing.T) {
	// GIVEN: Two reported months and one breaking even
	entries := []finance.MonthlyEntry{
		entry(1, 20000, 15000),
		entry(2, 22000, 15000),
		entry(3, 10000, 10000),
	}

	// WHEN: Formatting the year
	var buf bytes.Buffer
	formatYearSummary(&buf, "main", finance.Summarize(entries, 2025))

	// THEN: The table marks March excluded and the projection uses two months
	out := buf.String()
	assert.Contains(t, out, "Agency main, 2025")
	assert.Contains(t, out, "MONTH")
	assert.Contains(t, out, "2025-01")
	assert.Contains(t, out, "20000.00")
	assert.Contains(t, out, "no")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "52000.00")
	assert.Contains(t, out, "Complete months:    2")
	assert.Contains(t, out, "Average income:     21000.00")
	assert.Contains(t, out, "Projected for year: 252000.00")
}

func TestProjectYear(t *testing.T) {
	clock := generic.NewFixedClock(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC))

	assert.Equal(t, 2026, projectYear(0, clock))
	assert.Equal(t, 2024, projectYear(2024, clock))
}

func TestFormatScenarioList(t *testing.T) {
	list, err := api.Scenarios()
	require.NoError(t, err)

	var buf bytes.Buffer
	formatScenarioList(&buf, list)

	out := buf.String()
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "eligible-month")
	assert.Contains(t, out, "partial-year")
	assert.Contains(t, out, "finance")
}
