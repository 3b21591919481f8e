package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSalaryBreakdownStandardPlan(t *testing.T) {
	t.Parallel()

	svc := &SalaryService{}

	rows, err := svc.Breakdown(600000)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	require.Equal(t, "Basic", rows[0].Component)
	require.Equal(t, int64(300000), rows[0].Annual)
	require.Equal(t, int64(25000), rows[0].Monthly)

	require.Equal(t, "HRA", rows[1].Component)
	require.Equal(t, int64(120000), rows[1].Annual)
	require.Equal(t, int64(10000), rows[1].Monthly)

	require.Equal(t, "Special Allowance", rows[2].Component)
	require.Equal(t, int64(90000), rows[2].Annual)
	require.Equal(t, int64(7500), rows[2].Monthly)

	require.Equal(t, "Travel Allowance", rows[3].Component)
	require.Equal(t, int64(60000), rows[3].Annual)
	require.Equal(t, int64(5000), rows[3].Monthly)

	require.Equal(t, "Other Allowance", rows[4].Component)
	require.Equal(t, int64(30000), rows[4].Annual)
	require.Equal(t, int64(2500), rows[4].Monthly)

	require.Equal(t, FixedCTCLabel, rows[5].Component)
	require.Equal(t, int64(600000), rows[5].Annual)
	require.Equal(t, int64(50000), rows[5].Monthly)
}

func TestSalaryBreakdownSumsExactly(t *testing.T) {
	t.Parallel()

	svc := &SalaryService{}

	// Awkward amounts that do not divide cleanly by the percentages or by 12.
	amounts := []float64{1, 99, 537, 100001, 333333, 654321.49, 7_500_007, 12_345_678.9}

	for _, ctc := range amounts {
		rows, err := svc.Breakdown(ctc)
		require.NoError(t, err)

		fixed := rows[len(rows)-1]
		require.Equal(t, FixedCTCLabel, fixed.Component)
		require.Equal(t, int64(math.Round(ctc)), fixed.Annual)

		var annualSum, monthlySum int64
		for _, row := range rows[:len(rows)-1] {
			annualSum += row.Annual
			monthlySum += row.Monthly
		}
		require.Equal(t, fixed.Annual, annualSum, "annual components must sum to the CTC for %v", ctc)
		require.Equal(t, fixed.Monthly, monthlySum, "monthly components must sum to the monthly CTC for %v", ctc)
	}
}

func TestSalaryBreakdownRejectsBadAmounts(t *testing.T) {
	t.Parallel()

	svc := &SalaryService{}

	for _, ctc := range []float64{0, -1, -600000, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := svc.Breakdown(ctc)
		require.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestSalaryBreakdownCustomPlan(t *testing.T) {
	t.Parallel()

	plan, err := ParseSalaryPlan(`[{"name":"Base","percent":70},{"name":"Bonus","percent":30}]`)
	require.NoError(t, err)

	svc := &SalaryService{Plan: plan}
	rows, err := svc.Breakdown(120000)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, int64(84000), rows[0].Annual)
	require.Equal(t, int64(36000), rows[1].Annual)
	require.Equal(t, int64(120000), rows[2].Annual)
}

func TestParseSalaryPlanValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "basic=50"},
		{"empty list", "[]"},
		{"missing name", `[{"name":"","percent":100}]`},
		{"zero percent", `[{"name":"Basic","percent":0},{"name":"HRA","percent":100}]`},
		{"negative percent", `[{"name":"Basic","percent":-10},{"name":"HRA","percent":110}]`},
		{"sums under 100", `[{"name":"Basic","percent":50},{"name":"HRA","percent":40}]`},
		{"sums over 100", `[{"name":"Basic","percent":60},{"name":"HRA","percent":50}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSalaryPlan(tt.raw)
			require.ErrorIs(t, err, ErrInvalidPlan)
		})
	}
}
