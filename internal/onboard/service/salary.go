package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/talentwire/onboard/pkg/onboardapi"
)

var (
	ErrInvalidAmount = errors.New("invalid salary amount")
	ErrInvalidPlan   = errors.New("invalid salary plan")
)

// SalaryComponent is one line of the salary plan.
type SalaryComponent struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// FixedCTCLabel is the synthetic trailing row carrying the full CTC.
const FixedCTCLabel = "Fixed CTC"

// DefaultSalaryPlan mirrors the standard offer structure.
var DefaultSalaryPlan = []SalaryComponent{
	{Name: "Basic", Percent: 50},
	{Name: "HRA", Percent: 20},
	{Name: "Special Allowance", Percent: 15},
	{Name: "Travel Allowance", Percent: 10},
	{Name: "Other Allowance", Percent: 5},
}

// SalaryService computes component-wise salary breakdowns for offers.
type SalaryService struct {
	Plan []SalaryComponent
}

// ParseSalaryPlan decodes a JSON plan override. Percentages must be positive
// and sum to 100.
func ParseSalaryPlan(raw string) ([]SalaryComponent, error) {
	var plan []SalaryComponent
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	if len(plan) == 0 {
		return nil, fmt.Errorf("%w: no components", ErrInvalidPlan)
	}

	var total float64
	for _, c := range plan {
		if c.Name == "" || c.Percent <= 0 {
			return nil, fmt.Errorf("%w: component %q with percent %v", ErrInvalidPlan, c.Name, c.Percent)
		}
		total += c.Percent
	}
	if math.Abs(total-100) > 1e-9 {
		return nil, fmt.Errorf("%w: percentages sum to %v, want 100", ErrInvalidPlan, total)
	}
	return plan, nil
}

// Breakdown splits an annual CTC into component rows.
//
// Every component except the last is rounded independently; the last absorbs
// the rounding remainder so the annual amounts always sum exactly to the CTC.
// The trailing Fixed CTC row restates the full package.
func (s *SalaryService) Breakdown(annualCTC float64) ([]onboardapi.SalaryRow, error) {
	// 1. Reject garbage input before doing any arithmetic.
	if annualCTC <= 0 || math.IsNaN(annualCTC) || math.IsInf(annualCTC, 0) {
		return nil, ErrInvalidAmount
	}

	plan := s.Plan
	if len(plan) == 0 {
		plan = DefaultSalaryPlan
	}

	total := int64(math.Round(annualCTC))
	rows := make([]onboardapi.SalaryRow, 0, len(plan)+1)

	// 2. Round each component except the last.
	var allocated int64
	for _, c := range plan[:len(plan)-1] {
		annual := int64(math.Round(annualCTC * c.Percent / 100))
		allocated += annual
		rows = append(rows, onboardapi.SalaryRow{Component: c.Name, Annual: annual})
	}

	// 3. The last component takes whatever is left.
	last := plan[len(plan)-1]
	rows = append(rows, onboardapi.SalaryRow{Component: last.Name, Annual: total - allocated})

	// 4. Monthly figures are rounded per row, then footed so they sum to
	// round(total/12) exactly, with the last component absorbing any drift.
	totalMonthly := int64(math.Round(float64(total) / 12))
	var monthlySum int64
	for i := range rows {
		rows[i].Monthly = int64(math.Round(float64(rows[i].Annual) / 12))
		monthlySum += rows[i].Monthly
	}
	rows[len(rows)-1].Monthly += totalMonthly - monthlySum

	// 5. Close with the synthetic Fixed CTC row.
	rows = append(rows, onboardapi.SalaryRow{
		Component: FixedCTCLabel,
		Annual:    total,
		Monthly:   totalMonthly,
	})

	return rows, nil
}
