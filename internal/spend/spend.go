// Package spend normalizes per-cycle subscription amounts onto monthly and
// yearly bases.
package spend

import (
	"github.com/shopspring/decimal"

	"github.com/yogendrabaral1/subscription-tracker/internal/model"
)

// weeksPerMonth is the average-weeks-per-month factor. It is deliberately the
// simple 4.33 average rather than a calendar-exact value: yearly projections
// use 52 weeks, so weekly yearly totals intentionally differ from
// 12 x monthly (52 vs 51.96). Expected totals depend on both constants
// staying as they are.
var weeksPerMonth = decimal.RequireFromString("4.33")

var (
	three  = decimal.NewFromInt(3)
	four   = decimal.NewFromInt(4)
	twelve = decimal.NewFromInt(12)
	fifty2 = decimal.NewFromInt(52)
)

// MonthlyEquivalent converts a per-cycle amount to its monthly equivalent.
// Unknown cycles pass the amount through unchanged. No rounding is applied;
// formatting is a presentation concern.
func MonthlyEquivalent(amount decimal.Decimal, cycle model.BillingCycle) decimal.Decimal {
	switch cycle {
	case model.CycleWeekly:
		return amount.Mul(weeksPerMonth)
	case model.CycleMonthly:
		return amount
	case model.CycleQuarterly:
		return amount.Div(three)
	case model.CycleYearly:
		return amount.Div(twelve)
	}
	return amount
}

// YearlyEquivalent converts a per-cycle amount to its yearly equivalent.
func YearlyEquivalent(amount decimal.Decimal, cycle model.BillingCycle) decimal.Decimal {
	switch cycle {
	case model.CycleWeekly:
		return amount.Mul(fifty2)
	case model.CycleMonthly:
		return amount.Mul(twelve)
	case model.CycleQuarterly:
		return amount.Mul(four)
	case model.CycleYearly:
		return amount
	}
	return amount
}
