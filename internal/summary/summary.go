// Package summary folds a subscription set into a DashboardSummary.
package summary

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yogendrabaral1/subscription-tracker/internal/model"
	"github.com/yogendrabaral1/subscription-tracker/internal/spend"
	"github.com/yogendrabaral1/subscription-tracker/internal/status"
	"github.com/yogendrabaral1/subscription-tracker/pkg/datetime"
)

const (
	// UpcomingRenewalDays is the forward look-ahead for renewal charges.
	UpcomingRenewalDays = 30

	// ExpiringSoonDays is the shorter forward window for manual expiries.
	ExpiringSoonDays = 7
)

// Summarize computes the dashboard summary for a subscription set at the
// given time. It is a pure function: no side effects, deterministic for the
// same inputs, and it never fails. Records missing the date their mode
// requires are excluded from the date-windowed sets.
//
// Totals are summed without currency conversion. Upcoming renewals are
// auto-pay only: a manual subscription's expiry is a lapse, not a renewal,
// and surfaces through ExpiringSoon instead.
func Summarize(subs []model.Subscription, now time.Time) *model.DashboardSummary {
	monthly := decimal.Zero
	yearly := decimal.Zero
	active := 0
	upcoming := make([]model.Subscription, 0)
	expiring := make([]model.Subscription, 0)
	byCategory := make(map[model.Category]*model.CategoryBreakdown)

	for _, sub := range subs {
		if !sub.IsActive {
			continue
		}
		active++

		monthlyEq := spend.MonthlyEquivalent(sub.Amount, sub.BillingCycle)
		monthly = monthly.Add(monthlyEq)
		yearly = yearly.Add(spend.YearlyEquivalent(sub.Amount, sub.BillingCycle))

		switch sched := sub.Schedule().(type) {
		case model.AutoPaySchedule:
			if sched.NextBillingDate != nil && datetime.WithinWindow(*sched.NextBillingDate, now, UpcomingRenewalDays) {
				upcoming = append(upcoming, sub)
			}
		case model.ManualSchedule:
			if sched.ExpiryDate != nil && datetime.WithinWindow(*sched.ExpiryDate, now, ExpiringSoonDays) {
				expiring = append(expiring, sub)
			}
		}

		entry, ok := byCategory[sub.Category]
		if !ok {
			entry = &model.CategoryBreakdown{
				Category: sub.Category,
				Amount:   decimal.Zero,
				Color:    status.CategoryColor(sub.Category),
			}
			byCategory[sub.Category] = entry
		}
		entry.Amount = entry.Amount.Add(monthlyEq)
		entry.Count++
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Schedule().TargetDate().Before(*upcoming[j].Schedule().TargetDate())
	})
	sort.Slice(expiring, func(i, j int) bool {
		return expiring[i].Schedule().TargetDate().Before(*expiring[j].Schedule().TargetDate())
	})

	breakdown := make([]model.CategoryBreakdown, 0, len(byCategory))
	for _, entry := range byCategory {
		breakdown = append(breakdown, *entry)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if !breakdown[i].Amount.Equal(breakdown[j].Amount) {
			return breakdown[i].Amount.GreaterThan(breakdown[j].Amount)
		}
		// Equal amounts fall back to the category name so the order is
		// stable across runs.
		return breakdown[i].Category < breakdown[j].Category
	})

	return &model.DashboardSummary{
		TotalMonthlySpending: monthly,
		TotalYearlySpending:  yearly,
		ActiveSubscriptions:  active,
		UpcomingRenewals:     upcoming,
		ExpiringSoon:         expiring,
		MonthlyBreakdown:     breakdown,
	}
}

// Empty returns the all-zero summary published before any data has loaded or
// after a failed load.
func Empty() *model.DashboardSummary {
	return &model.DashboardSummary{
		TotalMonthlySpending: decimal.Zero,
		TotalYearlySpending:  decimal.Zero,
		UpcomingRenewals:     []model.Subscription{},
		ExpiringSoon:         []model.Subscription{},
		MonthlyBreakdown:     []model.CategoryBreakdown{},
	}
}
