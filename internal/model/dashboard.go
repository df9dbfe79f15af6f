package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardSummary is a derived snapshot recomputed from the current
// subscription set. It has no storage of its own and is invalid the instant
// the set changes until recomputed.
//
// Totals are raw arithmetic sums over the normalized per-period amounts of
// active subscriptions; mixed currencies are NOT converted, so callers must
// treat cross-currency totals as home-currency approximations.
type DashboardSummary struct {
	TotalMonthlySpending decimal.Decimal     `json:"totalMonthlySpending"`
	TotalYearlySpending  decimal.Decimal     `json:"totalYearlySpending"`
	ActiveSubscriptions  int                 `json:"activeSubscriptions"`
	UpcomingRenewals     []Subscription      `json:"upcomingRenewals"`
	ExpiringSoon         []Subscription      `json:"expiringSoon"`
	MonthlyBreakdown     []CategoryBreakdown `json:"monthlyBreakdown"`
}

// CategoryBreakdown is a per-category slice of the monthly spend.
type CategoryBreakdown struct {
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
	Color    string          `json:"color"`
}

// ReminderEntry is the declarative reminder datum handed to the notification
// collaborator: one entry per active manual subscription whose reminder has
// not already passed.
type ReminderEntry struct {
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	FireAt         time.Time `json:"fireAt"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
}
