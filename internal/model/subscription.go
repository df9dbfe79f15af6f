package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is the fixed set of subscription categories.
type Category string

const (
	CategoryEntertainment Category = "entertainment"
	CategoryProductivity  Category = "productivity"
	CategoryFitness       Category = "fitness"
	CategoryNews          Category = "news"
	CategoryCloud         Category = "cloud"
	CategoryOther         Category = "other"
)

// Categories lists every valid category.
func Categories() []Category {
	return []Category{
		CategoryEntertainment,
		CategoryProductivity,
		CategoryFitness,
		CategoryNews,
		CategoryCloud,
		CategoryOther,
	}
}

// IsValid reports whether c is one of the fixed categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryEntertainment, CategoryProductivity, CategoryFitness,
		CategoryNews, CategoryCloud, CategoryOther:
		return true
	}
	return false
}

// BillingCycle determines the cadence multiplier for spend normalization.
type BillingCycle string

const (
	CycleWeekly    BillingCycle = "weekly"
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
)

// IsValid reports whether c is one of the fixed billing cycles.
func (c BillingCycle) IsValid() bool {
	switch c {
	case CycleWeekly, CycleMonthly, CycleQuarterly, CycleYearly:
		return true
	}
	return false
}

// Subscription is a recurring payment obligation. Amount is denominated per
// billing cycle, not normalized. Exactly one of NextBillingDate / ExpiryDate
// is semantically live, selected by IsAutoPayEnabled; consumers must read the
// dates through Schedule() and never the raw fields.
type Subscription struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	Name             string          `db:"name" json:"name"`
	Provider         string          `db:"provider" json:"provider,omitempty"`
	Category         Category        `db:"category" json:"category"`
	Amount           decimal.Decimal `db:"amount" json:"amount"`
	Currency         string          `db:"currency" json:"currency"`
	BillingCycle     BillingCycle    `db:"billing_cycle" json:"billingCycle"`
	NextBillingDate  *time.Time      `db:"next_billing_date" json:"nextBillingDate,omitempty"`
	ExpiryDate       *time.Time      `db:"expiry_date" json:"expiryDate,omitempty"`
	IsAutoPayEnabled bool            `db:"is_auto_pay_enabled" json:"isAutoPayEnabled"`
	IsActive         bool            `db:"is_active" json:"isActive"`
	ReminderDays     int             `db:"reminder_days" json:"reminderDays"`
	Description      string          `db:"description" json:"description,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updatedAt"`
}

// BillingSchedule is the tagged view over the dual-meaning date fields.
// It is either an AutoPaySchedule or a ManualSchedule.
type BillingSchedule interface {
	// TargetDate returns the schedule's relevant date, or nil when absent.
	TargetDate() *time.Time
}

// AutoPaySchedule is the schedule of an auto-pay subscription. The next charge
// date is the only meaningful date; auto-pay subscriptions never expire and
// carry no manual reminder.
type AutoPaySchedule struct {
	NextBillingDate *time.Time
}

// TargetDate returns the next charge date.
func (s AutoPaySchedule) TargetDate() *time.Time { return s.NextBillingDate }

// ManualSchedule is the schedule of a manually renewed subscription. The
// subscription lapses after ExpiryDate unless renewed; ReminderDays is the
// days-before-expiry notification lead.
type ManualSchedule struct {
	ExpiryDate   *time.Time
	ReminderDays int
}

// TargetDate returns the expiry date.
func (s ManualSchedule) TargetDate() *time.Time { return s.ExpiryDate }

// Schedule returns the billing schedule variant for the subscription. The
// stale opposite date field is never exposed, so callers cannot read it even
// if it is still stored.
func (s *Subscription) Schedule() BillingSchedule {
	if s.IsAutoPayEnabled {
		return AutoPaySchedule{NextBillingDate: s.NextBillingDate}
	}
	return ManualSchedule{ExpiryDate: s.ExpiryDate, ReminderDays: s.ReminderDays}
}
