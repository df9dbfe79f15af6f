// Package status classifies subscriptions into lifecycle and billing-mode
// statuses and owns the fixed status/category color tables.
package status

import (
	"time"

	"github.com/yogendrabaral1/subscription-tracker/internal/model"
	"github.com/yogendrabaral1/subscription-tracker/pkg/datetime"
)

// Lifecycle is the derived per-subscription lifecycle status.
type Lifecycle string

const (
	LifecycleActive       Lifecycle = "active"
	LifecycleExpiringSoon Lifecycle = "expiring-soon"
	LifecycleExpired      Lifecycle = "expired"
	LifecycleCancelled    Lifecycle = "cancelled"
)

// BillingMode is the derived billing-mode status.
type BillingMode string

const (
	BillingAutoPay BillingMode = "auto-pay"
	BillingManual  BillingMode = "manual"
	BillingExpired BillingMode = "expired"
)

// expiringSoonDays is the manual-expiry threshold below which a subscription
// counts as expiring soon.
const expiringSoonDays = 7

// Classify returns the lifecycle status of a subscription at the given time.
// Auto-pay subscriptions never expire from the classifier's perspective, and
// a manual subscription without an expiry date is perpetually active: a
// missing target date is data absence, not an error.
func Classify(sub *model.Subscription, now time.Time) Lifecycle {
	if !sub.IsActive {
		return LifecycleCancelled
	}

	switch sched := sub.Schedule().(type) {
	case model.AutoPaySchedule:
		return LifecycleActive
	case model.ManualSchedule:
		if sched.ExpiryDate == nil {
			return LifecycleActive
		}
		days := datetime.DaysUntil(*sched.ExpiryDate, now)
		switch {
		case days < 0:
			return LifecycleExpired
		case days <= expiringSoonDays:
			return LifecycleExpiringSoon
		default:
			return LifecycleActive
		}
	}
	return LifecycleActive
}

// ClassifyBillingMode returns the billing-mode status of a subscription.
func ClassifyBillingMode(sub *model.Subscription) BillingMode {
	if !sub.IsActive {
		return BillingExpired
	}
	if sub.IsAutoPayEnabled {
		return BillingAutoPay
	}
	return BillingManual
}

var lifecycleColors = map[Lifecycle]string{
	LifecycleActive:       "#4CAF50",
	LifecycleExpiringSoon: "#FF9800",
	LifecycleExpired:      "#F44336",
	LifecycleCancelled:    "#9E9E9E",
}

var billingModeColors = map[BillingMode]string{
	BillingAutoPay: "#4CAF50",
	BillingManual:  "#FF9800",
	BillingExpired: "#9E9E9E",
}

// Category colors are a fixed table rather than content-derived so they stay
// stable across runs.
var categoryColors = map[model.Category]string{
	model.CategoryEntertainment: "#2196F3",
	model.CategoryProductivity:  "#4CAF50",
	model.CategoryFitness:       "#FF9800",
	model.CategoryNews:          "#F44336",
	model.CategoryCloud:         "#9C27B0",
	model.CategoryOther:         "#607D8B",
}

const fallbackColor = "#2196F3"

// Color returns the display color for a lifecycle status.
func (l Lifecycle) Color() string {
	if c, ok := lifecycleColors[l]; ok {
		return c
	}
	return fallbackColor
}

// Color returns the display color for a billing-mode status.
func (b BillingMode) Color() string {
	if c, ok := billingModeColors[b]; ok {
		return c
	}
	return fallbackColor
}

// CategoryColor returns the display color for a category.
func CategoryColor(c model.Category) string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return fallbackColor
}
