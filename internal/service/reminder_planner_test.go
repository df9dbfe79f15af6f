package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogendrabaral1/subscription-tracker/internal/model"
)

func TestPlanReminders(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.AddDate(0, 0, 10)

	t.Run("fires reminder days before expiry", func(t *testing.T) {
		t.Parallel()

		sub := activeManualSub("Magazine", expiry, 3)
		entries := PlanReminders([]model.Subscription{sub}, now)

		require.Len(t, entries, 1)
		assert.Equal(t, sub.ID, entries[0].SubscriptionID)
		assert.Equal(t, expiry.AddDate(0, 0, -3), entries[0].FireAt)
		assert.Equal(t, "Subscription Reminder", entries[0].Title)
		assert.Contains(t, entries[0].Body, "Magazine")
		assert.Contains(t, entries[0].Body, "in 3 days")
	})

	t.Run("zero lead fires on the expiry day", func(t *testing.T) {
		t.Parallel()

		sub := activeManualSub("Magazine", expiry, 0)
		entries := PlanReminders([]model.Subscription{sub}, now)

		require.Len(t, entries, 1)
		assert.Equal(t, expiry, entries[0].FireAt)
		assert.Contains(t, entries[0].Body, "due today!")
	})

	t.Run("one day lead says tomorrow", func(t *testing.T) {
		t.Parallel()

		sub := activeManualSub("Magazine", expiry, 1)
		entries := PlanReminders([]model.Subscription{sub}, now)

		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Body, "due tomorrow!")
	})

	t.Run("skips auto-pay subscriptions", func(t *testing.T) {
		t.Parallel()

		next := now.AddDate(0, 0, 5)
		sub := model.Subscription{
			ID:               uuid.New(),
			Name:             "Cloud Storage",
			Amount:           decimal.NewFromInt(99),
			IsActive:         true,
			IsAutoPayEnabled: true,
			NextBillingDate:  &next,
		}
		assert.Empty(t, PlanReminders([]model.Subscription{sub}, now))
	})

	t.Run("skips cancelled subscriptions", func(t *testing.T) {
		t.Parallel()

		sub := activeManualSub("Magazine", expiry, 3)
		sub.IsActive = false
		assert.Empty(t, PlanReminders([]model.Subscription{sub}, now))
	})

	t.Run("skips missing expiry", func(t *testing.T) {
		t.Parallel()

		sub := activeManualSub("Magazine", expiry, 3)
		sub.ExpiryDate = nil
		assert.Empty(t, PlanReminders([]model.Subscription{sub}, now))
	})

	t.Run("skips fire times in the past", func(t *testing.T) {
		t.Parallel()

		// Expiry two days out with a seven day lead puts the fire time
		// five days ago.
		sub := activeManualSub("Magazine", now.AddDate(0, 0, 2), 7)
		assert.Empty(t, PlanReminders([]model.Subscription{sub}, now))
	})

	t.Run("body includes the formatted amount", func(t *testing.T) {
		t.Parallel()

		sub := activeManualSub("Magazine", expiry, 3)
		sub.Amount = decimal.NewFromInt(250)
		sub.Currency = "INR"
		entries := PlanReminders([]model.Subscription{sub}, now)

		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Body, "₹250")
	})
}
