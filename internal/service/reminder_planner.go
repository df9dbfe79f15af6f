package service

import (
	"fmt"
	"time"

	"github.com/yogendrabaral1/subscription-tracker/internal/model"
	"github.com/yogendrabaral1/subscription-tracker/pkg/currency"
)

// PlanReminders derives the reminder schedule for the notification
// collaborator: one entry per active manual subscription with an expiry date,
// firing ReminderDays before it. Auto-pay subscriptions need no manual
// reminder, and entries whose fire time has already passed are not emitted;
// any finer past-filtering is the collaborator's job.
func PlanReminders(subs []model.Subscription, now time.Time) []model.ReminderEntry {
	entries := make([]model.ReminderEntry, 0, len(subs))
	for i := range subs {
		sub := &subs[i]
		if !sub.IsActive {
			continue
		}
		sched, ok := sub.Schedule().(model.ManualSchedule)
		if !ok || sched.ExpiryDate == nil {
			continue
		}

		fireAt := sched.ExpiryDate.AddDate(0, 0, -sched.ReminderDays)
		if !fireAt.After(now) {
			continue
		}

		entries = append(entries, model.ReminderEntry{
			SubscriptionID: sub.ID,
			FireAt:         fireAt,
			Title:          "Subscription Reminder",
			Body:           reminderBody(sub, sched.ReminderDays),
		})
	}
	return entries
}

func reminderBody(sub *model.Subscription, reminderDays int) string {
	when := fmt.Sprintf("in %d days", reminderDays)
	switch reminderDays {
	case 0:
		when = "today"
	case 1:
		when = "tomorrow"
	}
	return fmt.Sprintf("%s payment of %s due %s!",
		sub.Name, currency.Format(sub.Amount, sub.Currency), when)
}
