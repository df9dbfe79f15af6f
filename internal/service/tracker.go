package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yogendrabaral1/subscription-tracker/internal/logger"
	"github.com/yogendrabaral1/subscription-tracker/internal/model"
	"github.com/yogendrabaral1/subscription-tracker/internal/summary"
)

// SubscriptionLister is the read side of the storage contract the tracker
// needs for its initial load.
type SubscriptionLister interface {
	List(ctx context.Context) ([]model.Subscription, error)
}

// ReminderSink consumes the declarative reminder plan after each summary
// recomputation: the fresh entries to schedule plus the IDs whose reminders
// must be cancelled because the subscription was deleted, deactivated, or
// switched to auto-pay. Whether an entry actually fires is the sink's
// business.
type ReminderSink interface {
	Apply(entries []model.ReminderEntry, cancelled []uuid.UUID)
}

// Tracker owns the authoritative in-memory subscription set and the published
// DashboardSummary. Every change replaces the set and synchronously
// recomputes, publishing the new summary as a single atomic swap so consumers
// never observe a partially updated one. There is no incremental path: the
// set is small (tens of records) and a full fold is O(n).
type Tracker struct {
	store SubscriptionLister
	sink  ReminderSink
	now   func() time.Time

	mu       sync.RWMutex
	subs     []model.Subscription
	summary  *model.DashboardSummary
	lastPlan map[uuid.UUID]struct{}

	readyOnce sync.Once
	ready     chan struct{}
}

// NewTracker creates a Tracker. The sink may be nil when no reminder
// collaborator is attached (e.g. one-shot CLI reads).
func NewTracker(store SubscriptionLister, sink ReminderSink) *Tracker {
	return &Tracker{
		store:    store,
		sink:     sink,
		now:      time.Now,
		lastPlan: make(map[uuid.UUID]struct{}),
		ready:    make(chan struct{}),
	}
}

// Load performs the initial bulk read from storage and publishes the first
// summary. A failed load degrades to an explicit empty summary, so the user
// sees an empty dashboard rather than a crash; the error is still returned
// for the caller to log.
func (t *Tracker) Load(ctx context.Context) error {
	subs, err := t.store.List(ctx)
	if err != nil {
		t.publish([]model.Subscription{})
		return fmt.Errorf("loading subscriptions: %w", err)
	}
	t.publish(subs)
	return nil
}

// Start runs the initial load and gates readiness on both the load finishing
// and minReady elapsing, whichever is later.
func (t *Tracker) Start(ctx context.Context, minReady time.Duration) error {
	deadline := t.now().Add(minReady)

	err := t.Load(ctx)

	if remaining := time.Until(deadline); remaining > 0 {
		select {
		case <-time.After(remaining):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	t.readyOnce.Do(func() { close(t.ready) })
	return err
}

// WaitReady blocks until Start has completed or the context is cancelled.
func (t *Tracker) WaitReady(ctx context.Context) error {
	select {
	case <-t.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetSubscriptions replaces the authoritative set, recomputes, and publishes.
func (t *Tracker) SetSubscriptions(subs []model.Subscription) {
	t.publish(subs)
}

// Summary returns the published summary. ok is false until the first load
// completes; after that an absent summary and zero subscriptions look the
// same to display code, which is intended.
func (t *Tracker) Summary() (*model.DashboardSummary, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.summary, t.summary != nil
}

// Subscriptions returns a copy of the current set.
func (t *Tracker) Subscriptions() []model.Subscription {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]model.Subscription, len(t.subs))
	copy(out, t.subs)
	return out
}

func (t *Tracker) publish(subs []model.Subscription) {
	now := t.now()
	sum := summary.Summarize(subs, now)
	plan := PlanReminders(subs, now)

	t.mu.Lock()
	t.subs = subs
	t.summary = sum

	planned := make(map[uuid.UUID]struct{}, len(plan))
	for _, entry := range plan {
		planned[entry.SubscriptionID] = struct{}{}
	}
	var cancelled []uuid.UUID
	for id := range t.lastPlan {
		if _, still := planned[id]; !still {
			cancelled = append(cancelled, id)
		}
	}
	t.lastPlan = planned
	t.mu.Unlock()

	if t.sink != nil {
		t.sink.Apply(plan, cancelled)
	}
	logger.Debug("dashboard summary recomputed",
		"subscriptions", len(subs),
		"active", sum.ActiveSubscriptions,
		"reminders", len(plan),
	)
}
