// Package notify is the local reminder collaborator. It consumes the
// declarative reminder plan the tracker pushes after each summary
// recomputation and decides when entries actually fire; none of that
// mechanics leaks back into the core.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/yogendrabaral1/subscription-tracker/internal/model"
)

// Notifier delivers a due reminder to the user.
type Notifier interface {
	Notify(entry model.ReminderEntry)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(entry model.ReminderEntry)

func (f NotifierFunc) Notify(entry model.ReminderEntry) { f(entry) }

// Config holds the scheduler configuration.
type Config struct {
	// Schedule is a cron expression for the due check (e.g. "* * * * *"
	// for every minute).
	Schedule string
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{Schedule: "* * * * *"}
}

// Scheduler keeps the pending reminder plan in memory and fires due entries
// from a cron-driven check loop. It implements service.ReminderSink.
type Scheduler struct {
	cron     *cron.Cron
	notifier Notifier
	config   Config
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	pending map[uuid.UUID]model.ReminderEntry
}

// New creates a Scheduler delivering through the given notifier.
func New(cfg Config, notifier Notifier, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:     cron.New(),
		notifier: notifier,
		config:   cfg,
		logger:   logger,
		now:      time.Now,
		pending:  make(map[uuid.UUID]model.ReminderEntry),
	}
}

// Apply replaces the pending plan. Cancelled IDs are dropped first so a
// reminder for a deleted, deactivated, or auto-pay-switched subscription can
// never fire, then each planned entry replaces any previous one for the same
// subscription.
func (s *Scheduler) Apply(entries []model.ReminderEntry, cancelled []uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range cancelled {
		delete(s.pending, id)
	}
	for _, entry := range entries {
		s.pending[entry.SubscriptionID] = entry
	}

	s.logger.Debug("reminder plan applied",
		slog.Int("pending", len(s.pending)),
		slog.Int("cancelled", len(cancelled)),
	)
}

// Pending returns the current plan, for display and tests.
func (s *Scheduler) Pending() []model.ReminderEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ReminderEntry, 0, len(s.pending))
	for _, entry := range s.pending {
		out = append(out, entry)
	}
	return out
}

// Start begins the periodic due check.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.config.Schedule, s.fireDue); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("reminder scheduler started", slog.String("schedule", s.config.Schedule))
	return nil
}

// Stop halts the check loop and waits for any in-flight check to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// fireDue delivers every entry whose fire time has arrived and removes it
// from the plan.
func (s *Scheduler) fireDue() {
	now := s.now()

	s.mu.Lock()
	var due []model.ReminderEntry
	for id, entry := range s.pending {
		if !entry.FireAt.After(now) {
			due = append(due, entry)
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()

	for _, entry := range due {
		s.notifier.Notify(entry)
		s.logger.Info("reminder fired",
			slog.String("subscription_id", entry.SubscriptionID.String()),
			slog.Time("fire_at", entry.FireAt),
		)
	}
}
