// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yogendrabaral1/subscription-tracker/internal/apperror"
	"github.com/yogendrabaral1/subscription-tracker/internal/model"
	"github.com/yogendrabaral1/subscription-tracker/pkg/currency"
)

// Service-level errors for subscriptions.
var (
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrNameRequired           = errors.New("name is required")
	ErrInvalidCategory        = errors.New("invalid category")
	ErrInvalidBillingCycle    = errors.New("invalid billing cycle")
	ErrInvalidReminderDays    = errors.New("reminder days must not be negative")
	ErrNextBillingDateMissing = errors.New("auto-pay subscriptions require a next billing date")
	ErrExpiryDateMissing      = errors.New("manual subscriptions require an expiry date")
)

// SubscriptionStore defines the storage contract the service needs. All calls
// are atomic and strongly consistent: a read issued after a write observes it.
type SubscriptionStore interface {
	Create(ctx context.Context, sub *model.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Subscription, error)
	List(ctx context.Context) ([]model.Subscription, error)
	Update(ctx context.Context, sub *model.Subscription) error
	Delete(ctx context.Context, id uuid.UUID) error
	ClearAll(ctx context.Context) error
}

// SubscriptionService handles subscription CRUD and the validation boundary
// in front of the aggregation core. Every mutation re-publishes the dashboard
// summary through the tracker before returning.
type SubscriptionService struct {
	store               SubscriptionStore
	tracker             *Tracker
	homeCurrency        string
	defaultReminderDays int
	now                 func() time.Time
}

// NewSubscriptionService creates a SubscriptionService. The tracker is
// notified after every successful mutation.
func NewSubscriptionService(store SubscriptionStore, tracker *Tracker, homeCurrency string, defaultReminderDays int) *SubscriptionService {
	if homeCurrency == "" {
		homeCurrency = string(currency.DefaultCurrency)
	}
	return &SubscriptionService{
		store:               store,
		tracker:             tracker,
		homeCurrency:        homeCurrency,
		defaultReminderDays: defaultReminderDays,
		now:                 time.Now,
	}
}

type CreateSubscriptionInput struct {
	Name             string             `json:"name"`
	Provider         string             `json:"provider"`
	Category         model.Category     `json:"category"`
	Amount           decimal.Decimal    `json:"amount"`
	Currency         string             `json:"currency"`
	BillingCycle     model.BillingCycle `json:"billingCycle"`
	IsAutoPayEnabled bool               `json:"isAutoPayEnabled"`
	NextBillingDate  *time.Time         `json:"nextBillingDate"`
	ExpiryDate       *time.Time         `json:"expiryDate"`
	ReminderDays     *int               `json:"reminderDays"`
	Description      string             `json:"description"`
}

type UpdateSubscriptionInput struct {
	Name             *string             `json:"name"`
	Provider         *string             `json:"provider"`
	Category         *model.Category     `json:"category"`
	Amount           *decimal.Decimal    `json:"amount"`
	Currency         *string             `json:"currency"`
	BillingCycle     *model.BillingCycle `json:"billingCycle"`
	IsAutoPayEnabled *bool               `json:"isAutoPayEnabled"`
	NextBillingDate  *time.Time          `json:"nextBillingDate"`
	ExpiryDate       *time.Time          `json:"expiryDate"`
	ReminderDays     *int                `json:"reminderDays"`
	Description      *string             `json:"description"`
	IsActive         *bool               `json:"isActive"`
}

// Create validates and persists a new subscription, then recomputes the
// dashboard summary.
func (s *SubscriptionService) Create(ctx context.Context, input CreateSubscriptionInput) (*model.Subscription, error) {
	if input.Name == "" {
		return nil, apperror.Validation("name", ErrNameRequired)
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.Validation("amount", ErrInvalidAmount)
	}
	if !input.Category.IsValid() {
		return nil, apperror.Validation("category", ErrInvalidCategory)
	}
	if !input.BillingCycle.IsValid() {
		return nil, apperror.Validation("billingCycle", ErrInvalidBillingCycle)
	}
	if input.ReminderDays != nil && *input.ReminderDays < 0 {
		return nil, apperror.Validation("reminderDays", ErrInvalidReminderDays)
	}
	if input.IsAutoPayEnabled && input.NextBillingDate == nil {
		return nil, apperror.Validation("nextBillingDate", ErrNextBillingDateMissing)
	}
	if !input.IsAutoPayEnabled && input.ExpiryDate == nil {
		return nil, apperror.Validation("expiryDate", ErrExpiryDateMissing)
	}

	now := s.now().UTC()
	sub := &model.Subscription{
		ID:               uuid.New(),
		Name:             input.Name,
		Provider:         input.Provider,
		Category:         input.Category,
		Amount:           input.Amount,
		Currency:         input.Currency,
		BillingCycle:     input.BillingCycle,
		NextBillingDate:  input.NextBillingDate,
		ExpiryDate:       input.ExpiryDate,
		IsAutoPayEnabled: input.IsAutoPayEnabled,
		IsActive:         true,
		Description:      input.Description,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if sub.Currency == "" {
		sub.Currency = s.homeCurrency
	}
	if input.ReminderDays != nil {
		sub.ReminderDays = *input.ReminderDays
	} else {
		sub.ReminderDays = s.defaultReminderDays
	}
	s.normalizeSchedule(sub)

	if err := s.store.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetByID retrieves a single subscription.
func (s *SubscriptionService) GetByID(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	sub, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting subscription %s: %w", id, err)
	}
	return sub, nil
}

// List returns every stored subscription, cancelled ones included.
func (s *SubscriptionService) List(ctx context.Context) ([]model.Subscription, error) {
	subs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	return subs, nil
}

// Update applies partial changes to a subscription, preserving ID and
// CreatedAt and refreshing UpdatedAt, then recomputes the summary. Toggling
// IsAutoPayEnabled re-normalizes the schedule: the opposite date field loses
// its meaning and reminder days are forced to zero under auto-pay.
func (s *SubscriptionService) Update(ctx context.Context, id uuid.UUID, input UpdateSubscriptionInput) (*model.Subscription, error) {
	sub, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching subscription %s for update: %w", id, err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.Validation("name", ErrNameRequired)
		}
		sub.Name = *input.Name
	}
	if input.Provider != nil {
		sub.Provider = *input.Provider
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, apperror.Validation("category", ErrInvalidCategory)
		}
		sub.Category = *input.Category
	}
	if input.Amount != nil {
		if input.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, apperror.Validation("amount", ErrInvalidAmount)
		}
		sub.Amount = *input.Amount
	}
	if input.Currency != nil {
		sub.Currency = *input.Currency
	}
	if input.BillingCycle != nil {
		if !input.BillingCycle.IsValid() {
			return nil, apperror.Validation("billingCycle", ErrInvalidBillingCycle)
		}
		sub.BillingCycle = *input.BillingCycle
	}
	if input.IsAutoPayEnabled != nil {
		sub.IsAutoPayEnabled = *input.IsAutoPayEnabled
	}
	if input.NextBillingDate != nil {
		sub.NextBillingDate = input.NextBillingDate
	}
	if input.ExpiryDate != nil {
		sub.ExpiryDate = input.ExpiryDate
	}
	if input.ReminderDays != nil {
		if *input.ReminderDays < 0 {
			return nil, apperror.Validation("reminderDays", ErrInvalidReminderDays)
		}
		sub.ReminderDays = *input.ReminderDays
	}
	if input.Description != nil {
		sub.Description = *input.Description
	}
	if input.IsActive != nil {
		sub.IsActive = *input.IsActive
	}
	s.normalizeSchedule(sub)
	sub.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("updating subscription %s: %w", id, err)
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel deactivates a subscription without deleting it: the record stays in
// history but leaves every total, count, and window on the next recompute.
func (s *SubscriptionService) Cancel(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	isActive := false
	return s.Update(ctx, id, UpdateSubscriptionInput{IsActive: &isActive})
}

// Reactivate re-enables a cancelled subscription.
func (s *SubscriptionService) Reactivate(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	isActive := true
	return s.Update(ctx, id, UpdateSubscriptionInput{IsActive: &isActive})
}

// Delete removes a subscription permanently. There is no tombstone.
func (s *SubscriptionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting subscription %s: %w", id, err)
	}
	return s.refresh(ctx)
}

// Reset wipes all local data and publishes the empty summary.
func (s *SubscriptionService) Reset(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clearing data: %w", err)
	}
	return s.refresh(ctx)
}

// normalizeSchedule enforces the mutually exclusive date semantics: the field
// not selected by the auto-pay flag is cleared so it can never be read, and
// auto-pay subscriptions carry no manual reminder.
func (s *SubscriptionService) normalizeSchedule(sub *model.Subscription) {
	if sub.IsAutoPayEnabled {
		sub.ExpiryDate = nil
		sub.ReminderDays = 0
	} else {
		sub.NextBillingDate = nil
	}
}

// refresh re-reads the full set and republishes the summary; there is no
// incremental path, which is fine at tens of records.
func (s *SubscriptionService) refresh(ctx context.Context) error {
	subs, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("reloading subscriptions: %w", err)
	}
	s.tracker.SetSubscriptions(subs)
	return nil
}
