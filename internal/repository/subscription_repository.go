package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yogendrabaral1/subscription-tracker/internal/apperror"
	"github.com/yogendrabaral1/subscription-tracker/internal/model"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, name, provider, category, amount, currency, billing_cycle,
			next_billing_date, expiry_date, is_auto_pay_enabled, is_active, reminder_days,
			description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.Name, sub.Provider, sub.Category, sub.Amount, sub.Currency, sub.BillingCycle,
		sub.NextBillingDate, sub.ExpiryDate, sub.IsAutoPayEnabled, sub.IsActive, sub.ReminderDays,
		sub.Description, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return apperror.Storage(err, "could not save subscription")
	}
	return nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	var sub model.Subscription
	query := `SELECT * FROM subscriptions WHERE id = ?`
	err := r.db.GetContext(ctx, &sub, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("subscription", ErrSubscriptionNotFound)
	}
	if err != nil {
		return nil, apperror.Storage(err, "could not read subscription")
	}
	return &sub, nil
}

// List returns every subscription, soonest target date first. Cancelled
// records are included; spend math filters them later.
func (r *SubscriptionRepository) List(ctx context.Context) ([]model.Subscription, error) {
	var subs []model.Subscription
	query := `SELECT * FROM subscriptions ORDER BY next_billing_date ASC, expiry_date ASC`
	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, apperror.Storage(err, "could not list subscriptions")
	}
	return subs, nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *model.Subscription) error {
	query := `
		UPDATE subscriptions
		SET name = ?, provider = ?, category = ?, amount = ?, currency = ?, billing_cycle = ?,
			next_billing_date = ?, expiry_date = ?, is_auto_pay_enabled = ?, is_active = ?,
			reminder_days = ?, description = ?, updated_at = ?
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		sub.Name, sub.Provider, sub.Category, sub.Amount, sub.Currency, sub.BillingCycle,
		sub.NextBillingDate, sub.ExpiryDate, sub.IsAutoPayEnabled, sub.IsActive,
		sub.ReminderDays, sub.Description, sub.UpdatedAt,
		sub.ID,
	)
	if err != nil {
		return apperror.Storage(err, "could not update subscription")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("subscription", ErrSubscriptionNotFound)
	}
	return nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return apperror.Storage(err, "could not delete subscription")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("subscription", ErrSubscriptionNotFound)
	}
	return nil
}

// ClearAll wipes every record, subscriptions and user alike.
func (r *SubscriptionRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions`); err != nil {
		return apperror.Storage(err, "could not clear subscriptions")
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return apperror.Storage(err, "could not clear user profile")
	}
	return nil
}
