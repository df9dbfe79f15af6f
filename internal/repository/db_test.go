package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogendrabaral1/subscription-tracker/internal/model"
)

func TestOpenCreatesSchemaAndParentDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "subscriptions.db")

	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var tables []string
	err = db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	require.NoError(t, err)
	assert.Contains(t, tables, "subscriptions")
	assert.Contains(t, tables, "users")
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "subscriptions.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}

// Round-trip against a real database file; the sqlmock tests cover the
// query shapes, this covers the sqlite column mappings.
func TestSubscriptionRoundTrip(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join(t.TempDir(), "subscriptions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	expiry := now.AddDate(0, 1, 0)
	sub := &model.Subscription{
		ID:           uuid.New(),
		Name:         "Streaming",
		Provider:     "Acme",
		Category:     model.CategoryEntertainment,
		Amount:       decimal.RequireFromString("199.50"),
		Currency:     "INR",
		BillingCycle: model.CycleMonthly,
		ExpiryDate:   &expiry,
		IsActive:     true,
		ReminderDays: 2,
		Description:  "family plan",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	require.NoError(t, repo.Create(ctx, sub))

	got, err := repo.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.Name, got.Name)
	assert.True(t, got.Amount.Equal(sub.Amount))
	assert.Equal(t, model.CategoryEntertainment, got.Category)
	require.NotNil(t, got.ExpiryDate)
	assert.Nil(t, got.NextBillingDate)
	assert.Equal(t, 2, got.ReminderDays)

	subs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	got.Name = "Streaming Plus"
	require.NoError(t, repo.Update(ctx, got))
	updated, err := repo.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Streaming Plus", updated.Name)

	require.NoError(t, repo.Delete(ctx, sub.ID))
	_, err = repo.GetByID(ctx, sub.ID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}
