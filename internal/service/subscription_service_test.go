package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yogendrabaral1/subscription-tracker/internal/apperror"
	"github.com/yogendrabaral1/subscription-tracker/internal/model"
)

// MockSubscriptionStore implements SubscriptionStore for testing
type MockSubscriptionStore struct {
	mock.Mock
}

func (m *MockSubscriptionStore) Create(ctx context.Context, sub *model.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockSubscriptionStore) List(ctx context.Context) ([]model.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Subscription), args.Error(1)
}

func (m *MockSubscriptionStore) Update(ctx context.Context, sub *model.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubscriptionStore) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newTestService(store *MockSubscriptionStore) *SubscriptionService {
	tracker := NewTracker(store, nil)
	return NewSubscriptionService(store, tracker, "INR", 1)
}

func datePtr(t time.Time) *time.Time { return &t }

func intPtr(n int) *int { return &n }

func TestSubscriptionService_Create(t *testing.T) {
	t.Parallel()

	future := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		input     CreateSubscriptionInput
		setupMock func(*MockSubscriptionStore)
		wantErr   error
		check     func(*testing.T, *model.Subscription)
	}{
		{
			name: "manual subscription with defaults",
			input: CreateSubscriptionInput{
				Name:         "Streaming",
				Category:     model.CategoryEntertainment,
				Amount:       decimal.NewFromInt(199),
				BillingCycle: model.CycleMonthly,
				ExpiryDate:   datePtr(future),
			},
			setupMock: func(m *MockSubscriptionStore) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Subscription")).Return(nil)
				m.On("List", mock.Anything).Return([]model.Subscription{}, nil)
			},
			check: func(t *testing.T, sub *model.Subscription) {
				assert.NotEqual(t, uuid.Nil, sub.ID)
				assert.True(t, sub.IsActive)
				assert.Equal(t, "INR", sub.Currency)
				assert.Equal(t, 1, sub.ReminderDays)
				assert.Nil(t, sub.NextBillingDate)
				require.NotNil(t, sub.ExpiryDate)
			},
		},
		{
			name: "auto-pay clears manual fields",
			input: CreateSubscriptionInput{
				Name:             "Cloud Storage",
				Category:         model.CategoryCloud,
				Amount:           decimal.NewFromInt(99),
				Currency:         "USD",
				BillingCycle:     model.CycleMonthly,
				IsAutoPayEnabled: true,
				NextBillingDate:  datePtr(future),
				ExpiryDate:       datePtr(future),
				ReminderDays:     intPtr(5),
			},
			setupMock: func(m *MockSubscriptionStore) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(sub *model.Subscription) bool {
					return sub.ExpiryDate == nil && sub.ReminderDays == 0
				})).Return(nil)
				m.On("List", mock.Anything).Return([]model.Subscription{}, nil)
			},
			check: func(t *testing.T, sub *model.Subscription) {
				assert.Equal(t, "USD", sub.Currency)
				assert.Nil(t, sub.ExpiryDate)
				assert.Equal(t, 0, sub.ReminderDays)
				require.NotNil(t, sub.NextBillingDate)
			},
		},
		{
			name: "explicit reminder days kept",
			input: CreateSubscriptionInput{
				Name:         "Magazine",
				Category:     model.CategoryNews,
				Amount:       decimal.NewFromInt(50),
				BillingCycle: model.CycleMonthly,
				ExpiryDate:   datePtr(future),
				ReminderDays: intPtr(3),
			},
			setupMock: func(m *MockSubscriptionStore) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Subscription")).Return(nil)
				m.On("List", mock.Anything).Return([]model.Subscription{}, nil)
			},
			check: func(t *testing.T, sub *model.Subscription) {
				assert.Equal(t, 3, sub.ReminderDays)
			},
		},
		{
			name: "name required",
			input: CreateSubscriptionInput{
				Amount:       decimal.NewFromInt(100),
				Category:     model.CategoryOther,
				BillingCycle: model.CycleMonthly,
				ExpiryDate:   datePtr(future),
			},
			setupMock: func(m *MockSubscriptionStore) {},
			wantErr:   ErrNameRequired,
		},
		{
			name: "zero amount rejected",
			input: CreateSubscriptionInput{
				Name:         "Free Tier",
				Amount:       decimal.Zero,
				Category:     model.CategoryOther,
				BillingCycle: model.CycleMonthly,
				ExpiryDate:   datePtr(future),
			},
			setupMock: func(m *MockSubscriptionStore) {},
			wantErr:   ErrInvalidAmount,
		},
		{
			name: "negative amount rejected",
			input: CreateSubscriptionInput{
				Name:         "Refund",
				Amount:       decimal.NewFromInt(-10),
				Category:     model.CategoryOther,
				BillingCycle: model.CycleMonthly,
				ExpiryDate:   datePtr(future),
			},
			setupMock: func(m *MockSubscriptionStore) {},
			wantErr:   ErrInvalidAmount,
		},
		{
			name: "invalid category",
			input: CreateSubscriptionInput{
				Name:         "Game Pass",
				Amount:       decimal.NewFromInt(100),
				Category:     model.Category("gaming"),
				BillingCycle: model.CycleMonthly,
				ExpiryDate:   datePtr(future),
			},
			setupMock: func(m *MockSubscriptionStore) {},
			wantErr:   ErrInvalidCategory,
		},
		{
			name: "invalid billing cycle",
			input: CreateSubscriptionInput{
				Name:         "Daily News",
				Amount:       decimal.NewFromInt(5),
				Category:     model.CategoryNews,
				BillingCycle: model.BillingCycle("daily"),
				ExpiryDate:   datePtr(future),
			},
			setupMock: func(m *MockSubscriptionStore) {},
			wantErr:   ErrInvalidBillingCycle,
		},
		{
			name: "negative reminder days",
			input: CreateSubscriptionInput{
				Name:         "Magazine",
				Amount:       decimal.NewFromInt(50),
				Category:     model.CategoryNews,
				BillingCycle: model.CycleMonthly,
				ExpiryDate:   datePtr(future),
				ReminderDays: intPtr(-1),
			},
			setupMock: func(m *MockSubscriptionStore) {},
			wantErr:   ErrInvalidReminderDays,
		},
		{
			name: "auto-pay requires next billing date",
			input: CreateSubscriptionInput{
				Name:             "Cloud Storage",
				Amount:           decimal.NewFromInt(99),
				Category:         model.CategoryCloud,
				BillingCycle:     model.CycleMonthly,
				IsAutoPayEnabled: true,
			},
			setupMock: func(m *MockSubscriptionStore) {},
			wantErr:   ErrNextBillingDateMissing,
		},
		{
			name: "manual requires expiry date",
			input: CreateSubscriptionInput{
				Name:         "Magazine",
				Amount:       decimal.NewFromInt(50),
				Category:     model.CategoryNews,
				BillingCycle: model.CycleMonthly,
			},
			setupMock: func(m *MockSubscriptionStore) {},
			wantErr:   ErrExpiryDateMissing,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := new(MockSubscriptionStore)
			tt.setupMock(store)
			svc := newTestService(store)

			sub, err := svc.Create(context.Background(), tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, apperror.KindValidation, apperror.GetKind(err))
				assert.Nil(t, sub)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, sub)
				if tt.check != nil {
					tt.check(t, sub)
				}
			}
			store.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_Create_StoreError(t *testing.T) {
	t.Parallel()

	store := new(MockSubscriptionStore)
	store.On("Create", mock.Anything, mock.AnythingOfType("*model.Subscription")).Return(errors.New("db error"))
	svc := newTestService(store)

	sub, err := svc.Create(context.Background(), CreateSubscriptionInput{
		Name:         "Streaming",
		Category:     model.CategoryEntertainment,
		Amount:       decimal.NewFromInt(199),
		BillingCycle: model.CycleMonthly,
		ExpiryDate:   datePtr(time.Now().AddDate(0, 1, 0)),
	})

	assert.Error(t, err)
	assert.Nil(t, sub)
	store.AssertExpectations(t)
}

func TestSubscriptionService_Update(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	next := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	existing := func(id uuid.UUID) *model.Subscription {
		return &model.Subscription{
			ID:           id,
			Name:         "Streaming",
			Category:     model.CategoryEntertainment,
			Amount:       decimal.NewFromInt(199),
			Currency:     "INR",
			BillingCycle: model.CycleMonthly,
			IsActive:     true,
			ExpiryDate:   datePtr(expiry),
			ReminderDays: 3,
		}
	}

	t.Run("partial update keeps other fields", func(t *testing.T) {
		t.Parallel()

		store := new(MockSubscriptionStore)
		id := uuid.New()
		store.On("GetByID", mock.Anything, id).Return(existing(id), nil)
		store.On("Update", mock.Anything, mock.AnythingOfType("*model.Subscription")).Return(nil)
		store.On("List", mock.Anything).Return([]model.Subscription{}, nil)
		svc := newTestService(store)

		newAmount := decimal.NewFromInt(249)
		sub, err := svc.Update(context.Background(), id, UpdateSubscriptionInput{Amount: &newAmount})

		assert.NoError(t, err)
		require.NotNil(t, sub)
		assert.True(t, sub.Amount.Equal(newAmount))
		assert.Equal(t, "Streaming", sub.Name)
		assert.Equal(t, 3, sub.ReminderDays)
		assert.False(t, sub.UpdatedAt.IsZero())
		store.AssertExpectations(t)
	})

	t.Run("switch to auto-pay clears expiry and reminder", func(t *testing.T) {
		t.Parallel()

		store := new(MockSubscriptionStore)
		id := uuid.New()
		store.On("GetByID", mock.Anything, id).Return(existing(id), nil)
		store.On("Update", mock.Anything, mock.MatchedBy(func(sub *model.Subscription) bool {
			return sub.IsAutoPayEnabled && sub.ExpiryDate == nil && sub.ReminderDays == 0
		})).Return(nil)
		store.On("List", mock.Anything).Return([]model.Subscription{}, nil)
		svc := newTestService(store)

		autoPay := true
		sub, err := svc.Update(context.Background(), id, UpdateSubscriptionInput{
			IsAutoPayEnabled: &autoPay,
			NextBillingDate:  datePtr(next),
		})

		assert.NoError(t, err)
		require.NotNil(t, sub)
		assert.Nil(t, sub.ExpiryDate)
		assert.Equal(t, 0, sub.ReminderDays)
		require.NotNil(t, sub.NextBillingDate)
		store.AssertExpectations(t)
	})

	t.Run("switch to manual clears next billing date", func(t *testing.T) {
		t.Parallel()

		auto := existing(uuid.New())
		auto.IsAutoPayEnabled = true
		auto.NextBillingDate = datePtr(next)
		auto.ExpiryDate = nil
		auto.ReminderDays = 0

		store := new(MockSubscriptionStore)
		store.On("GetByID", mock.Anything, auto.ID).Return(auto, nil)
		store.On("Update", mock.Anything, mock.MatchedBy(func(sub *model.Subscription) bool {
			return !sub.IsAutoPayEnabled && sub.NextBillingDate == nil
		})).Return(nil)
		store.On("List", mock.Anything).Return([]model.Subscription{}, nil)
		svc := newTestService(store)

		manual := false
		sub, err := svc.Update(context.Background(), auto.ID, UpdateSubscriptionInput{
			IsAutoPayEnabled: &manual,
			ExpiryDate:       datePtr(expiry),
			ReminderDays:     intPtr(2),
		})

		assert.NoError(t, err)
		require.NotNil(t, sub)
		assert.Nil(t, sub.NextBillingDate)
		assert.Equal(t, 2, sub.ReminderDays)
		store.AssertExpectations(t)
	})

	t.Run("validation failure leaves store untouched", func(t *testing.T) {
		t.Parallel()

		store := new(MockSubscriptionStore)
		id := uuid.New()
		store.On("GetByID", mock.Anything, id).Return(existing(id), nil)
		svc := newTestService(store)

		empty := ""
		sub, err := svc.Update(context.Background(), id, UpdateSubscriptionInput{Name: &empty})

		assert.ErrorIs(t, err, ErrNameRequired)
		assert.Equal(t, apperror.KindValidation, apperror.GetKind(err))
		assert.Nil(t, sub)
		store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		store := new(MockSubscriptionStore)
		id := uuid.New()
		store.On("GetByID", mock.Anything, id).Return(nil, errors.New("subscription not found"))
		svc := newTestService(store)

		sub, err := svc.Update(context.Background(), id, UpdateSubscriptionInput{})

		assert.Error(t, err)
		assert.Nil(t, sub)
		store.AssertExpectations(t)
	})
}

func TestSubscriptionService_CancelAndReactivate(t *testing.T) {
	t.Parallel()

	store := new(MockSubscriptionStore)
	id := uuid.New()
	sub := &model.Subscription{
		ID:           id,
		Name:         "Streaming",
		Category:     model.CategoryEntertainment,
		Amount:       decimal.NewFromInt(199),
		BillingCycle: model.CycleMonthly,
		IsActive:     true,
		ExpiryDate:   datePtr(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)),
	}
	store.On("GetByID", mock.Anything, id).Return(sub, nil)
	store.On("Update", mock.Anything, mock.AnythingOfType("*model.Subscription")).Return(nil)
	store.On("List", mock.Anything).Return([]model.Subscription{}, nil)
	svc := newTestService(store)

	cancelled, err := svc.Cancel(context.Background(), id)
	assert.NoError(t, err)
	require.NotNil(t, cancelled)
	assert.False(t, cancelled.IsActive)

	reactivated, err := svc.Reactivate(context.Background(), id)
	assert.NoError(t, err)
	require.NotNil(t, reactivated)
	assert.True(t, reactivated.IsActive)
	store.AssertExpectations(t)
}

func TestSubscriptionService_Delete(t *testing.T) {
	t.Parallel()

	t.Run("success refreshes the summary", func(t *testing.T) {
		t.Parallel()

		store := new(MockSubscriptionStore)
		id := uuid.New()
		store.On("Delete", mock.Anything, id).Return(nil)
		store.On("List", mock.Anything).Return([]model.Subscription{}, nil)
		svc := newTestService(store)

		assert.NoError(t, svc.Delete(context.Background(), id))
		store.AssertExpectations(t)
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()

		store := new(MockSubscriptionStore)
		id := uuid.New()
		store.On("Delete", mock.Anything, id).Return(errors.New("not found"))
		svc := newTestService(store)

		assert.Error(t, svc.Delete(context.Background(), id))
		store.AssertNotCalled(t, "List", mock.Anything)
	})
}

func TestSubscriptionService_Reset(t *testing.T) {
	t.Parallel()

	store := new(MockSubscriptionStore)
	store.On("ClearAll", mock.Anything).Return(nil)
	store.On("List", mock.Anything).Return([]model.Subscription{}, nil)
	svc := newTestService(store)

	assert.NoError(t, svc.Reset(context.Background()))
	store.AssertExpectations(t)
}

func TestSubscriptionService_List(t *testing.T) {
	t.Parallel()

	store := new(MockSubscriptionStore)
	store.On("List", mock.Anything).Return([]model.Subscription{
		{ID: uuid.New(), Name: "Streaming"},
		{ID: uuid.New(), Name: "Gym", IsActive: false},
	}, nil)
	svc := newTestService(store)

	subs, err := svc.List(context.Background())

	assert.NoError(t, err)
	// Cancelled records are part of history and stay listed.
	assert.Len(t, subs, 2)
	store.AssertExpectations(t)
}
