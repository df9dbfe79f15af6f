package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yogendrabaral1/subscription-tracker/internal/apperror"
	"github.com/yogendrabaral1/subscription-tracker/internal/model"
	"github.com/yogendrabaral1/subscription-tracker/internal/repository"
)

// MockUserStore implements UserStore for testing
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Get(ctx context.Context) (*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func TestUserService_Get(t *testing.T) {
	t.Parallel()

	t.Run("fresh install yields no profile and no error", func(t *testing.T) {
		t.Parallel()

		store := new(MockUserStore)
		store.On("Get", mock.Anything).Return(nil, repository.ErrUserNotFound)
		svc := NewUserService(store)

		user, err := svc.Get(context.Background())

		assert.NoError(t, err)
		assert.Nil(t, user)
		store.AssertExpectations(t)
	})

	t.Run("classified not found also means fresh install", func(t *testing.T) {
		t.Parallel()

		store := new(MockUserStore)
		store.On("Get", mock.Anything).Return(nil, apperror.NotFound("user profile", repository.ErrUserNotFound))
		svc := NewUserService(store)

		user, err := svc.Get(context.Background())

		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("existing profile", func(t *testing.T) {
		t.Parallel()

		store := new(MockUserStore)
		store.On("Get", mock.Anything).Return(&model.User{ID: uuid.New(), Name: "Alex"}, nil)
		svc := NewUserService(store)

		user, err := svc.Get(context.Background())

		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "Alex", user.Name)
	})

	t.Run("storage error propagates", func(t *testing.T) {
		t.Parallel()

		store := new(MockUserStore)
		store.On("Get", mock.Anything).Return(nil, errors.New("disk error"))
		svc := NewUserService(store)

		user, err := svc.Get(context.Background())

		assert.Error(t, err)
		assert.Nil(t, user)
	})
}

func TestUserService_Save(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     SaveUserInput
		setupMock func(*MockUserStore)
		wantErr   error
		check     func(*testing.T, *model.User)
	}{
		{
			name: "first save creates the profile",
			input: SaveUserInput{
				Name:                "Alex",
				Email:               "alex@example.com",
				DefaultReminderDays: 2,
				Theme:               model.ThemeDark,
				Currency:            "USD",
			},
			setupMock: func(m *MockUserStore) {
				m.On("Get", mock.Anything).Return(nil, repository.ErrUserNotFound)
				m.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			check: func(t *testing.T, user *model.User) {
				assert.NotEqual(t, uuid.Nil, user.ID)
				assert.Equal(t, "Alex", user.Name)
				assert.Equal(t, model.ThemeDark, user.Theme)
				assert.Equal(t, "USD", user.Currency)
				assert.False(t, user.CreatedAt.IsZero())
			},
		},
		{
			name: "empty currency defaults to home currency",
			input: SaveUserInput{
				Name:  "Alex",
				Theme: model.ThemeLight,
			},
			setupMock: func(m *MockUserStore) {
				m.On("Get", mock.Anything).Return(nil, repository.ErrUserNotFound)
				m.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			check: func(t *testing.T, user *model.User) {
				assert.Equal(t, "INR", user.Currency)
			},
		},
		{
			name: "second save keeps the identity",
			input: SaveUserInput{
				Name:     "Alex Updated",
				Theme:    model.ThemeLight,
				Currency: "EUR",
			},
			setupMock: func(m *MockUserStore) {
				existing := &model.User{ID: uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"), Name: "Alex"}
				m.On("Get", mock.Anything).Return(existing, nil)
				m.On("Save", mock.Anything, mock.MatchedBy(func(user *model.User) bool {
					return user.ID == existing.ID && user.Name == "Alex Updated"
				})).Return(nil)
			},
			check: func(t *testing.T, user *model.User) {
				assert.Equal(t, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", user.ID.String())
			},
		},
		{
			name:      "invalid theme",
			input:     SaveUserInput{Theme: model.Theme("solarized")},
			setupMock: func(m *MockUserStore) {},
			wantErr:   ErrInvalidTheme,
		},
		{
			name:      "invalid currency",
			input:     SaveUserInput{Theme: model.ThemeLight, Currency: "XYZ"},
			setupMock: func(m *MockUserStore) {},
			wantErr:   ErrInvalidCurrency,
		},
		{
			name:      "negative reminder days",
			input:     SaveUserInput{Theme: model.ThemeLight, DefaultReminderDays: -1},
			setupMock: func(m *MockUserStore) {},
			wantErr:   ErrInvalidReminderDays,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := new(MockUserStore)
			tt.setupMock(store)
			svc := NewUserService(store)

			user, err := svc.Save(context.Background(), tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, apperror.KindValidation, apperror.GetKind(err))
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, user)
				if tt.check != nil {
					tt.check(t, user)
				}
			}
			store.AssertExpectations(t)
		})
	}
}
