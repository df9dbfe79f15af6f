package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yogendrabaral1/subscription-tracker/internal/apperror"
	"github.com/yogendrabaral1/subscription-tracker/internal/model"
	"github.com/yogendrabaral1/subscription-tracker/internal/repository"
	"github.com/yogendrabaral1/subscription-tracker/pkg/currency"
)

var (
	ErrInvalidTheme    = errors.New("theme must be 'light' or 'dark'")
	ErrInvalidCurrency = errors.New("unsupported currency code")
)

// UserStore defines the storage contract for the single local profile.
type UserStore interface {
	Get(ctx context.Context) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
}

// UserService manages the local settings profile. There is no authentication
// or session: the profile is a settings bag for currency, reminder default,
// and theme.
type UserService struct {
	store UserStore
	now   func() time.Time
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store, now: time.Now}
}

type SaveUserInput struct {
	Name                string      `json:"name"`
	Email               string      `json:"email"`
	DefaultReminderDays int         `json:"defaultReminderDays"`
	Theme               model.Theme `json:"theme"`
	Currency            string      `json:"currency"`
}

// Get returns the stored profile, or (nil, nil) on a fresh install.
func (s *UserService) Get(ctx context.Context) (*model.User, error) {
	user, err := s.store.Get(ctx)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading user profile: %w", err)
	}
	return user, nil
}

// Save validates and upserts the profile, creating it on first save.
func (s *UserService) Save(ctx context.Context, input SaveUserInput) (*model.User, error) {
	if input.Theme != model.ThemeLight && input.Theme != model.ThemeDark {
		return nil, apperror.Validation("theme", ErrInvalidTheme)
	}
	if input.Currency != "" && !currency.IsValid(input.Currency) {
		return nil, apperror.Validation("currency", ErrInvalidCurrency)
	}
	if input.DefaultReminderDays < 0 {
		return nil, apperror.Validation("defaultReminderDays", ErrInvalidReminderDays)
	}

	now := s.now().UTC()
	user, err := s.store.Get(ctx)
	if errors.Is(err, repository.ErrUserNotFound) {
		user = &model.User{ID: uuid.New(), CreatedAt: now}
	} else if err != nil {
		return nil, fmt.Errorf("loading user profile: %w", err)
	}

	user.Name = input.Name
	user.Email = input.Email
	user.DefaultReminderDays = input.DefaultReminderDays
	user.Theme = input.Theme
	user.Currency = input.Currency
	if user.Currency == "" {
		user.Currency = string(currency.DefaultCurrency)
	}
	user.UpdatedAt = now

	if err := s.store.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("saving user profile: %w", err)
	}
	return user, nil
}
