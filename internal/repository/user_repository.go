package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/yogendrabaral1/subscription-tracker/internal/apperror"
	"github.com/yogendrabaral1/subscription-tracker/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Get returns the single local profile. ErrUserNotFound means no profile has
// been saved yet, which is a normal first-run state, not a failure.
func (r *UserRepository) Get(ctx context.Context) (*model.User, error) {
	var user model.User
	query := `SELECT * FROM users LIMIT 1`
	err := r.db.GetContext(ctx, &user, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user profile", ErrUserNotFound)
	}
	if err != nil {
		return nil, apperror.Storage(err, "could not read profile")
	}
	return &user, nil
}

// Save upserts the profile. There is at most one meaningful record per
// installation.
func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, name, email, default_reminder_days, theme, currency, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			default_reminder_days = excluded.default_reminder_days,
			theme = excluded.theme,
			currency = excluded.currency,
			updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.DefaultReminderDays, user.Theme, user.Currency,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return apperror.Storage(err, "could not save profile")
	}
	return nil
}
