package model

import (
	"time"

	"github.com/google/uuid"
)

// Theme is the display theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// User is the single local profile: a settings bag, not an account. At most
// one record is meaningful per installation.
type User struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	Email               string    `db:"email" json:"email"`
	DefaultReminderDays int       `db:"default_reminder_days" json:"defaultReminderDays"`
	Theme               Theme     `db:"theme" json:"theme"`
	Currency            string    `db:"currency" json:"currency"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}
