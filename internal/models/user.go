package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated user in the system.
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"-"`
	FirstName         string    `gorm:"size:100" json:"firstName"`
	LastName          string    `gorm:"size:100" json:"lastName"`
	Email             string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password          string    `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	PrimaryAreaOfWork string    `gorm:"size:255" json:"primaryAreaOfWork,omitempty"`
}

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// BeforeSave normalises the email so lookups can match on equality.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// PasswordResetToken is a single-use token mailed to a user who forgot their password.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"-"`
	Token     string    `gorm:"size:64;uniqueIndex;not null"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

// Expired reports whether the token is no longer usable at now.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// All lists every model for AutoMigrate, in dependency order.
func All() []any {
	return []any{
		&User{}, &PasswordResetToken{}, &Article{}, &Project{}, &Quote{}, &QuoteItem{}, &CalendarEvent{},
	}
}
