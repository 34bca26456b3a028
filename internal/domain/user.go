package domain

import (
	"context"
	"time"
)

// User represents a registered account as stored in the users table.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"password_hash"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Bio            string    `json:"bio"`
	FavoriteGenres []string  `json:"favorite_genres"`
	ProfileImage   string    `json:"profile_image"`
	JoinDate       time.Time `json:"join_date"`
	LastLogin      time.Time `json:"last_login"`
	IsActive       bool      `json:"is_active"`
}

// ProfileUpdate carries the mutable profile fields. Empty fields are
// left unchanged.
type ProfileUpdate struct {
	FirstName      string   `json:"first_name,omitempty"`
	LastName       string   `json:"last_name,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	ProfileImage   string   `json:"profile_image,omitempty"`
	FavoriteGenres []string `json:"favorite_genres,omitempty"`
}

// Preferences are locally persisted user settings that override the
// configured locale defaults.
type Preferences struct {
	Language string `json:"language,omitempty"`
	Region   string `json:"region,omitempty"`
	Theme    string `json:"theme,omitempty"`
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) error
}
