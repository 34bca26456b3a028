package domain

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists covers both duplicate email and duplicate username:
	// registration must not reveal which field collided.
	ErrUserExists = errors.New("a user with this email or username already exists")
	// ErrInvalidCredentials is intentionally generic so a failed login
	// does not reveal whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrNotLoggedIn        = errors.New("user not logged in")
	ErrSessionExpired     = errors.New("session expired")
	ErrNotInWatchlist     = errors.New("movie not found in watchlist")
)
