// Package alert is the single presentation point for user-facing
// messages. Services report outcomes here instead of scattering
// message strings; callers always receive a structured error plus a
// human-readable summary, never a raw transport failure.
package alert

import (
	"errors"
	"log/slog"

	"cinehub/internal/client"
	"cinehub/internal/domain"
	"cinehub/internal/validation"
)

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier delivers a user-facing message. It is an explicit optional
// collaborator: a nil Notifier is valid and drops messages.
type Notifier interface {
	Notify(level Level, message string)
}

// Notify sends a message through n, tolerating a nil notifier.
func Notify(n Notifier, level Level, message string) {
	if n == nil {
		return
	}
	n.Notify(level, message)
}

// SlogNotifier renders notifications through the structured logger.
type SlogNotifier struct{}

func (SlogNotifier) Notify(level Level, message string) {
	switch level {
	case LevelError:
		slog.Error(message)
	case LevelWarning:
		slog.Warn(message)
	default:
		slog.Info(message)
	}
}

// User-facing message catalog.
const (
	MsgNetworkError     = "Network error. Please check your connection."
	MsgQueuedOffline    = "You're offline. The action was saved and will sync when you reconnect."
	MsgTimeout          = "Request timed out. Please try again."
	MsgUnauthorized     = "Authentication required. Please log in."
	MsgForbidden        = "Access denied."
	MsgNotFound         = "Resource not found."
	MsgServerError      = "Server error. Please try again later."
	MsgValidationError  = "Please check your input and try again."
	MsgSessionExpired   = "Your session has expired. Please log in again."
	MsgLoginSuccess     = "Successfully logged in!"
	MsgRegisterSuccess  = "Account created successfully!"
	MsgReviewSaved      = "Review saved successfully!"
	MsgRatingSaved      = "Rating saved successfully!"
	MsgAddedWatchlist   = "Added to your watchlist!"
	MsgRemovedWatchlist = "Removed from your watchlist!"
	MsgProfileUpdated   = "Profile updated successfully!"
	MsgPasswordChanged  = "Password changed successfully"
)

// UserMessage maps an error from the taxonomy to its user-facing
// summary.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, client.ErrQueuedOffline):
		return MsgQueuedOffline
	case errors.Is(err, client.ErrOffline):
		return MsgNetworkError
	case errors.Is(err, client.ErrTimeout):
		return MsgTimeout
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAccountDisabled),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrNotLoggedIn),
		errors.Is(err, domain.ErrNotInWatchlist),
		errors.Is(err, domain.ErrSessionExpired):
		return err.Error()
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		return verr.Error()
	}

	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Status {
		case 401:
			return MsgUnauthorized
		case 403:
			return MsgForbidden
		case 404:
			return MsgNotFound
		}
		return MsgServerError
	}

	return MsgServerError
}
