package domain

import (
	"context"
	"time"
)

// WatchlistEntry links a user and a movie on their watchlist.
type WatchlistEntry struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	MovieID   int64      `json:"movie_id"`
	AddedAt   time.Time  `json:"added_at"`
	Priority  string     `json:"priority"`
	Watched   bool       `json:"watched"`
	WatchedAt *time.Time `json:"watched_at,omitempty"`
	Notes     string     `json:"notes"`
}

// WatchlistRepository defines the interface for watchlist access
type WatchlistRepository interface {
	Add(ctx context.Context, entry *WatchlistEntry) error
	Remove(ctx context.Context, userID string, movieID int64) error
	Contains(ctx context.Context, userID string, movieID int64) (bool, error)
	ListByUser(ctx context.Context, userID string, opts ListOptions) ([]WatchlistEntry, error)
	MarkWatched(ctx context.Context, userID string, movieID int64) error
}
