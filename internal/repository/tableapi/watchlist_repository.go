package tableapi

import (
	"context"
	"fmt"
	"time"

	"cinehub/internal/domain"

	"github.com/google/uuid"
)

// WatchlistRepository implements domain.WatchlistRepository against the
// watchlist collection.
type WatchlistRepository struct {
	store *Store
}

// NewWatchlistRepository creates a new table store watchlist repository
func NewWatchlistRepository(store *Store) *WatchlistRepository {
	return &WatchlistRepository{store: store}
}

func pairSearch(userID string, movieID int64) string {
	return fmt.Sprintf("user_id:%s AND movie_id:%d", userID, movieID)
}

func (r *WatchlistRepository) find(ctx context.Context, userID string, movieID int64) (*domain.WatchlistEntry, error) {
	var entries []domain.WatchlistEntry
	if err := r.store.List(ctx, CollectionWatchlist, Query{Search: pairSearch(userID, movieID)}, &entries); err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].UserID == userID && entries[i].MovieID == movieID {
			return &entries[i], nil
		}
	}
	return nil, nil
}

// Add puts a movie on a user's watchlist.
func (r *WatchlistRepository) Add(ctx context.Context, entry *domain.WatchlistEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now().UTC()
	}
	return r.store.Create(ctx, CollectionWatchlist, entry, entry)
}

// Remove takes a movie off a user's watchlist. Removing a movie that
// is not on the list returns domain.ErrNotInWatchlist.
func (r *WatchlistRepository) Remove(ctx context.Context, userID string, movieID int64) error {
	entry, err := r.find(ctx, userID, movieID)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotInWatchlist
	}
	return r.store.Delete(ctx, CollectionWatchlist, entry.ID)
}

// Contains reports whether the movie is on the user's watchlist.
func (r *WatchlistRepository) Contains(ctx context.Context, userID string, movieID int64) (bool, error) {
	entry, err := r.find(ctx, userID, movieID)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

// ListByUser returns a user's watchlist ordered by the given options.
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID string, opts domain.ListOptions) ([]domain.WatchlistEntry, error) {
	sort := opts.Sort
	if sort == "" {
		sort = "added_at"
	}
	var entries []domain.WatchlistEntry
	err := r.store.List(ctx, CollectionWatchlist, Query{
		Search: userID,
		Page:   opts.Page,
		Limit:  opts.Limit,
		Sort:   sort,
	}, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkWatched flags the watchlist entry for the movie as watched.
func (r *WatchlistRepository) MarkWatched(ctx context.Context, userID string, movieID int64) error {
	entry, err := r.find(ctx, userID, movieID)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotInWatchlist
	}

	now := time.Now().UTC()
	entry.Watched = true
	entry.WatchedAt = &now
	return r.store.Update(ctx, CollectionWatchlist, entry.ID, entry, entry)
}
