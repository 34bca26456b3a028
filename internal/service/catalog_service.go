package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cinehub/internal/alert"
	"cinehub/internal/client"
	"cinehub/internal/config"
	"cinehub/internal/domain"
	"cinehub/internal/storage"
	"cinehub/internal/tmdb"
	"cinehub/internal/validation"

	"github.com/google/uuid"
)

// searchHistoryLimit caps how many recent search terms are remembered.
const searchHistoryLimit = 10

// SessionSource exposes the current session to services that need the
// logged-in identity without owning the auth lifecycle.
type SessionSource interface {
	CurrentSession() *domain.Session
}

// CatalogService is the application-facing surface for browsing movie
// metadata and managing per-user watchlists, ratings, and reviews.
type CatalogService struct {
	meta     *tmdb.Client
	reviews  domain.ReviewRepository
	ratings  domain.RatingRepository
	watch    domain.WatchlistRepository
	store    *storage.Store
	sessions SessionSource
	cfg      *config.Config
	notify   alert.Notifier
	now      func() time.Time
}

func NewCatalogService(
	meta *tmdb.Client,
	reviews domain.ReviewRepository,
	ratings domain.RatingRepository,
	watch domain.WatchlistRepository,
	store *storage.Store,
	sessions SessionSource,
	cfg *config.Config,
	notify alert.Notifier,
) *CatalogService {
	return &CatalogService{
		meta:     meta,
		reviews:  reviews,
		ratings:  ratings,
		watch:    watch,
		store:    store,
		sessions: sessions,
		cfg:      cfg,
		notify:   notify,
		now:      time.Now,
	}
}

func (s *CatalogService) currentUserID() (string, error) {
	session := s.sessions.CurrentSession()
	if session == nil {
		return "", domain.ErrNotLoggedIn
	}
	return session.ID, nil
}

// Browsing passthroughs. The request layer underneath handles rate
// limiting and response caching, so these stay thin.

// Trending returns this week's trending movies. The first page is
// mirrored to local storage so a connectivity failure can still show
// something, matching the stale-better-than-nothing home screen.
func (s *CatalogService) Trending(ctx context.Context, page int) (*domain.MoviePage, error) {
	result, err := s.meta.Trending(ctx, page)
	if err != nil {
		if page <= 1 && client.IsNetworkError(err) {
			var cached domain.MoviePage
			if s.store.Get(config.KeyCachedMovies, &cached) {
				slog.Info("serving locally cached trending movies", slog.String("reason", err.Error()))
				return &cached, nil
			}
		}
		return nil, err
	}
	if page <= 1 {
		if err := s.store.Set(config.KeyCachedMovies, result); err != nil {
			slog.Warn("failed to mirror trending movies", slog.String("error", err.Error()))
		}
	}
	return result, nil
}

func (s *CatalogService) Popular(ctx context.Context, page int) (*domain.MoviePage, error) {
	return s.meta.Popular(ctx, page)
}

func (s *CatalogService) TopRated(ctx context.Context, page int) (*domain.MoviePage, error) {
	return s.meta.TopRated(ctx, page)
}

func (s *CatalogService) NowPlaying(ctx context.Context, page int) (*domain.MoviePage, error) {
	return s.meta.NowPlaying(ctx, page)
}

func (s *CatalogService) Upcoming(ctx context.Context, page int) (*domain.MoviePage, error) {
	return s.meta.Upcoming(ctx, page)
}

func (s *CatalogService) Genres(ctx context.Context) (*domain.GenreList, error) {
	return s.meta.Genres(ctx)
}

func (s *CatalogService) Details(ctx context.Context, movieID int64) (*domain.MovieDetails, error) {
	return s.meta.Details(ctx, movieID)
}

// Search looks up movies by title. Terms shorter than two characters
// are rejected before any network call, results are capped, and the
// term is remembered in the local search history.
func (s *CatalogService) Search(ctx context.Context, query string, page int) (*domain.MoviePage, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, &validation.Error{Violations: []string{"Search term must be at least 2 characters"}}
	}

	result, err := s.meta.Search(ctx, query, page)
	if err != nil {
		return nil, err
	}
	if len(result.Results) > s.cfg.MaxSearchResults {
		result.Results = result.Results[:s.cfg.MaxSearchResults]
	}

	s.recordSearch(query)
	return result, nil
}

func (s *CatalogService) recordSearch(query string) {
	var history []string
	s.store.Get(config.KeySearchHistory, &history)

	// Move the term to the front, dropping any earlier occurrence.
	deduped := make([]string, 0, len(history)+1)
	deduped = append(deduped, query)
	for _, term := range history {
		if !strings.EqualFold(term, query) {
			deduped = append(deduped, term)
		}
	}
	if len(deduped) > searchHistoryLimit {
		deduped = deduped[:searchHistoryLimit]
	}

	if err := s.store.Set(config.KeySearchHistory, deduped); err != nil {
		slog.Warn("failed to persist search history", slog.String("error", err.Error()))
	}
}

// SearchHistory returns remembered search terms, most recent first.
func (s *CatalogService) SearchHistory() []string {
	var history []string
	s.store.Get(config.KeySearchHistory, &history)
	return history
}

func (s *CatalogService) ClearSearchHistory() error {
	return s.store.Remove(config.KeySearchHistory)
}

// Preferences returns the stored user preferences, zero-valued when
// none were saved.
func (s *CatalogService) Preferences() domain.Preferences {
	var prefs domain.Preferences
	s.store.Get(config.KeyUserPreferences, &prefs)
	return prefs
}

// SavePreferences merges the non-empty fields of update into the
// stored preferences. The theme is additionally mirrored under its own
// key so it can be read without decoding the full preference record.
func (s *CatalogService) SavePreferences(update domain.Preferences) error {
	prefs := s.Preferences()
	if update.Language != "" {
		prefs.Language = update.Language
	}
	if update.Region != "" {
		prefs.Region = update.Region
	}
	if update.Theme != "" {
		prefs.Theme = update.Theme
	}
	if err := s.store.Set(config.KeyUserPreferences, prefs); err != nil {
		return err
	}
	if prefs.Theme != "" {
		return s.store.Set(config.KeyTheme, prefs.Theme)
	}
	return nil
}

// ToggleWatchlist adds the movie to the current user's watchlist, or
// removes it when already present. It returns whether the movie is on
// the watchlist after the call.
func (s *CatalogService) ToggleWatchlist(ctx context.Context, movieID int64) (bool, error) {
	userID, err := s.currentUserID()
	if err != nil {
		return false, err
	}

	present, err := s.watch.Contains(ctx, userID, movieID)
	if err != nil {
		return false, err
	}

	if present {
		if err := s.watch.Remove(ctx, userID, movieID); err != nil {
			return true, err
		}
		alert.Notify(s.notify, alert.LevelInfo, alert.MsgRemovedWatchlist)
		return false, nil
	}

	entry := &domain.WatchlistEntry{
		ID:      uuid.New().String(),
		UserID:  userID,
		MovieID: movieID,
		AddedAt: s.now(),
	}
	if err := s.watch.Add(ctx, entry); err != nil {
		return false, err
	}
	alert.Notify(s.notify, alert.LevelSuccess, alert.MsgAddedWatchlist)
	return true, nil
}

func (s *CatalogService) IsInWatchlist(ctx context.Context, movieID int64) (bool, error) {
	userID, err := s.currentUserID()
	if err != nil {
		return false, err
	}
	return s.watch.Contains(ctx, userID, movieID)
}

func (s *CatalogService) Watchlist(ctx context.Context, opts domain.ListOptions) ([]domain.WatchlistEntry, error) {
	userID, err := s.currentUserID()
	if err != nil {
		return nil, err
	}
	return s.watch.ListByUser(ctx, userID, opts)
}

func (s *CatalogService) MarkWatched(ctx context.Context, movieID int64) error {
	userID, err := s.currentUserID()
	if err != nil {
		return err
	}
	return s.watch.MarkWatched(ctx, userID, movieID)
}

// RateMovie records the current user's score for a movie, replacing
// any previous score. Scores outside the configured bounds never
// reach the network.
func (s *CatalogService) RateMovie(ctx context.Context, movieID int64, score float64) error {
	userID, err := s.currentUserID()
	if err != nil {
		return err
	}
	if score < s.cfg.MinRating || score > s.cfg.MaxRating {
		return &validation.Error{Violations: []string{
			fmt.Sprintf("Rating must be between %g and %g", s.cfg.MinRating, s.cfg.MaxRating),
		}}
	}

	rating := &domain.Rating{
		UserID:    userID,
		MovieID:   movieID,
		Score:     score,
		CreatedAt: s.now(),
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return err
	}
	alert.Notify(s.notify, alert.LevelSuccess, alert.MsgRatingSaved)
	return nil
}

func (s *CatalogService) UserRating(ctx context.Context, movieID int64) (*domain.Rating, error) {
	userID, err := s.currentUserID()
	if err != nil {
		return nil, err
	}
	return s.ratings.GetUserMovieRating(ctx, userID, movieID)
}

// SubmitReview validates and stores a review by the current user. All
// violations are reported together.
func (s *CatalogService) SubmitReview(ctx context.Context, movieID int64, title, content string) (*domain.Review, error) {
	userID, err := s.currentUserID()
	if err != nil {
		return nil, err
	}

	var violations []string
	violations = append(violations, validation.Validate(validation.FieldReviewTitle, title)...)
	violations = append(violations, validation.Validate(validation.FieldReviewContent, content)...)
	if err := validation.Collect(violations); err != nil {
		return nil, err
	}

	now := s.now()
	review := &domain.Review{
		ID:        uuid.New().String(),
		UserID:    userID,
		MovieID:   movieID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	alert.Notify(s.notify, alert.LevelSuccess, alert.MsgReviewSaved)
	return review, nil
}

func (s *CatalogService) MovieReviews(ctx context.Context, movieID int64, page int) ([]domain.Review, error) {
	return s.reviews.ListByMovie(ctx, movieID, domain.ListOptions{
		Page:  page,
		Limit: s.cfg.ReviewsPerPage,
	})
}

func (s *CatalogService) MyReviews(ctx context.Context, page int) ([]domain.Review, error) {
	userID, err := s.currentUserID()
	if err != nil {
		return nil, err
	}
	return s.reviews.ListByUser(ctx, userID, domain.ListOptions{
		Page:  page,
		Limit: s.cfg.ReviewsPerPage,
	})
}

// LikeReview records a like or dislike by the current user, replacing
// any previous reaction to the same review.
func (s *CatalogService) LikeReview(ctx context.Context, reviewID string, isLike bool) error {
	userID, err := s.currentUserID()
	if err != nil {
		return err
	}
	return s.reviews.SetLike(ctx, &domain.ReviewLike{
		UserID:    userID,
		ReviewID:  reviewID,
		IsLike:    isLike,
		CreatedAt: s.now(),
	})
}
