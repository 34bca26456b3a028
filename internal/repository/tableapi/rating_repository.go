package tableapi

import (
	"context"
	"strconv"
	"time"

	"cinehub/internal/domain"

	"github.com/google/uuid"
)

// RatingRepository implements domain.RatingRepository against the
// ratings collection.
type RatingRepository struct {
	store *Store
}

// NewRatingRepository creates a new table store rating repository
func NewRatingRepository(store *Store) *RatingRepository {
	return &RatingRepository{store: store}
}

// Upsert stores the user's score for a movie, replacing any previous
// rating by the same user.
func (r *RatingRepository) Upsert(ctx context.Context, rating *domain.Rating) error {
	existing, err := r.GetUserMovieRating(ctx, rating.UserID, rating.MovieID)
	if err != nil {
		return err
	}

	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now().UTC()
	}

	if existing != nil {
		rating.ID = existing.ID
		return r.store.Update(ctx, CollectionRatings, existing.ID, rating, rating)
	}

	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	return r.store.Create(ctx, CollectionRatings, rating, rating)
}

// GetUserMovieRating returns the user's rating for a movie, or nil
// when the user has not rated it.
func (r *RatingRepository) GetUserMovieRating(ctx context.Context, userID string, movieID int64) (*domain.Rating, error) {
	var ratings []domain.Rating
	search := pairSearch(userID, movieID)
	if err := r.store.List(ctx, CollectionRatings, Query{Search: search}, &ratings); err != nil {
		return nil, err
	}
	for i := range ratings {
		if ratings[i].UserID == userID && ratings[i].MovieID == movieID {
			return &ratings[i], nil
		}
	}
	return nil, nil
}

// ListByMovie returns every rating for a movie.
func (r *RatingRepository) ListByMovie(ctx context.Context, movieID int64) ([]domain.Rating, error) {
	var ratings []domain.Rating
	err := r.store.List(ctx, CollectionRatings, Query{
		Search: strconv.FormatInt(movieID, 10),
		Sort:   "created_at",
	}, &ratings)
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
