package tableapi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cinehub/internal/domain"

	"github.com/google/uuid"
)

// ReviewRepository implements domain.ReviewRepository against the
// reviews and review_likes collections.
type ReviewRepository struct {
	store *Store
}

// NewReviewRepository creates a new table store review repository
func NewReviewRepository(store *Store) *ReviewRepository {
	return &ReviewRepository{store: store}
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = now
	return r.store.Create(ctx, CollectionReviews, review, review)
}

// Update replaces an existing review.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	review.UpdatedAt = time.Now().UTC()
	return r.store.Update(ctx, CollectionReviews, review.ID, review, review)
}

// Delete removes a review by id.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, CollectionReviews, id)
}

// ListByMovie returns reviews for a movie, newest first by default.
func (r *ReviewRepository) ListByMovie(ctx context.Context, movieID int64, opts domain.ListOptions) ([]domain.Review, error) {
	return r.list(ctx, strconv.FormatInt(movieID, 10), opts)
}

// ListByUser returns reviews written by a user.
func (r *ReviewRepository) ListByUser(ctx context.Context, userID string, opts domain.ListOptions) ([]domain.Review, error) {
	return r.list(ctx, userID, opts)
}

func (r *ReviewRepository) list(ctx context.Context, search string, opts domain.ListOptions) ([]domain.Review, error) {
	sort := opts.Sort
	if sort == "" {
		sort = "created_at"
	}
	var reviews []domain.Review
	err := r.store.List(ctx, CollectionReviews, Query{
		Search: search,
		Page:   opts.Page,
		Limit:  opts.Limit,
		Sort:   sort,
	}, &reviews)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// SetLike records a like or dislike, replacing any existing reaction
// by the same user on the same review.
func (r *ReviewRepository) SetLike(ctx context.Context, like *domain.ReviewLike) error {
	existing, err := r.GetLike(ctx, like.UserID, like.ReviewID)
	if err != nil {
		return err
	}

	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now().UTC()
	}

	if existing != nil {
		like.ID = existing.ID
		return r.store.Update(ctx, CollectionReviewLikes, existing.ID, like, like)
	}

	if like.ID == "" {
		like.ID = uuid.New().String()
	}
	return r.store.Create(ctx, CollectionReviewLikes, like, like)
}

// GetLike returns the user's reaction to a review, or nil when the
// user has not reacted.
func (r *ReviewRepository) GetLike(ctx context.Context, userID, reviewID string) (*domain.ReviewLike, error) {
	var likes []domain.ReviewLike
	search := fmt.Sprintf("user_id:%s AND review_id:%s", userID, reviewID)
	if err := r.store.List(ctx, CollectionReviewLikes, Query{Search: search}, &likes); err != nil {
		return nil, err
	}
	for i := range likes {
		if likes[i].UserID == userID && likes[i].ReviewID == reviewID {
			return &likes[i], nil
		}
	}
	return nil, nil
}

// ListLikes returns every reaction on a review.
func (r *ReviewRepository) ListLikes(ctx context.Context, reviewID string) ([]domain.ReviewLike, error) {
	var likes []domain.ReviewLike
	if err := r.store.List(ctx, CollectionReviewLikes, Query{Search: reviewID}, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}
