package domain

import (
	"context"
	"time"
)

// Review is a user-authored movie review stored in the reviews table.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rating is a 1-10 score a user gave a movie.
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewLike records a like or dislike on a review.
type ReviewLike struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ReviewID  string    `json:"review_id"`
	IsLike    bool      `json:"is_like"`
	CreatedAt time.Time `json:"created_at"`
}

// ListOptions controls pagination and ordering of list queries.
type ListOptions struct {
	Page  int
	Limit int
	Sort  string
}

// ReviewRepository defines the interface for review and review-like access
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id string) error
	ListByMovie(ctx context.Context, movieID int64, opts ListOptions) ([]Review, error)
	ListByUser(ctx context.Context, userID string, opts ListOptions) ([]Review, error)
	SetLike(ctx context.Context, like *ReviewLike) error
	GetLike(ctx context.Context, userID, reviewID string) (*ReviewLike, error)
	ListLikes(ctx context.Context, reviewID string) ([]ReviewLike, error)
}

// RatingRepository defines the interface for rating access
type RatingRepository interface {
	Upsert(ctx context.Context, rating *Rating) error
	GetUserMovieRating(ctx context.Context, userID string, movieID int64) (*Rating, error)
	ListByMovie(ctx context.Context, movieID int64) ([]Rating, error)
}
