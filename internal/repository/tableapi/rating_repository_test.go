package tableapi

import (
	"context"
	"testing"

	"cinehub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingRepository_UpsertCreatesThenReplaces(t *testing.T) {
	f := newFakeTableServer(t)
	repo := NewRatingRepository(newTestStore(t, f))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.Rating{UserID: "user-1", MovieID: 603, Score: 7}))
	require.NoError(t, repo.Upsert(ctx, &domain.Rating{UserID: "user-1", MovieID: 603, Score: 9}))

	assert.Equal(t, 1, f.count(CollectionRatings), "second Upsert must replace, not duplicate")

	got, err := repo.GetUserMovieRating(ctx, "user-1", 603)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 9.0, got.Score)
}

func TestRatingRepository_GetUserMovieRating_Absent(t *testing.T) {
	f := newFakeTableServer(t)
	repo := NewRatingRepository(newTestStore(t, f))

	got, err := repo.GetUserMovieRating(context.Background(), "user-1", 603)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReviewRepository_SetLikeUpserts(t *testing.T) {
	f := newFakeTableServer(t)
	repo := NewReviewRepository(newTestStore(t, f))
	ctx := context.Background()

	require.NoError(t, repo.SetLike(ctx, &domain.ReviewLike{UserID: "user-1", ReviewID: "rev-1", IsLike: true}))
	require.NoError(t, repo.SetLike(ctx, &domain.ReviewLike{UserID: "user-1", ReviewID: "rev-1", IsLike: false}))

	assert.Equal(t, 1, f.count(CollectionReviewLikes))

	like, err := repo.GetLike(ctx, "user-1", "rev-1")
	require.NoError(t, err)
	require.NotNil(t, like)
	assert.False(t, like.IsLike)
}
