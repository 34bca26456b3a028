package tableapi

import (
	"context"
	"testing"

	"cinehub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAssignsID(t *testing.T) {
	f := newFakeTableServer(t)
	repo := NewUserRepository(newTestStore(t, f))

	user := &domain.User{Username: "alice", Email: "alice@example.com", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), user))

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, 1, f.count(CollectionUsers))
}

func TestUserRepository_GetByEmail_ExactMatchAmongFuzzyResults(t *testing.T) {
	f := newFakeTableServer(t)
	repo := NewUserRepository(newTestStore(t, f))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Username: "bob", Email: "bob@example.com"}))
	require.NoError(t, repo.Create(ctx, &domain.User{Username: "bobby", Email: "bob@example.com.au"}))

	user, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username, "fuzzy search results must be narrowed to the exact email")
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	f := newFakeTableServer(t)
	repo := NewUserRepository(newTestStore(t, f))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	f := newFakeTableServer(t)
	repo := NewUserRepository(newTestStore(t, f))

	_, err := repo.GetByID(context.Background(), "missing-id")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	f := newFakeTableServer(t)
	repo := NewUserRepository(newTestStore(t, f))
	ctx := context.Background()

	user := &domain.User{Username: "carol", Email: "carol@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	user.FirstName = "Carol"
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol", got.FirstName)
}
