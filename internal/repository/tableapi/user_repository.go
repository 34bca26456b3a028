package tableapi

import (
	"context"
	"strings"

	"cinehub/internal/domain"

	"github.com/google/uuid"
)

// UserRepository implements domain.UserRepository against the users
// collection.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new table store user repository
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create inserts a new user record. A missing ID is assigned locally.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return r.store.Create(ctx, CollectionUsers, user, user)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user := &domain.User{}
	err := r.store.Get(ctx, CollectionUsers, id, user)
	if isNotFound(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email. The table store search is
// fuzzy, so results are filtered down to an exact match.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findExact(ctx, email, func(u *domain.User) string { return u.Email })
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findExact(ctx, username, func(u *domain.User) string { return u.Username })
}

func (r *UserRepository) findExact(ctx context.Context, value string, field func(*domain.User) string) (*domain.User, error) {
	var users []domain.User
	if err := r.store.List(ctx, CollectionUsers, Query{Search: value}, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(field(&users[i]), value) {
			return &users[i], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Update replaces the stored user record.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	err := r.store.Update(ctx, CollectionUsers, user.ID, user, user)
	if isNotFound(err) {
		return domain.ErrUserNotFound
	}
	return err
}
