package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cinehub/internal/alert"
	"cinehub/internal/config"
	"cinehub/internal/domain"
	"cinehub/internal/observability"
	"cinehub/internal/storage"
	"cinehub/internal/validation"

	"github.com/google/uuid"
)

// CacheClearer lets the session layer flush response caches on logout
// without depending on the whole request client.
type CacheClearer interface {
	ClearCache()
}

// Navigator is an optional collaborator that knows the current page
// and can move the user elsewhere. Nil means no navigation happens.
type Navigator interface {
	CurrentPage() string
	Navigate(page string)
}

// protectedPages require a live session; logging out while on one
// redirects home.
var protectedPages = map[string]struct{}{
	"profile":   {},
	"watchlist": {},
}

// RegisterInput carries everything the registration form collects.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
}

// AuthService owns the lifecycle of the local session: registration,
// login, logout, expiry, and the bearer token handed to the request
// layer.
type AuthService struct {
	users  domain.UserRepository
	store  *storage.Store
	caches CacheClearer
	hasher PasswordHasher
	legacy PasswordHasher
	minter TokenMinter
	cfg    *config.Config
	nav    Navigator
	notify alert.Notifier
	now    func() time.Time

	mu      sync.RWMutex
	session *domain.Session
}

func NewAuthService(
	users domain.UserRepository,
	store *storage.Store,
	caches CacheClearer,
	hasher PasswordHasher,
	minter TokenMinter,
	cfg *config.Config,
	nav Navigator,
	notify alert.Notifier,
) *AuthService {
	return &AuthService{
		users:  users,
		store:  store,
		caches: caches,
		hasher: hasher,
		legacy: LegacyHasher{},
		minter: minter,
		cfg:    cfg,
		nav:    nav,
		notify: notify,
		now:    time.Now,
	}
}

// Register validates the input, creates the account, and logs the new
// user in. All validation failures are reported together, and nothing
// touches the network until the input is clean.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	var violations []string
	violations = append(violations, validation.Validate(validation.FieldUsername, in.Username)...)
	violations = append(violations, validation.Validate(validation.FieldEmail, in.Email)...)
	violations = append(violations, validation.Validate(validation.FieldPassword, in.Password)...)
	if in.Password != in.ConfirmPassword {
		violations = append(violations, "Passwords do not match")
	}
	if err := validation.Collect(violations); err != nil {
		return nil, err
	}

	if existing, err := s.users.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, domain.ErrUserExists
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing, err := s.users.GetByUsername(ctx, in.Username); err == nil && existing != nil {
		return nil, domain.ErrUserExists
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		JoinDate:     now,
		LastLogin:    now,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.establish(user); err != nil {
		return nil, err
	}
	alert.Notify(s.notify, alert.LevelSuccess, alert.MsgRegisterSuccess)
	return user, nil
}

// Login authenticates by email. The failure mode is deliberately
// identical for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if email == "" || password == "" {
		return nil, &validation.Error{Violations: []string{"Please enter your email and password"}}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			observability.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.verifyPassword(user.PasswordHash, password) {
		observability.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		observability.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrAccountDisabled
	}

	if err := s.establish(user); err != nil {
		return nil, err
	}
	observability.LoginsTotal.WithLabelValues("success").Inc()

	// Best effort: a failed bookkeeping write must not fail the login.
	user.LastLogin = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		slog.Warn("failed to record last login",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()))
	}

	alert.Notify(s.notify, alert.LevelSuccess, alert.MsgLoginSuccess)
	return s.CurrentSession(), nil
}

func (s *AuthService) verifyPassword(hash, password string) bool {
	if s.hasher.Verify(hash, password) {
		return true
	}
	return s.legacy.Verify(hash, password)
}

// establish mints a token and persists the new session. The session
// clock starts here: validity is anchored to login, not activity.
func (s *AuthService) establish(user *domain.User) error {
	now := s.now()
	token, err := s.minter.Mint(user.ID, user.Username, now)
	if err != nil {
		return fmt.Errorf("failed to mint session token: %w", err)
	}

	session := &domain.Session{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		ProfileImage:   user.ProfileImage,
		FavoriteGenres: user.FavoriteGenres,
		JoinDate:       user.JoinDate,
		LoginTime:      now,
		LastActivity:   now,
		Token:          token,
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	if err := s.store.Set(config.KeyUserSession, session); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Logout ends the session, wipes it from local storage, flushes the
// response cache so nothing leaks across identities, and steers the
// user off any page that needs a login.
func (s *AuthService) Logout() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	if err := s.store.Remove(config.KeyUserSession); err != nil {
		slog.Warn("failed to remove persisted session", slog.String("error", err.Error()))
	}
	if s.caches != nil {
		s.caches.ClearCache()
	}

	if s.nav != nil {
		if _, protected := protectedPages[s.nav.CurrentPage()]; protected {
			s.nav.Navigate("home")
		}
	}
}

// LoadSession restores a persisted session on startup. An expired or
// missing session leaves the service logged out, and expired state is
// scrubbed from storage.
func (s *AuthService) LoadSession() bool {
	var session domain.Session
	if !s.store.Get(config.KeyUserSession, &session) {
		return false
	}
	if !session.Valid(s.now(), s.cfg.SessionLifetime) {
		if err := s.store.Remove(config.KeyUserSession); err != nil {
			slog.Warn("failed to remove expired session", slog.String("error", err.Error()))
		}
		return false
	}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()
	return true
}

// StartMonitor watches for expiry on a fixed interval and logs the
// user out when the session lifetime elapses. It returns immediately;
// the watch stops when ctx is cancelled.
func (s *AuthService) StartMonitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.cfg.SessionCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.checkExpiry()
			}
		}
	}()
}

func (s *AuthService) checkExpiry() {
	s.mu.RLock()
	session := s.session
	s.mu.RUnlock()

	if session == nil || session.Valid(s.now(), s.cfg.SessionLifetime) {
		return
	}

	observability.SessionsExpiredTotal.Inc()
	slog.Info("session expired", slog.String("user_id", session.ID))
	alert.Notify(s.notify, alert.LevelWarning, alert.MsgSessionExpired)
	s.Logout()
}

// TrackActivity stamps the session with the current time. Activity
// never extends the session: expiry stays anchored to login time.
func (s *AuthService) TrackActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return
	}
	s.session.Touch(s.now())
	if err := s.store.Set(config.KeyUserSession, s.session); err != nil {
		slog.Warn("failed to persist session activity", slog.String("error", err.Error()))
	}
}

// CurrentSession returns the live session, or nil when logged out.
func (s *AuthService) CurrentSession() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil || !s.session.Valid(s.now(), s.cfg.SessionLifetime) {
		return nil
	}
	return s.session
}

func (s *AuthService) IsLoggedIn() bool {
	return s.CurrentSession() != nil
}

// Token implements the bearer token source for the request layer. An
// expired or absent session yields no token.
func (s *AuthService) Token() string {
	session := s.CurrentSession()
	if session == nil {
		return ""
	}
	return session.Token
}

// UpdateProfile applies the non-empty fields of update to the current
// user and refreshes the session copy of the profile.
func (s *AuthService) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	session := s.CurrentSession()
	if session == nil {
		return nil, domain.ErrNotLoggedIn
	}

	user, err := s.users.GetByID(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}
	if update.Bio != "" {
		user.Bio = update.Bio
	}
	if update.ProfileImage != "" {
		user.ProfileImage = update.ProfileImage
	}
	if update.FavoriteGenres != nil {
		user.FavoriteGenres = update.FavoriteGenres
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.session != nil {
		s.session.FirstName = user.FirstName
		s.session.LastName = user.LastName
		s.session.ProfileImage = user.ProfileImage
		s.session.FavoriteGenres = user.FavoriteGenres
		if err := s.store.Set(config.KeyUserSession, s.session); err != nil {
			slog.Warn("failed to persist session profile", slog.String("error", err.Error()))
		}
	}
	s.mu.Unlock()

	alert.Notify(s.notify, alert.LevelSuccess, alert.MsgProfileUpdated)
	return user, nil
}

// ChangePassword verifies the current password before accepting a new
// one. The new password passes the same policy as registration.
func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	session := s.CurrentSession()
	if session == nil {
		return domain.ErrNotLoggedIn
	}

	user, err := s.users.GetByID(ctx, session.ID)
	if err != nil {
		return err
	}
	if !s.verifyPassword(user.PasswordHash, current) {
		return domain.ErrInvalidCredentials
	}
	if err := validation.Collect(validation.Validate(validation.FieldPassword, next)); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	alert.Notify(s.notify, alert.LevelSuccess, alert.MsgPasswordChanged)
	return nil
}
