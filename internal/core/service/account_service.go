package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulsefeed/social-feed/internal/core/domain"
	"github.com/pulsefeed/social-feed/internal/core/ports"
)

// AccountService implements registration, login and the admin overview.
type AccountService struct {
	users  ports.UserRepository
	posts  ports.PostRepository
	logger zerolog.Logger
}

func NewAccountService(users ports.UserRepository, posts ports.PostRepository, logger zerolog.Logger) *AccountService {
	return &AccountService{users: users, posts: posts, logger: logger}
}

// Register creates a new account. Username and email must both be unused;
// either collision maps to domain.ErrUserExists. The first account ever
// created wins the admin marker and is stored with IsAdmin set.
func (s *AccountService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	if username == "" || password == "" || email == "" {
		return nil, domain.ErrInvalidCredentials
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	// The marker claim is the atomic first-user decision: exactly one
	// registration over the store's lifetime gets isAdmin. Unique indexes on
	// username/email still back the conflict check against races.
	isAdmin, err := s.users.ClaimFirstAdmin(ctx)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if isAdmin {
			// Give the marker back so the next successful registration
			// becomes the admin.
			if relErr := s.users.ReleaseFirstAdmin(ctx); relErr != nil {
				s.logger.Error().Err(relErr).Msg("failed to release first-admin marker")
			}
		}
		return nil, err
	}

	s.logger.Info().Str("username", created.Username).Bool("is_admin", created.IsAdmin).Msg("user registered")
	return created, nil
}

// Login verifies the credentials. An unknown username and a wrong password
// are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !verifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	s.logger.Info().Str("username", user.Username).Msg("user logged in")
	return user, nil
}

// Overview returns the admin listing: every user in insertion order and
// every post newest first. Non-admin viewers, including anonymous ones, get
// domain.ErrForbidden.
func (s *AccountService) Overview(ctx context.Context, viewer *domain.User) (*ports.AdminOverview, error) {
	if viewer == nil || !viewer.IsAdmin {
		return nil, domain.ErrForbidden
	}

	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return &ports.AdminOverview{Users: users, Posts: posts}, nil
}

// EnsureSuperuser registers the bootstrap admin account when the store holds
// no users yet. Called once at startup; a non-empty store makes it a no-op.
func (s *AccountService) EnsureSuperuser(ctx context.Context, username, password, email string) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	if _, err := s.Register(ctx, username, password, email); err != nil {
		// A concurrent first registration is fine; the store stays valid.
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return err
	}

	s.logger.Info().Str("username", username).Msg("superuser created")
	return nil
}
