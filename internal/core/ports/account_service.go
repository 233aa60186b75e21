package ports

import (
	"context"

	"github.com/pulsefeed/social-feed/internal/core/domain"
)

// AdminOverview bundles everything the admin listing shows: all users in
// insertion order and all posts newest first.
type AdminOverview struct {
	Users []*domain.User
	Posts []*domain.Post
}

type AccountService interface {
	// Register creates a new account. The first account ever created becomes
	// the admin. No session is established.
	Register(ctx context.Context, username, password, email string) (*domain.User, error)
	// Login verifies credentials. Unknown usernames and wrong passwords both
	// yield domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*domain.User, error)
	// Overview returns the admin listing, or domain.ErrForbidden unless
	// viewer is an admin.
	Overview(ctx context.Context, viewer *domain.User) (*AdminOverview, error)
	// EnsureSuperuser creates the bootstrap admin account when the store is
	// empty. Idempotent.
	EnsureSuperuser(ctx context.Context, username, password, email string) error
}
