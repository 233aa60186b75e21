package ports

import (
	"context"

	"github.com/pulsefeed/social-feed/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a new user. A username or email collision surfaces as
	// domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByUsernameOrEmail performs the combined registration conflict check.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	// FindAll returns every user in insertion order.
	FindAll(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)

	// ClaimFirstAdmin atomically claims the first-admin marker. It returns
	// true for exactly one caller over the lifetime of the store; every
	// later call returns false. ReleaseFirstAdmin undoes a claim when the
	// registration that won it fails to persist.
	ClaimFirstAdmin(ctx context.Context) (bool, error)
	ReleaseFirstAdmin(ctx context.Context) error
}
