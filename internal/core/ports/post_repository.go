package ports

import (
	"context"

	"github.com/pulsefeed/social-feed/internal/core/domain"
)

// PostRepository defines persistence operations for posts. Listings are
// ordered newest first, with insertion order breaking creation-time ties.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
	FindAll(ctx context.Context) ([]*domain.Post, error)
}
