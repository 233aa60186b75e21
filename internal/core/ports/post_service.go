package ports

import (
	"context"
	"io"

	"github.com/pulsefeed/social-feed/internal/core/domain"
)

// ImageUpload carries an optional image attachment. Filename is the
// client-supplied name, used only for its extension.
type ImageUpload struct {
	Filename string
	Data     io.Reader
}

// CreatePostInput is the service DTO for post creation.
type CreatePostInput struct {
	AuthorID string
	Content  string
	Image    *ImageUpload // nil when no image was attached
}

// Profile bundles a profile page: the owner, their posts newest first, and
// the viewer when one is signed in. Profiles are public; Viewer is only for
// rendering "this is me" affordances.
type Profile struct {
	Owner  *domain.User
	Posts  []*domain.Post
	Viewer *domain.User
}

type PostService interface {
	Create(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	// GetProfile returns the profile for username, or domain.ErrUserNotFound.
	GetProfile(ctx context.Context, username string, viewer *domain.User) (*Profile, error)
}
