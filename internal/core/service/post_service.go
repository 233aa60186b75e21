package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulsefeed/social-feed/internal/core/domain"
	"github.com/pulsefeed/social-feed/internal/core/ports"
)

// PostService implements post creation and profile retrieval.
type PostService struct {
	posts  ports.PostRepository
	users  ports.UserRepository
	images ports.ImageStore
	logger zerolog.Logger
}

func NewPostService(posts ports.PostRepository, users ports.UserRepository, images ports.ImageStore, logger zerolog.Logger) *PostService {
	return &PostService{posts: posts, users: users, images: images, logger: logger}
}

// Create persists a new post. When an image is attached it is written to the
// image store first; a failed store write aborts the whole operation, and a
// failed post insert removes the already-written image so the caller sees
// all-or-nothing.
func (s *PostService) Create(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	imagePath := ""
	if input.Image != nil {
		path, err := s.images.Save(ctx, input.Image.Filename, input.Image.Data)
		if err != nil {
			s.logger.Error().Err(err).Msg("image save failed")
			return nil, err
		}
		imagePath = path
	}

	post := &domain.Post{
		AuthorID:  input.AuthorID,
		Content:   input.Content,
		ImagePath: imagePath,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		if imagePath != "" {
			if rmErr := s.images.Remove(ctx, imagePath); rmErr != nil {
				s.logger.Error().Err(rmErr).Str("path", imagePath).Msg("orphaned image cleanup failed")
			}
		}
		return nil, err
	}

	s.logger.Info().Str("author_id", created.AuthorID).Bool("has_image", created.HasImage()).Msg("post created")
	return created, nil
}

// GetProfile returns the public profile for username: the owner and their
// posts newest first. Viewer is passed through untouched; it plays no part
// in access control.
func (s *PostService) GetProfile(ctx context.Context, username string, viewer *domain.User) (*ports.Profile, error) {
	owner, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	posts, err := s.posts.FindByAuthor(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	return &ports.Profile{Owner: owner, Posts: posts, Viewer: viewer}, nil
}
