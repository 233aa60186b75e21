package domain

import "time"

// Post is a feed entry owned by exactly one user. ImagePath is the path of
// an uploaded image relative to the static root, empty when no image was
// attached. Posts are append-only: never updated or deleted.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasImage reports whether an image was attached to the post.
func (p *Post) HasImage() bool {
	return p.ImagePath != ""
}
