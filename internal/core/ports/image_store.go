package ports

import (
	"context"
	"io"
)

// ImageStore persists uploaded post images. Save returns the stored path
// relative to the static root (e.g. "uploads/<name>"). Remove compensates a
// failed post insert; removing a missing file is not an error.
type ImageStore interface {
	Save(ctx context.Context, originalName string, data io.Reader) (string, error)
	Remove(ctx context.Context, relPath string) error
}
