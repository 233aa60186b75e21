package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// publicPrefix is the path prefix under which stored images are served as
// static assets.
const publicPrefix = "uploads"

// DiskImageStore writes uploaded images to a local directory. Filenames are
// random UUIDs with the original extension preserved, so concurrent uploads
// of identically named files cannot collide.
type DiskImageStore struct {
	dir string
}

// NewDiskImageStore creates the upload directory if needed and returns a
// store rooted at dir.
func NewDiskImageStore(dir string) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskImageStore{dir: dir}, nil
}

// Save writes data to a fresh uniquely named file and returns the relative
// public path ("uploads/<name>").
func (s *DiskImageStore) Save(ctx context.Context, originalName string, data io.Reader) (string, error) {
	name := uuid.New().String() + filepath.Ext(originalName)
	dst := filepath.Join(s.dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close image file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(publicPrefix, name)), nil
}

// Remove deletes a previously saved image. A missing file is not an error so
// compensation after a failed post insert stays idempotent.
func (s *DiskImageStore) Remove(ctx context.Context, relPath string) error {
	name := filepath.Base(relPath)
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}
