package ports

import "context"

// SessionStore persists server-side sessions keyed by an opaque session ID.
// The cookie only ever carries a reference to an entry here, never the
// identity itself.
type SessionStore interface {
	// Put stores sid -> username, overwriting any previous entry.
	Put(ctx context.Context, sid, username string) error
	// Get resolves sid, returning domain.ErrSessionNotFound when the session
	// is unknown or expired.
	Get(ctx context.Context, sid string) (string, error)
	// Delete removes sid. Deleting a missing session is not an error.
	Delete(ctx context.Context, sid string) error
}
