package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pulsefeed/social-feed/internal/core/domain"
)

// SessionStore keeps server-side sessions in Redis. Key format:
// session:<sid> -> username, expiring after the configured TTL so stale
// sessions clean themselves up.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Put stores sid -> username with the store's TTL.
func (s *SessionStore) Put(ctx context.Context, sid, username string) error {
	if err := s.client.Set(ctx, s.key(sid), username, s.ttl).Err(); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

// Get resolves sid to a username. A missing or expired session maps to
// domain.ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, sid string) (string, error) {
	username, err := s.client.Get(ctx, s.key(sid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("session get: %w", err)
	}
	return username, nil
}

// Delete removes sid. Redis DEL on a missing key is a no-op, which keeps
// logout idempotent.
func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sid string) string {
	return "session:" + sid
}
