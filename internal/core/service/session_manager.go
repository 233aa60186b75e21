package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pulsefeed/social-feed/internal/core/domain"
	"github.com/pulsefeed/social-feed/internal/core/ports"
)

// SessionManager issues and resolves browser sessions. The cookie value is a
// signed HS256 token carrying only a random session ID; the identity lives
// server-side in the session store. A forged or tampered cookie fails
// signature verification and resolves to anonymous.
type SessionManager struct {
	store  ports.SessionStore
	users  ports.UserRepository
	secret string
	ttl    time.Duration
	logger zerolog.Logger
}

func NewSessionManager(store ports.SessionStore, users ports.UserRepository, secret string, ttl time.Duration, logger zerolog.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionManager{store: store, users: users, secret: secret, ttl: ttl, logger: logger}
}

// TTL returns the session lifetime, used for the cookie expiry attribute.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a server-side session for user and returns the signed cookie
// value referencing it.
func (m *SessionManager) Issue(ctx context.Context, user *domain.User) (string, error) {
	sid := uuid.New().String()
	if err := m.store.Put(ctx, sid, user.Username); err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(m.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(m.secret))
}

// Resolve maps a raw cookie value to the signed-in user. Every failure mode
// (bad signature, expired token, unknown session, deleted user) yields
// (nil, nil): resolution is advisory and never an error.
func (m *SessionManager) Resolve(ctx context.Context, cookieValue string) (*domain.User, error) {
	if cookieValue == "" {
		return nil, nil
	}

	sid, ok := m.parseSID(cookieValue)
	if !ok {
		return nil, nil
	}

	username, err := m.store.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := m.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Revoke deletes the session referenced by cookieValue. Unparseable cookies
// are ignored so logout stays idempotent.
func (m *SessionManager) Revoke(ctx context.Context, cookieValue string) error {
	sid, ok := m.parseSID(cookieValue)
	if !ok {
		return nil
	}
	return m.store.Delete(ctx, sid)
}

func (m *SessionManager) parseSID(cookieValue string) (string, bool) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(cookieValue, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(m.secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", false
	}
	sid, _ := claims["sid"].(string)
	return sid, sid != ""
}
