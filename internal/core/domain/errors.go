package domain

import "errors"

var (
	// ErrUserExists signals a registration conflict on username or email.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown-username and wrong-password
	// login failures so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("access forbidden")
	// ErrSessionNotFound means the session reference is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
)
