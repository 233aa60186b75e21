package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pulsefeed/social-feed/internal/api/metrics"
	"github.com/pulsefeed/social-feed/internal/core/domain"
)

// SessionCookie is the name of the cookie carrying the signed session
// reference.
const SessionCookie = "social_session"

// userKey is the echo context key the resolved identity is stored under.
const userKey = "user"

// SessionResolver maps a raw cookie value to an identity, or to nothing.
type SessionResolver interface {
	Resolve(ctx context.Context, cookieValue string) (*domain.User, error)
}

// LoadUser resolves the session cookie on every request and stores the
// result in the echo context. A missing, forged or expired cookie resolves
// to anonymous; resolution itself never rejects the request.
func LoadUser(sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookieValue := ""
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				cookieValue = cookie.Value
			}

			user, err := sessions.Resolve(c.Request().Context(), cookieValue)
			if err != nil {
				return err
			}
			if user != nil {
				c.Set(userKey, user)
				metrics.SessionResolutionsTotal.WithLabelValues("authenticated").Inc()
			} else {
				metrics.SessionResolutionsTotal.WithLabelValues("anonymous").Inc()
			}
			return next(c)
		}
	}
}

// CurrentUser returns the identity resolved by LoadUser, or nil when the
// request is anonymous.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userKey).(*domain.User)
	return user
}

// RequireUser redirects anonymous requests to the login page. Being signed
// out is a flow branch here, not an error.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return next(c)
	}
}

// RequireAdmin rejects requests whose identity is missing or not an admin.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			return domain.ErrForbidden
		}
		return next(c)
	}
}
