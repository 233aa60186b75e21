package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pulsefeed/social-feed/internal/api/metrics"
	"github.com/pulsefeed/social-feed/internal/api/middleware"
	"github.com/pulsefeed/social-feed/internal/core/domain"
	"github.com/pulsefeed/social-feed/internal/core/ports"
)

// Sessions is the interface the handler uses to issue and revoke sessions.
type Sessions interface {
	Issue(ctx context.Context, user *domain.User) (string, error)
	Revoke(ctx context.Context, cookieValue string) error
	TTL() time.Duration
}

// AccountHandler serves the registration, login and logout flows.
type AccountHandler struct {
	accounts ports.AccountService
	sessions Sessions
}

func NewAccountHandler(accounts ports.AccountService, sessions Sessions) *AccountHandler {
	return &AccountHandler{accounts: accounts, sessions: sessions}
}

type registerForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Email    string `form:"email"    validate:"required"`
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// RegisterForm handles GET /register.
func (h *AccountHandler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register", map[string]any{
		"User": middleware.CurrentUser(c),
	})
}

// Register handles POST /register. A conflicting username or email is a hard
// error; success redirects to the login page without establishing a session.
func (h *AccountHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, err := h.accounts.Register(c.Request().Context(), form.Username, form.Password, form.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.Redirect(http.StatusSeeOther, "/login")
}

// LoginForm handles GET /login.
func (h *AccountHandler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login", map[string]any{
		"User": middleware.CurrentUser(c),
	})
}

// Login handles POST /login. Success sets the session cookie and redirects
// to the dashboard.
func (h *AccountHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.Login(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	cookieValue, err := h.sessions.Issue(c.Request().Context(), user)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    cookieValue,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.sessions.TTL()),
	})

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout handles GET /logout. The session is revoked best-effort and the
// cookie cleared unconditionally, so logging out twice is harmless.
func (h *AccountHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		_ = h.sessions.Revoke(c.Request().Context(), cookie.Value)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})

	return c.Redirect(http.StatusSeeOther, "/")
}
