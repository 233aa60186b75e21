package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pulsefeed/social-feed/internal/api/middleware"
	"github.com/pulsefeed/social-feed/internal/core/domain"
	"github.com/pulsefeed/social-feed/internal/core/ports"
)

type stubAccountService struct {
	registerFn func(ctx context.Context, username, password, email string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*domain.User, error)
	overviewFn func(ctx context.Context, viewer *domain.User) (*ports.AdminOverview, error)
}

func (s *stubAccountService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	return s.registerFn(ctx, username, password, email)
}

func (s *stubAccountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAccountService) Overview(ctx context.Context, viewer *domain.User) (*ports.AdminOverview, error) {
	return s.overviewFn(ctx, viewer)
}

func (s *stubAccountService) EnsureSuperuser(context.Context, string, string, string) error {
	return nil
}

type stubSessions struct {
	issued  []string
	revoked []string
}

func (s *stubSessions) Issue(_ context.Context, user *domain.User) (string, error) {
	s.issued = append(s.issued, user.Username)
	return "signed-token-for-" + user.Username, nil
}

func (s *stubSessions) Revoke(_ context.Context, cookieValue string) error {
	s.revoked = append(s.revoked, cookieValue)
	return nil
}

func (s *stubSessions) TTL() time.Duration { return time.Hour }

func newFormContext(t *testing.T, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAccountHandler_Register_Success(t *testing.T) {
	svc := &stubAccountService{
		registerFn: func(_ context.Context, username, password, email string) (*domain.User, error) {
			if username != "alice" || password != "pw1" || email != "a@x.com" {
				t.Fatalf("unexpected args: %s %s %s", username, password, email)
			}
			return &domain.User{ID: "u1", Username: username, Email: email}, nil
		},
	}
	h := NewAccountHandler(svc, &stubSessions{})

	c, rec := newFormContext(t, "/register", "username=alice&password=pw1&email=a@x.com")
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
	// Registration must not establish a session.
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("unexpected cookie after registration")
	}
}

func TestAccountHandler_Register_Duplicate(t *testing.T) {
	svc := &stubAccountService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAccountHandler(svc, &stubSessions{})

	c, _ := newFormContext(t, "/register", "username=alice&password=pw1&email=a@x.com")
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAccountHandler_Register_MissingField(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}, &stubSessions{})

	c, _ := newFormContext(t, "/register", "username=alice&password=pw1")
	err := h.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAccountHandler_Login_SetsSessionCookie(t *testing.T) {
	svc := &stubAccountService{
		loginFn: func(_ context.Context, username, password string) (*domain.User, error) {
			return &domain.User{ID: "u1", Username: username}, nil
		},
	}
	sessions := &stubSessions{}
	h := NewAccountHandler(svc, sessions)

	c, rec := newFormContext(t, "/login", "username=bob&password=pw2")
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %q", loc)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.SessionCookie {
		t.Fatalf("session cookie not set: %+v", cookies)
	}
	if cookies[0].Value != "signed-token-for-bob" {
		t.Fatalf("unexpected cookie value: %q", cookies[0].Value)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("cookie must be HttpOnly")
	}
}

func TestAccountHandler_Login_InvalidCredentials(t *testing.T) {
	svc := &stubAccountService{
		loginFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAccountHandler(svc, &stubSessions{})

	c, rec := newFormContext(t, "/login", "username=bob&password=wrong")
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("cookie must not be set on failed login")
	}
}

func TestAccountHandler_Logout_Idempotent(t *testing.T) {
	sessions := &stubSessions{}
	h := NewAccountHandler(&stubAccountService{}, sessions)

	e := echo.New()

	// First logout with an active session.
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "signed-token-for-bob"})
	rec := httptest.NewRecorder()
	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", cookies)
	}
	if len(sessions.revoked) != 1 {
		t.Fatalf("session not revoked")
	}

	// Second logout without any session behaves identically.
	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec = httptest.NewRecorder()
	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
}
