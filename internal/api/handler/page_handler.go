package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pulsefeed/social-feed/internal/api/middleware"
)

// PageHandler serves the identity-aware landing and dashboard views.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Home handles GET /.
func (h *PageHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "index", map[string]any{
		"User": middleware.CurrentUser(c),
	})
}

// Dashboard handles GET /dashboard. The route is wrapped by RequireUser.
func (h *PageHandler) Dashboard(c echo.Context) error {
	return c.Render(http.StatusOK, "dashboard", map[string]any{
		"User": middleware.CurrentUser(c),
	})
}
