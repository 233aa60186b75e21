package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pulsefeed/social-feed/internal/api/middleware"
	"github.com/pulsefeed/social-feed/internal/core/ports"
)

// AdminHandler serves the admin listing.
type AdminHandler struct {
	accounts ports.AccountService
}

func NewAdminHandler(accounts ports.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// Overview handles GET /admin. The service re-checks the admin flag even
// though the route is gated, so the rule holds regardless of routing.
func (h *AdminHandler) Overview(c echo.Context) error {
	overview, err := h.accounts.Overview(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "admin", map[string]any{
		"User":  middleware.CurrentUser(c),
		"Users": overview.Users,
		"Posts": overview.Posts,
	})
}
