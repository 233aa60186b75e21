package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pulsefeed/social-feed/internal/api/metrics"
	"github.com/pulsefeed/social-feed/internal/api/middleware"
	"github.com/pulsefeed/social-feed/internal/core/ports"
)

// PostHandler serves post creation and profile pages.
type PostHandler struct {
	posts ports.PostService
}

func NewPostHandler(posts ports.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

type postForm struct {
	Content string `form:"content" validate:"required"`
}

// Create handles POST /post. The route is wrapped by RequireUser, so an
// anonymous request never reaches this point. The image part is optional;
// when present its bytes are streamed straight into the image store.
func (h *PostHandler) Create(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var form postForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.CreatePostInput{
		AuthorID: user.ID,
		Content:  form.Content,
	}

	if fh, err := c.FormFile("image"); err == nil && fh.Filename != "" {
		src, err := fh.Open()
		if err != nil {
			return err
		}
		defer src.Close()
		input.Image = &ports.ImageUpload{Filename: fh.Filename, Data: src}
	}

	post, err := h.posts.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.WithLabelValues(strconv.FormatBool(post.HasImage())).Inc()
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Profile handles GET /profile/:username. Profiles are public; the viewer is
// passed through only so the template can mark the owner's own page.
func (h *PostHandler) Profile(c echo.Context) error {
	profile, err := h.posts.GetProfile(c.Request().Context(), c.Param("username"), middleware.CurrentUser(c))
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "profile", map[string]any{
		"Owner":  profile.Owner,
		"Posts":  profile.Posts,
		"User":   profile.Viewer,
		"IsSelf": profile.Viewer != nil && profile.Viewer.ID == profile.Owner.ID,
	})
}
