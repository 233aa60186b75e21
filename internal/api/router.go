package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pulsefeed/social-feed/internal/api/handler"
	"github.com/pulsefeed/social-feed/internal/api/middleware"
	"github.com/pulsefeed/social-feed/internal/api/view"
	"github.com/pulsefeed/social-feed/internal/core/service"
	"github.com/pulsefeed/social-feed/internal/infrastructure/config"
	mongodb "github.com/pulsefeed/social-feed/internal/infrastructure/db/mongo"
	redisdb "github.com/pulsefeed/social-feed/internal/infrastructure/db/redis"
	"github.com/pulsefeed/social-feed/internal/infrastructure/storage"
)

// Deps bundles everything the router needs beyond configuration.
type Deps struct {
	DB     *mongo.Database
	Redis  *redis.Client
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered,
// along with the account service so the caller can run startup bootstrap.
func NewRouter(cfg *config.Config, deps Deps) (*echo.Echo, *service.AccountService, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	renderer, err := view.NewRenderer(cfg.TemplateDir)
	if err != nil {
		return nil, nil, err
	}
	e.Renderer = renderer

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("social"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(deps.DB)
	postRepo := mongodb.NewPostRepository(deps.DB)

	images, err := storage.NewDiskImageStore(cfg.UploadDir)
	if err != nil {
		return nil, nil, err
	}

	sessionStore := redisdb.NewSessionStore(deps.Redis, cfg.SessionTTL)
	sessions := service.NewSessionManager(sessionStore, userRepo, cfg.SessionSecret, cfg.SessionTTL, deps.Logger)

	accountService := service.NewAccountService(userRepo, postRepo, deps.Logger)
	postService := service.NewPostService(postRepo, userRepo, images, deps.Logger)

	accountHandler := handler.NewAccountHandler(accountService, sessions)
	postHandler := handler.NewPostHandler(postService)
	pageHandler := handler.NewPageHandler()
	adminHandler := handler.NewAdminHandler(accountService)

	// Session resolution runs on every route; it only annotates the context.
	e.Use(middleware.LoadUser(sessions))

	// --- Pages ---
	e.GET("/", pageHandler.Home)
	e.GET("/dashboard", middleware.RequireUser(pageHandler.Dashboard))

	// --- Account flows ---
	e.GET("/register", accountHandler.RegisterForm)
	e.POST("/register", accountHandler.Register)
	e.GET("/login", accountHandler.LoginForm)
	e.POST("/login", accountHandler.Login)
	e.GET("/logout", accountHandler.Logout)

	// --- Posts and profiles ---
	e.POST("/post", middleware.RequireUser(postHandler.Create))
	e.GET("/profile/:username", postHandler.Profile)

	// --- Admin ---
	e.GET("/admin", middleware.RequireAdmin(adminHandler.Overview))

	// --- Static assets (uploaded images live under /static/uploads) ---
	e.Static("/static", cfg.StaticDir)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, accountService, nil
}
