package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/taskboard/taskboard-api/internal/api/handler"
	"github.com/taskboard/taskboard-api/internal/api/middleware"
	"github.com/taskboard/taskboard-api/internal/core/service"
	"github.com/taskboard/taskboard-api/internal/infrastructure/config"
	redisdb "github.com/taskboard/taskboard-api/internal/infrastructure/db/redis"
	"github.com/taskboard/taskboard-api/internal/infrastructure/db/sqlite"
	"github.com/taskboard/taskboard-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes
// registered.
func NewRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("taskboard"))

	// --- Dependencies ---
	taskRepo := sqlite.NewTaskRepository(db)
	userRepo := sqlite.NewUserRepository(db)
	authStore := redisdb.NewAuthStore(rdb)

	oauthConf := &oauth2.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURL:  cfg.OAuth.RedirectURL,
		Scopes:       strings.Fields(cfg.OAuth.Scopes),
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.OAuth.AuthURL,
			TokenURL: cfg.OAuth.TokenURL,
		},
	}

	taskService := service.NewTaskService(taskRepo, userRepo, log)
	profileService := service.NewProfileService(userRepo, log)
	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(
		oauthConf, cfg.OAuth.UserInfoURL,
		userRepo, authStore, authStore,
		cfg.JWTSecret, cfg.SessionTTL, log,
	)

	taskHandler := handler.NewTaskHandler(taskService)
	profileHandler := handler.NewProfileHandler(profileService)
	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.Auth(cfg.JWTSecret, authStore)

	// --- Auth routes ---
	e.GET("/auth/login", authHandler.Login)
	e.GET("/auth/callback", authHandler.Callback)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	// --- API routes ---
	v1 := e.Group("/v1")
	v1.GET("/users", userHandler.List) // public: assignment dropdown

	tasks := v1.Group("/tasks", authMiddleware)
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	profile := v1.Group("/profile", authMiddleware)
	profile.GET("", profileHandler.Get)
	profile.PATCH("", profileHandler.Update)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
