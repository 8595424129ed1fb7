package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rylimitless/electrolytes/internal/infra/config"
	"github.com/rylimitless/electrolytes/internal/transport/http/handlers"
	"github.com/rylimitless/electrolytes/internal/transport/http/middleware"
	"github.com/rylimitless/electrolytes/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Registration  *usecase.RegistrationService
	PasswordReset *usecase.PasswordResetService
	Chat          *usecase.ChatService
	Media         *usecase.MediaService
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Services ServiceSet
	Database DatabaseChecker
	Metrics  *middleware.HTTPMetrics
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.Services.Auth)
	optionalAuth := middleware.OptionalAuth(deps.Services.Auth)

	healthOptions := []handlers.HealthOption{
		handlers.WithImageCounter(deps.Services.Media),
	}
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/", healthHandler.Status)
	r.GET("/health", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Registration)
	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup, authMiddleware)

	passwordHandler := handlers.NewPasswordHandler(deps.Services.PasswordReset)
	passwordHandler.RegisterRoutes(authGroup)

	chatHandler := handlers.NewChatHandler(deps.Services.Chat)
	chatGroup := r.Group("/chat")
	chatGroup.Use(optionalAuth)
	chatHandler.RegisterRoutes(chatGroup)

	imageHandler := handlers.NewImageHandler(deps.Services.Media)
	imageHandler.RegisterRoutes(r)
	r.Static("/images", deps.Config.Storage.ImagesDir)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.NewErrorResponse(c, "route not found"))
	})

	return r
}
