package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/enuda-labs/summit-BE/internal/infra/config"
	"github.com/enuda-labs/summit-BE/internal/transport/http/handlers"
	"github.com/enuda-labs/summit-BE/internal/transport/http/middleware"
	"github.com/enuda-labs/summit-BE/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Registration  *usecase.RegistrationService
	Users         *usecase.UserService
	Subscriptions *usecase.SubscriptionService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
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
	r.Use(middleware.CORS(deps.Config.App.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	checks := make(map[string]handlers.ReadinessCheck)
	if deps.Database != nil {
		checks["database"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}

	healthHandler := handlers.NewHealthHandler(checks)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		registrationHandler := handlers.NewRegistrationHandler(deps.Services.Registration)
		if deps.RateLimiter != nil {
			limits := deps.Config.RateLimit
			api.POST("/register",
				deps.RateLimiter.RateLimit(middleware.RateLimitRule{
					Name:       "register",
					Limit:      limits.RegisterMaxAttempts,
					Window:     limits.WindowDuration,
					Identifier: middleware.ClientIPIdentifier(),
				}),
				registrationHandler.Register)
			api.POST("/verify-otp/:otp/:email",
				deps.RateLimiter.RateLimit(middleware.RateLimitRule{
					Name:       "verify",
					Limit:      limits.VerifyMaxAttempts,
					Window:     limits.WindowDuration,
					Identifier: middleware.ClientIPIdentifier(),
				}),
				registrationHandler.VerifyOTP)
			api.POST("/resend-otp",
				deps.RateLimiter.RateLimit(middleware.RateLimitRule{
					Name:       "resend",
					Limit:      limits.VerifyMaxAttempts,
					Window:     limits.WindowDuration,
					Identifier: middleware.ClientIPIdentifier(),
				}),
				registrationHandler.ResendOTP)
		} else {
			registrationHandler.RegisterRoutes(api)
		}

		authHandler := handlers.NewAuthHandler(deps.Services.Auth)
		if deps.RateLimiter != nil {
			api.POST("/login",
				deps.RateLimiter.RateLimit(middleware.RateLimitRule{
					Name:       "login",
					Limit:      deps.Config.RateLimit.LoginMaxAttempts,
					Window:     deps.Config.RateLimit.WindowDuration,
					Identifier: middleware.ClientIPIdentifier(),
				}),
				authHandler.Login)
		} else {
			authHandler.RegisterRoutes(api)
		}

		userHandler := handlers.NewUserHandler(deps.Services.Users)
		userHandler.RegisterRoutes(api)

		subscriptionHandler := handlers.NewSubscriptionHandler(deps.Services.Subscriptions)
		subscriptionHandler.RegisterRoutes(api)
	}

	return r
}
