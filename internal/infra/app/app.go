package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/enuda-labs/summit-BE/internal/core/port"
	"github.com/enuda-labs/summit-BE/internal/infra/config"
	"github.com/enuda-labs/summit-BE/internal/infra/database"
	kafkainfra "github.com/enuda-labs/summit-BE/internal/infra/kafka"
	"github.com/enuda-labs/summit-BE/internal/infra/logger"
	"github.com/enuda-labs/summit-BE/internal/infra/mailer"
	redisinfra "github.com/enuda-labs/summit-BE/internal/infra/redis"
	"github.com/enuda-labs/summit-BE/internal/infra/security"
	stripeinfra "github.com/enuda-labs/summit-BE/internal/infra/stripe"
	postgresrepo "github.com/enuda-labs/summit-BE/internal/repository/postgres"
	redisrepo "github.com/enuda-labs/summit-BE/internal/repository/redis"
	"github.com/enuda-labs/summit-BE/internal/transport/http/middleware"
	"github.com/enuda-labs/summit-BE/internal/transport/http/routes"
	"github.com/enuda-labs/summit-BE/internal/usecase"
)

// Application wires configuration, infrastructure, services, and the HTTP
// engine together and owns their lifecycle.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
	kafka  *kafkainfra.Producer
}

// New constructs the application from configuration.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	if cfg.Postgres.Migrate {
		if err := database.Migrate(ctx, cfg.Postgres); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("database migrations applied")
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	var (
		eventPublisher port.EventPublisher
		kafkaProducer  *kafkainfra.Producer
	)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	repos := postgresrepo.NewRepositories(pool)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "summit:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	locker := redisrepo.NewUserLockRepository(redisClient.Client(), cfg.Redis.LockPrefix)

	sender := mailer.NewClient(cfg.Mailer, log)
	gateway := stripeinfra.NewClient(cfg.Stripe, log)

	issuer, err := security.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	if err != nil {
		_ = redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	registrationService := usecase.NewRegistrationService(
		repos.Users, repos.OTPs, sender, eventPublisher, locker,
		security.DefaultPasswordValidator(), log)
	registrationService.WithOTPPolicy(cfg.OTP.CodeLength, cfg.OTP.TTL)

	subscriptionService := usecase.NewSubscriptionService(
		repos.Users, repos.Subscriptions, repos.Quotas, gateway, cfg.Stripe,
		eventPublisher, locker, cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL, log)

	userService := usecase.NewUserService(repos.Users, log)
	authService := usecase.NewAuthService(repos.Users, issuer, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{
		Namespace: cfg.Telemetry.MetricsNamespace,
	})
	if err != nil {
		_ = redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:          authService,
			Registration:  registrationService,
			Users:         userService,
			Subscriptions: subscriptionService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
		kafka:  kafkaProducer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully and releases infrastructure handles.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.kafka != nil {
			_ = a.kafka.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting summit API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
