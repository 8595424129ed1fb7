package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/rylimitless/electrolytes/internal/infra/config"
	"github.com/rylimitless/electrolytes/internal/infra/database"
	"github.com/rylimitless/electrolytes/internal/infra/logger"
	"github.com/rylimitless/electrolytes/internal/infra/relay"
	"github.com/rylimitless/electrolytes/internal/infra/security"
	"github.com/rylimitless/electrolytes/internal/infra/storage"
	"github.com/rylimitless/electrolytes/internal/repository/postgres"
	"github.com/rylimitless/electrolytes/internal/transport/http/middleware"
	"github.com/rylimitless/electrolytes/internal/transport/http/routes"
	"github.com/rylimitless/electrolytes/internal/usecase"
)

// Application owns the assembled service and its shared resources.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
}

// New wires configuration, storage, services, and the HTTP engine together.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if err := database.RunMigrations(ctx, cfg.Postgres); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		pool.Close()
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	tokenService, err := security.NewTokenService(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.AccessTokenTTL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init token service: %w", err)
	}

	imageStore, err := storage.NewFilesystemStore(cfg.Storage.ImagesDir, "/images")
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init image store: %w", err)
	}

	relayClient := relay.NewClient(relay.Config{
		URL:      cfg.Relay.URL,
		Username: cfg.Relay.Username,
		Password: cfg.Relay.Password,
		Timeout:  cfg.Relay.Timeout,
	}, log)

	repos := postgres.NewRepositories(pool)
	passwordValidator := security.DefaultPasswordValidator()

	authService := usecase.NewAuthService(repos.Users, tokenService, log)
	registrationService := usecase.NewRegistrationService(repos.Users, passwordValidator)
	passwordResetService := usecase.NewPasswordResetService(repos.Users, passwordValidator, log)
	chatService := usecase.NewChatService(repos.Messages, relayClient, log)
	mediaService := usecase.NewMediaService(imageStore, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Database: pool,
		Metrics:  metrics,
		Services: routes.ServiceSet{
			Auth:          authService,
			Registration:  registrationService,
			PasswordReset: passwordResetService,
			Chat:          chatService,
			Media:         mediaService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or the
// server fails.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
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

	a.logger.Info("starting API",
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
		a.logger.Info("server stopped")
		return nil
	case err := <-serverErrCh:
		return err
	}
}
