package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/membership-service/internal/api/http"
	"github.com/spec-kit/membership-service/internal/api/http/handlers"
	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/config"
	"github.com/spec-kit/membership-service/internal/events"
	"github.com/spec-kit/membership-service/internal/observability"
	"github.com/spec-kit/membership-service/internal/persistence"
	"github.com/spec-kit/membership-service/internal/repository"
	"github.com/spec-kit/membership-service/internal/service"
	"github.com/spec-kit/membership-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)

	tokenManager, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL())
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	signIns := service.NewSignInRecorder(redis, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:       userRepo,
		RoleRepo:       roleRepo,
		TokenManager:   tokenManager,
		SignInRecorder: signIns,
		Dispatcher:     dispatcher,
		BcryptCost:     cfg.Auth.BcryptCost,
	})
	userService := service.NewUserService(userRepo, roleRepo, dispatcher, cfg.Auth.BcryptCost)
	assignmentService := service.NewRoleAssignmentService(userRepo, roleRepo, dispatcher)
	auditService := service.NewAuditService(dispatcher, logger, cfg.Notification)
	worker.StartAuditWorker(auditService)

	authMiddleware := auth.NewAuthMiddleware(tokenManager, userRepo)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, userService),
		Users:          handlers.NewUsersHandler(userService, assignmentService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
