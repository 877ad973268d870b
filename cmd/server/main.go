package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"realestate.backend/internal/config"
	"realestate.backend/internal/infrastructure/datasources/postgres"
	"realestate.backend/internal/infrastructure/jobs"
	"realestate.backend/internal/infrastructure/migrations"
	"realestate.backend/internal/infrastructure/notification"
	"realestate.backend/internal/infrastructure/repositories"
	"realestate.backend/internal/interfaces/http/handlers"
	"realestate.backend/internal/interfaces/http/middleware"
	"realestate.backend/internal/usecases"
	"realestate.backend/pkg/jwt"
	"realestate.backend/pkg/logger"
	"realestate.backend/pkg/redis"
	"realestate.backend/pkg/security"
)

var (
	loadDotenv      = godotenv.Load
	loadCfg         = config.Load
	initLog         = logger.Init
	initRedis       = redis.Init
	openDB          = postgres.NewConnection
	runMigrations   = migrations.RunMigrations
	newSessionStore = redis.NewSessionStore
	runServer       = func(srv *http.Server) error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	logger.Info(ctx, "Connected to PostgreSQL via GORM")

	if cfg.Database.AutoMigrate {
		if err := runMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	renderer, err := notification.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to load email templates: %w", err)
	}
	dispatcher := notification.NewDispatcher(notification.NewMailer(cfg.SMTP), cfg.Notification)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	app := buildApp(cfg, db, sessionStore, renderer, dispatcher)

	cleanupJob := jobs.NewTokenCleanupJob(map[string]jobs.TokenPurger{
		"email_verification": app.verifyRepo,
		"password_reset":     app.resetRepo,
	}, cfg.Jobs.TokenCleanupInterval)
	if err := cleanupJob.Start(ctx); err != nil {
		return fmt.Errorf("failed to start token cleanup job: %w", err)
	}
	defer cleanupJob.Stop()
	defer app.rateLimiter.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
		case <-ctx.Done():
			return
		}
		logger.Info(context.Background(), "Shutting down server")
		shutdownCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Server starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", "http://localhost:"+cfg.Server.Port+"/api/v1"),
	)
	if err := runServer(srv); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

type app struct {
	router      *gin.Engine
	rateLimiter *middleware.RateLimiter
	verifyRepo  *repositories.AccountTokenRepository
	resetRepo   *repositories.AccountTokenRepository
}

func buildApp(cfg *config.Config, db *gorm.DB, sessionStore *redis.SessionStore, renderer *notification.Renderer, sender notification.Sender) *app {
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	accountRepo := repositories.NewAccountRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	eventRepo := repositories.NewStatusEventRepository(db)
	verifyRepo := repositories.NewEmailVerificationRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)
	uow := repositories.NewUnitOfWork(db)

	notifier := notification.NewNotifier(renderer, sender, notification.NotifierConfig{
		Brand:           cfg.SMTP.FromName,
		FrontendURL:     cfg.Server.FrontendURL,
		VerificationTTL: cfg.Security.VerificationTokenTTL,
		ResetTTL:        cfg.Security.PasswordResetTTL,
	})
	passwords := security.DefaultPasswordPolicy()

	lifecycle := usecases.NewAccountLifecycleUsecase(uow, accountRepo, groupRepo, profileRepo, eventRepo, verifyRepo, passwords, notifier, cfg.Security.VerificationTokenTTL)
	authUsecase := usecases.NewAuthUsecase(uow, accountRepo, resetRepo, eventRepo, lifecycle, jwtService, redis.NewTokenBlacklist(), sessionStore, passwords, notifier, cfg.Security.PasswordResetTTL)
	profileUsecase := usecases.NewProfileUsecase(uow, accountRepo, profileRepo, lifecycle)
	groupUsecase := usecases.NewGroupUsecase(uow, groupRepo)

	if err := handlers.RegisterValidators(); err != nil {
		logger.Warn(context.Background(), "Custom validators not registered", zap.Error(err))
	}

	rateLimiter := middleware.NewRateLimiter(
		cfg.RateLimit.IPRequestsPerSecond,
		cfg.RateLimit.AuthRequestsPerMinute,
		cfg.RateLimit.IPBurst,
		cfg.RateLimit.AuthBurst,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	applyCORSMiddleware(r, cfg.Server.AllowedOrigins)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler: handlers.NewAuthHandler(authUsecase, lifecycle, handlers.CookieConfig{
			Secure:        cfg.Server.Env == "production",
			AccessMaxAge:  cfg.JWT.AccessExpiry,
			RefreshMaxAge: cfg.JWT.RefreshExpiry,
		}),
		profileHandler:   handlers.NewProfileHandler(profileUsecase, lifecycle),
		groupHandler:     handlers.NewGroupHandler(groupUsecase),
		adminHandler:     handlers.NewAdminHandler(lifecycle, groupUsecase),
		authMiddleware:   middleware.AuthMiddleware(jwtService, authUsecase),
		onboardingAccess: middleware.OnboardingAccess(lifecycle),
		platformAccess:   middleware.RequirePlatformAccess(lifecycle),
		ipRateLimit:      rateLimiter.IPRateLimiterMiddleware(),
		authRateLimit:    rateLimiter.AuthRateLimiterMiddleware(),
		permission: func(codename string) gin.HandlerFunc {
			return middleware.RequirePermission(lifecycle, codename)
		},
	})

	return &app{
		router:      r,
		rateLimiter: rateLimiter,
		verifyRepo:  verifyRepo,
		resetRepo:   resetRepo,
	}
}
