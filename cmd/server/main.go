package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/magiskboy/blog-backend/config"
	"github.com/magiskboy/blog-backend/internal/domain"
	"github.com/magiskboy/blog-backend/internal/health"
	"github.com/magiskboy/blog-backend/internal/infrastructure/postgres"
	redisinfra "github.com/magiskboy/blog-backend/internal/infrastructure/redis"
	ctxlog "github.com/magiskboy/blog-backend/internal/log"
	"github.com/magiskboy/blog-backend/internal/metrics"
	"github.com/magiskboy/blog-backend/internal/oauth"
	"github.com/magiskboy/blog-backend/internal/token"
	httptransport "github.com/magiskboy/blog-backend/internal/transport/http"
	"github.com/magiskboy/blog-backend/internal/transport/http/handler"
	"github.com/magiskboy/blog-backend/internal/transport/http/middleware"
	"github.com/magiskboy/blog-backend/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisinfra.Connect(ctx, cfg.RedisURL)
	if err != nil {
		stop()
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	postRepo := postgres.NewPostRepository(pool)
	likeRepo := postgres.NewLikeRepository(pool)

	// Tokens
	tokenStore := redisinfra.NewTokenStore(redisClient)
	tokenService := token.NewService(tokenStore, []byte(cfg.SecretKey))

	sweeper, err := token.NewSweeper(tokenStore, tokenService, cfg.TokenSweepSchedule, logger)
	if err != nil {
		stop()
		log.Fatalf("sweeper: %v", err)
	}
	go sweeper.Start(ctx)

	// OAuth providers
	redirectURL := cfg.BaseURL + "/auth/callback"
	providers := map[domain.Provider]usecase.ProviderClient{
		domain.ProviderGoogle: oauth.NewClient(
			oauth.GoogleConfig(cfg.GoogleClientID, cfg.GoogleClientSecret), redirectURL, nil),
		domain.ProviderFacebook: oauth.NewClient(
			oauth.FacebookConfig(cfg.FacebookClientID, cfg.FacebookClientSecret), redirectURL, nil),
	}

	// Usecases and handlers
	authUsecase := usecase.NewAuthUsecase(userRepo, tokenService, providers,
		cfg.BaseURL, cfg.SessionTokenTTL, cfg.LinkTokenTTL, logger)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	postUsecase := usecase.NewPostUsecase(postRepo, likeRepo)
	postHandler := handler.NewPostHandler(postUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, health.PingerFunc(func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	}), logger, prometheus.DefaultRegisterer)

	authMW := middleware.Auth(tokenService, userRepo)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, postHandler, authMW),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
