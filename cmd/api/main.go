package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/endoscopy-scheduler/internal/config"
	authHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/auth"
	dashboardHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/dashboard"
	"github.com/jwalitptl/endoscopy-scheduler/internal/handler/health"
	reportHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/report"
	requestHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/request"
	roomHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/room"
	scheduleHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/schedule"
	staffHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/staff"
	"github.com/jwalitptl/endoscopy-scheduler/internal/middleware"
	"github.com/jwalitptl/endoscopy-scheduler/internal/repository"
	"github.com/jwalitptl/endoscopy-scheduler/internal/repository/memory"
	redisRepo "github.com/jwalitptl/endoscopy-scheduler/internal/repository/redis"
	"github.com/jwalitptl/endoscopy-scheduler/internal/router"
	activityService "github.com/jwalitptl/endoscopy-scheduler/internal/service/activity"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/assignment"
	authService "github.com/jwalitptl/endoscopy-scheduler/internal/service/auth"
	reportService "github.com/jwalitptl/endoscopy-scheduler/internal/service/report"
	requestService "github.com/jwalitptl/endoscopy-scheduler/internal/service/request"
	roomService "github.com/jwalitptl/endoscopy-scheduler/internal/service/room"
	scheduleService "github.com/jwalitptl/endoscopy-scheduler/internal/service/schedule"
	staffService "github.com/jwalitptl/endoscopy-scheduler/internal/service/staff"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/auth"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/logger"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/metrics"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/security"
)

func main() {
	configPath := flag.String("config", "", "path to config.yml (default: search ., ./config, /app/config)")
	flag.Parse()

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	m := metrics.NewMetrics(cfg.Metrics.Namespace)
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)

	// Initialize store
	store := memory.NewStore(hasher)
	if cfg.Seed.Enabled {
		if err := store.Seed(ctx); err != nil {
			l.Fatal().Err(err).Msg("failed to seed demo data")
		}
		l.Info().Msg("seeded demo users, rooms and activities")
	}

	tokenRepo, checks, closeTokens, err := newTokenRepository(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize session store")
	}
	defer closeTokens()

	generator, err := assignment.New(cfg.Generator.Mode, cfg.Generator.Seed)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize generator")
	}

	jwtSvc, err := auth.NewJWTService(auth.Config{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiry,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize token signer")
	}

	// Initialize services
	activitySvc := activityService.NewService(store.Activities, l, m)
	authSvc := authService.NewService(store.Users, jwtSvc, tokenRepo, activitySvc, m, l, authService.Config{
		MaxLoginAttempts: cfg.Security.MaxLoginAttempts,
		LockoutWindow:    cfg.Security.LockoutWindow,
	})
	staffSvc := staffService.NewService(store.Users, hasher, authSvc, activitySvc, l)
	roomSvc := roomService.NewService(store.Rooms, activitySvc, l)
	scheduleSvc := scheduleService.NewService(store.Schedules, roomSvc, generator, activitySvc, l)
	requestSvc := requestService.NewService(store.Requests, store.Users, activitySvc, m, l)
	reportSvc := reportService.NewService(staffSvc, roomSvc, requestSvc, activitySvc, generator, l)

	policies, err := cfg.Policies()
	if err != nil {
		l.Fatal().Err(err).Msg("invalid authorization policy")
	}
	authMiddleware := middleware.NewAuthMiddleware(authSvc, policies)

	// Initialize handlers
	authH := authHandler.NewHandler(authSvc)

	r := router.NewRouter(
		authMiddleware,
		health.NewHandler(checks),
		m,
		l,
		routerConfig(cfg),
		[]router.PublicHandler{authH},
		authH,
		dashboardHandler.NewHandler(reportSvc),
		scheduleHandler.NewHandler(scheduleSvc),
		requestHandler.NewHandler(requestSvc),
		roomHandler.NewHandler(roomSvc),
		staffHandler.NewHandler(staffSvc),
		reportHandler.NewHandler(reportSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		l.Info().Int("port", cfg.Server.Port).Str("session_store", cfg.Session.Store).
			Str("generator", cfg.Generator.Mode).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
	}

	l.Info().Msg("server exited properly")
}

func newTokenRepository(ctx context.Context, cfg *config.Config) (repository.TokenRepository, map[string]health.Pinger, func(), error) {
	// Per-user revocation marks must outlive every token they cover.
	userTTL := cfg.JWT.Expiry

	if cfg.Session.Store != "redis" {
		return memory.NewTokenRepository(userTTL, 10*time.Minute), nil, func() {}, nil
	}

	repo, err := redisRepo.NewTokenRepository(ctx, redisRepo.Config{
		URL:       cfg.Session.RedisURL,
		KeyPrefix: cfg.Session.KeyPrefix,
		UserTTL:   userTTL,
		PoolSize:  cfg.Session.PoolSize,

		BreakerFailures: cfg.Session.BreakerFailures,
		BreakerTimeout:  cfg.Session.BreakerTimeout,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := repo.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis client")
		}
	}
	return repo, map[string]health.Pinger{"redis": repo}, closeFn, nil
}

func routerConfig(cfg *config.Config) router.RouterConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORS.AllowedOrigins
	cors.AllowCredentials = cfg.CORS.AllowCredentials

	sec := middleware.DefaultSecurityConfig()
	sec.HSTS = cfg.Security.HSTS

	rc := router.RouterConfig{
		CORSConfig:     cors,
		SecurityConfig: sec,
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	}
	if cfg.RateLimit.Enabled {
		rc.RateLimit = &middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst: cfg.RateLimit.Burst,
		}
	}
	if cfg.Metrics.Enabled {
		rc.MetricsPath = cfg.Metrics.Path
	}
	return rc
}
