package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/clientportal/auth"
	"github.com/dmitrymomot/clientportal/core/config"
	"github.com/dmitrymomot/clientportal/core/cookie"
	"github.com/dmitrymomot/clientportal/core/handler"
	"github.com/dmitrymomot/clientportal/core/logger"
	"github.com/dmitrymomot/clientportal/core/response"
	"github.com/dmitrymomot/clientportal/core/router"
	"github.com/dmitrymomot/clientportal/core/server"
	"github.com/dmitrymomot/clientportal/core/session"
	"github.com/dmitrymomot/clientportal/core/sessiontransport"
	"github.com/dmitrymomot/clientportal/integration/database/pg"
	"github.com/dmitrymomot/clientportal/integration/database/redis"
	"github.com/dmitrymomot/clientportal/middleware"
	"github.com/dmitrymomot/clientportal/pkg/throttle"
)

type appConfig struct {
	Name           string   `env:"APP_NAME" envDefault:"clientportal"`
	Env            string   `env:"APP_ENV" envDefault:"production"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		appCfg       appConfig
		logCfg       logger.Config
		serverCfg    server.Config
		pgCfg        pg.Config
		redisCfg     redis.Config
		cookieCfg    cookie.Config
		sessionCfg   session.Config
		transportCfg sessiontransport.Config
		throttleCfg  throttle.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&serverCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&cookieCfg)
	config.MustLoad(&sessionCfg)
	config.MustLoad(&transportCfg)
	config.MustLoad(&throttleCfg)

	log := logger.New(logCfg).With("service", appCfg.Name)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		if errors.Is(err, pg.ErrMigrationsDirNotFound) {
			log.Warn("migrations directory not found, skipping", "path", pgCfg.MigrationsPath)
		} else {
			log.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	// Login throttling uses Redis so lockouts survive restarts and are
	// shared between replicas. A standalone deployment without Redis
	// degrades to per-process in-memory state.
	var throttleStore throttle.Store
	healthChecks := []func(context.Context) error{pg.Healthcheck(pool)}
	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		log.Warn("redis unavailable, login throttling falls back to in-memory state", "error", err)
		memStore := throttle.NewMemoryStore(throttle.WithMemoryStoreLogger(log))
		g.Go(memStore.Run(ctx))
		throttleStore = memStore
	} else {
		defer redisClient.Close()
		throttleStore = throttle.NewRedisStore(redisClient)
		healthChecks = append(healthChecks, redis.Healthcheck(redisClient))
	}
	guard := throttle.NewFromConfig(throttleStore, throttleCfg, throttle.WithLogger(log))

	cookieMgr, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		log.Error("failed to init cookie manager", "error", err)
		os.Exit(1)
	}

	sessionStore := session.NewMemoryStore(session.WithMemoryStoreLogger(log))
	g.Go(sessionStore.Run(ctx))
	sessionMgr := session.NewManagerFromConfig(sessionStore, sessionCfg)
	transport := sessiontransport.NewCookieFromConfig(transportCfg, sessionMgr, cookieMgr)

	userStore := auth.NewPGStore(pool)
	service := auth.NewService(userStore, auth.WithLogger(log))
	authHandler := auth.NewHandler[*router.Context](service, guard, log)

	r := router.New(
		router.WithErrorHandler[*router.Context](response.JSONErrorHandler[*router.Context]),
	)
	r.Use(
		middleware.RequestID[*router.Context](),
		middleware.ClientIP[*router.Context](),
		middleware.LoggingWithLogger[*router.Context](log),
		middleware.CORSWithConfig[*router.Context](middleware.CORSConfig{
			AllowOrigins:     appCfg.AllowedOrigins,
			AllowCredentials: true,
			MaxAge:           3600,
		}),
		middleware.SecurityHeadersWithConfig[*router.Context](securityConfig(appCfg.Env)),
		middleware.SessionWithConfig(middleware.SessionConfig[*router.Context]{
			Transport: transport,
			Logger:    log,
			Skip: func(ctx *router.Context) bool {
				return ctx.Request().URL.Path == "/api/health"
			},
		}),
	)

	requireAuth := auth.RequireAuth[*router.Context](service)
	csrf := middleware.CSRF[*router.Context]()

	r.Get("/api/health", healthHandler(appCfg, healthChecks...))
	r.Get("/api/csrf-token", authHandler.CSRFToken)
	r.Get("/api/auth/me", authHandler.Me)
	r.Post("/api/auth/login", authHandler.Login)
	r.Post("/api/auth/logout", authHandler.Logout, requireAuth, csrf)
	r.Post("/api/auth/change-password", authHandler.ChangePassword, requireAuth, csrf)

	srv, err := server.NewFromConfig(serverCfg, server.WithLogger(log))
	if err != nil {
		log.Error("failed to init server", "error", err)
		os.Exit(1)
	}
	g.Go(srv.Run(ctx, r))

	log.Info("server starting", "addr", serverCfg.Addr, "env", appCfg.Env)
	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func securityConfig(env string) middleware.SecurityHeadersConfig {
	cfg := middleware.DefaultSecurity
	cfg.IsDevelopment = env == "local" || env == "development"
	return cfg
}

// healthHandler reports service liveness and dependency readiness.
func healthHandler(cfg appConfig, checks ...func(context.Context) error) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				return response.Error(response.ErrServiceUnavailable.WithError(err))
			}
		}

		return response.JSON(map[string]any{
			"status":      "ok",
			"service":     cfg.Name,
			"env":         cfg.Env,
			"server_time": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
