// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/condoview/api/internal/admin"
	"github.com/condoview/api/internal/announcement"
	"github.com/condoview/api/internal/auth"
	"github.com/condoview/api/internal/chat"
	"github.com/condoview/api/internal/comment"
	"github.com/condoview/api/internal/config"
	"github.com/condoview/api/internal/core"
	"github.com/condoview/api/internal/dashboard"
	"github.com/condoview/api/internal/directory"
	"github.com/condoview/api/internal/financial"
	"github.com/condoview/api/internal/gate"
	"github.com/condoview/api/internal/health"
	"github.com/condoview/api/internal/lookup"
	"github.com/condoview/api/internal/market"
	"github.com/condoview/api/internal/middleware"
	"github.com/condoview/api/internal/occurrence"
	"github.com/condoview/api/internal/reservation"
	"github.com/condoview/api/internal/role"
	"github.com/condoview/api/internal/server"
)

const (
	drainDelay        = 5 * time.Second
	gateSweepEvery    = time.Minute
	overdueSweepEvery = time.Hour
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	if err := core.RunMigrations(cfg.Database); err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	// Auth and identity.
	authRepo := auth.NewRepository(db.DB)
	userRepo := auth.NewUserRepository(db.DB)
	authSvc := auth.NewService(
		authRepo,
		userRepo,
		jwtManager,
		redis.Client,
		cfg.JWT.AccessTokenExpire,
		logger,
	)
	// Session audit trail. Listeners run synchronously on the request path,
	// so keep them cheap.
	authSvc.OnSessionChange(func(_ context.Context, ev auth.SessionEvent) {
		logger.Info("session event",
			"type", string(ev.Type),
			"user_id", ev.UserID,
		)
	})

	// Roles and preferences.
	prefs := role.NewRedisPrefs(redis.Client)
	roleSvc := role.NewService(role.NewRepository(db.DB), prefs, logger)
	roleHandler := role.NewHandler(roleSvc)

	authHandler := auth.NewHandler(authSvc, roleSvc)

	// Directory: condominiums, units, profiles.
	lookupClient := lookup.NewClient(cfg.Lookup)
	directorySvc := directory.NewService(
		directory.NewRepository(db.DB),
		lookupClient,
		logger,
	)
	directoryHandler := directory.NewHandler(directorySvc)

	// The access gate sits between authentication and every feature route.
	accessGate := gate.New(gate.Config{
		Policy:       gate.NewAllowList(cfg.Gate.AllowedEmails),
		Roles:        roleSvc,
		Memberships:  directorySvc,
		Revoker:      authSvc,
		Notifier:     gate.NewLogNotifier(logger),
		Logger:       logger,
		NotifyWindow: cfg.Gate.NotifyWindow,
	})

	// Feature services.
	announcementSvc := announcement.NewService(announcement.NewRepository(db.DB))
	commentSvc := comment.NewService(comment.NewRepository(db.DB))
	occurrenceSvc := occurrence.NewService(occurrence.NewRepository(db.DB))
	reservationSvc := reservation.NewService(reservation.NewRepository(db.DB))
	financialSvc := financial.NewService(financial.NewRepository(db.DB))
	dashboardSvc := dashboard.NewService(dashboard.NewRepository(db.DB), logger)

	hub := chat.NewHub(logger)
	chatSvc := chat.NewService(chat.NewRepository(db.DB), hub)
	chatHandler := chat.NewHandler(
		chatSvc,
		hub,
		cfg.Chat,
		cfg.CORS.AllowedOrigins,
		logger,
	)

	marketSvc := market.NewService(
		market.NewCatalogClient(cfg.Lookup),
		market.NewCartStore(prefs),
		market.NewOrderRepository(db.DB),
		logger,
	)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Sessions:   authSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders)
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(jwtManager)
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(accessGate.Middleware)

			roleHandler.RegisterRoutes(r)
			directoryHandler.RegisterRoutes(r)
			announcement.NewHandler(announcementSvc).RegisterRoutes(r)
			comment.NewHandler(commentSvc).RegisterRoutes(r)
			occurrence.NewHandler(occurrenceSvc).RegisterRoutes(r)
			reservation.NewHandler(reservationSvc).RegisterRoutes(r)
			financial.NewHandler(financialSvc).RegisterRoutes(r)
			chatHandler.RegisterRoutes(r)
			market.NewHandler(marketSvc).RegisterRoutes(r)
			lookup.NewHandler(lookupClient).RegisterRoutes(r)
			dashboard.NewHandler(dashboardSvc).RegisterRoutes(r)
		})

		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	go hub.Run(ctx)
	go runSweepers(ctx, accessGate, financialSvc, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// runSweepers drives the periodic maintenance jobs: expiring gate rejection
// records and flipping pending charges to overdue.
func runSweepers(
	ctx context.Context,
	accessGate *gate.Gate,
	financialSvc *financial.Service,
	logger *slog.Logger,
) {
	gateTicker := time.NewTicker(gateSweepEvery)
	defer gateTicker.Stop()

	overdueTicker := time.NewTicker(overdueSweepEvery)
	defer overdueTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-gateTicker.C:
			accessGate.Sweep()
		case <-overdueTicker.C:
			flipped, err := financialSvc.SweepOverdue(ctx)
			if err != nil {
				logger.Error("overdue sweep failed", "error", err)
				continue
			}
			if flipped > 0 {
				logger.Info("charges marked overdue", "count", flipped)
			}
		}
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
