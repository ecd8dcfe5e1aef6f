package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/bazarche/bazarche/internal/cache"
	"github.com/bazarche/bazarche/internal/config"
	"github.com/bazarche/bazarche/internal/domain"
	"github.com/bazarche/bazarche/internal/middleware"
	"github.com/bazarche/bazarche/internal/module/account"
	"github.com/bazarche/bazarche/internal/module/jobs"
	"github.com/bazarche/bazarche/internal/module/listing"
	"github.com/bazarche/bazarche/internal/module/promotion"
	"github.com/bazarche/bazarche/internal/module/taxonomy"
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	store  cache.Store
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, the database, the cache store, domain repositories,
// services, handlers, middleware, and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	// 1. Setup logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Setup database.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("database close error", slog.Any("error", err))
			}
		}
	}()

	// 3. AutoMigrate in debug mode only.
	if cfg.Server.Mode == gin.DebugMode {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.Category{},
			&domain.City{},
			&domain.Tag{},
			&domain.Listing{},
			&domain.ListingImage{},
			&domain.Promotion{},
			&domain.JobAd{},
			&domain.Request{},
		); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration completed")
	}

	// 4. Setup cache store.
	store, err := setupCacheStore(&cfg.Cache, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup cache: %w", err)
	}
	readThrough := cache.NewReadThrough(store, log.Logger)
	invalidator := cache.NewInvalidator(store, log.Logger)

	// 5. Auth middleware shared across modules.
	tokenExpiry, _ := time.ParseDuration(cfg.Auth.TokenExpiry)
	requireAuth := middleware.RequireAuth(cfg.Auth.JWTSecret)
	requireAdmin := middleware.RequireAdmin()

	// 6. Manual dependency injection: repository → service → handler → module.
	listingRepo := listing.NewListingRepository(db)
	promotionRepo := promotion.NewPromotionRepository(db)
	listingSvc := listing.NewListingService(listingRepo, invalidator, log.Logger)
	feedSvc := listing.NewFeedService(
		listingRepo, promotionRepo, readThrough,
		cfg.Cache.ListingTTLOrDefault(), cache.DetailTTL, cfg.Cache.CountTTLOrDefault(), log.Logger,
	)
	listingHandler := listing.NewListingHandler(feedSvc, listingSvc)

	promotionSvc := promotion.NewPromotionService(promotionRepo, invalidator, log.Logger)
	promotionHandler := promotion.NewPromotionHandler(promotionSvc, promotionRepo)

	categoryRepo := taxonomy.NewCategoryRepository(db)
	cityRepo := taxonomy.NewCityRepository(db)
	tagRepo := taxonomy.NewTagRepository(db)
	taxonomySvc := taxonomy.NewTaxonomyService(
		categoryRepo, cityRepo, tagRepo, readThrough, invalidator,
		cfg.Cache.TaxonomyTTLOrDefault(), log.Logger,
	)
	taxonomyHandler := taxonomy.NewTaxonomyHandler(taxonomySvc)

	userRepo := account.NewUserRepository(db)
	accountSvc := account.NewAccountService(userRepo, cfg.Auth.JWTSecret, tokenExpiry)
	accountHandler := account.NewAccountHandler(accountSvc, userRepo)

	jobAdRepo := jobs.NewJobAdRepository(db)
	requestRepo := jobs.NewRequestRepository(db)
	jobsSvc := jobs.NewJobsService(jobAdRepo, requestRepo)
	jobsHandler := jobs.NewJobsHandler(jobsSvc)

	modules := []Module{
		listing.NewModule(listingHandler, requireAuth, requireAdmin),
		promotion.NewModule(promotionHandler, requireAuth, requireAdmin),
		taxonomy.NewModule(taxonomyHandler, requireAuth, requireAdmin),
		account.NewModule(accountHandler, requireAuth),
		jobs.NewModule(jobsHandler, requireAuth),
	}

	// 7. Create Gin engine with custom middleware (not gin.Default()).
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	corsConfig := resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS.AllowOrigins)

	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			TrustUpstream: false,
		}),
		middleware.Logger(log.Logger),
		middleware.CORSWithConfig(corsConfig),
	)

	if cfg.Server.RateLimit.Enabled {
		engine.Use(middleware.RateLimit(store, resolveRateLimitConfig(&cfg.Server.RateLimit), log.Logger))
	}

	// 8. Register all routes.
	if err := RegisterRoutes(engine, &RouteDeps{
		Modules: modules,
		DB:      db,
		Cache:   store,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		store:  store,
		logger: log,
		cfg:    cfg,
	}, nil
}

// setupCacheStore builds the shared cache backend from configuration.
func setupCacheStore(cfg *config.CacheConfig, log *slog.Logger) (cache.Store, error) {
	switch cfg.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store, err := cache.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		log.Info("cache connected", slog.String("backend", "redis"), slog.String("addr", cfg.Redis.Addr))
		return store, nil
	default:
		log.Info("cache connected", slog.String("backend", "memory"))
		return cache.NewMemoryStore(), nil
	}
}

func resolveRateLimitConfig(cfg *config.RateLimitConfig) middleware.RateLimitConfig {
	out := middleware.DefaultRateLimitConfig()
	if cfg.Limit > 0 {
		out.Limit = cfg.Limit
	}
	if window, err := time.ParseDuration(cfg.Window); err == nil && window > 0 {
		out.Window = window
	}
	if len(cfg.ExemptPaths) > 0 {
		out.ExemptPrefixes = cfg.ExemptPaths
	}
	return out
}

func resolveCORSConfig(mode string, configuredAllowOrigins []string) middleware.CORSConfig {
	corsConfig := middleware.DefaultCORSConfig()

	if len(configuredAllowOrigins) > 0 {
		corsConfig.AllowOrigins = configuredAllowOrigins
		return corsConfig
	}

	// Release mode with no allowlist denies cross-origin requests.
	if mode == gin.ReleaseMode {
		corsConfig.AllowOrigins = []string{}
	}

	return corsConfig
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It performs graceful shutdown with a 5-second timeout and closes the
// database and cache connections.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logInfo("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error

	select {
	case <-ctx.Done():
		a.logInfo("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logError("server shutdown error", slog.Any("error", err))
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.logError("database close error", slog.Any("error", err))
			} else {
				a.logInfo("database connection closed")
			}
		}
	}

	if closer, ok := a.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.logError("cache close error", slog.Any("error", err))
		}
	}

	a.logInfo("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}

func (a *App) logInfo(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Info(msg, args...)
		return
	}
	slog.Info(msg, args...)
}

func (a *App) logError(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Error(msg, args...)
		return
	}
	slog.Error(msg, args...)
}
