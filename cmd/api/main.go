// Package main is the entrypoint for the Inkwell API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/inkwell/inkwell/internal/analytics"
	"github.com/inkwell/inkwell/internal/cache"
	"github.com/inkwell/inkwell/internal/catalog"
	"github.com/inkwell/inkwell/internal/config"
	"github.com/inkwell/inkwell/internal/generator"
	"github.com/inkwell/inkwell/internal/handler"
	"github.com/inkwell/inkwell/internal/metrics"
	"github.com/inkwell/inkwell/internal/middleware"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/internal/server"
	"github.com/inkwell/inkwell/internal/service"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Model catalog with pricing overrides from the environment
	cat, err := catalog.NewFromSpec(cfg.ModelCosts)
	if err != nil {
		logger.Error("invalid MODEL_COSTS", "error", err)
		os.Exit(1)
	}

	// Image generation provider
	genClient := generator.NewClient(generator.Config{
		APIKey:  cfg.ImageAPIKey,
		BaseURL: cfg.ImageAPIBaseURL,
		Timeout: cfg.ImageAPITimeout,
		Logger:  logger,
	})

	// Metrics recorder backing /internal/metrics
	metricsRecorder := metrics.NewInMemory()

	// Usage event pipeline
	usageRepo := repository.NewUsageEventRepository(repo)
	publisher := analytics.NewPublisher(cacheClient.Client(), logger, metricsRecorder)

	// Initialize services
	generationService := service.NewGenerationService(repo, genClient, cat, publisher, metricsRecorder, logger)
	userService := service.NewUserService(repo)
	usageService := service.NewUsageService(usageRepo)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	generationHandler := handler.NewGenerationHandler(generationService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	usageHandler := handler.NewUsageHandler(usageService, logger)
	apiKeyHandler := handler.NewAPIKeyHandler(logger, repo)
	adminHandler := handler.NewAdminHandler(repo, repo, repo, cfg.StartingCredits, logger)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)

	// Setup router
	r := setupRouter(routerDeps{
		base:       h,
		health:     healthHandler,
		generation: generationHandler,
		user:       userHandler,
		usage:      usageHandler,
		apiKey:     apiKeyHandler,
		admin:      adminHandler,
		metrics:    metricsHandler,
		repo:       repo,
		cache:      cacheClient,
		recorder:   metricsRecorder,
		cfg:        cfg,
		logger:     logger,
	})

	// Create server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Start the usage worker alongside the HTTP server.
	// Registered first so it shuts down last and drains pending events.
	if cfg.UsageWorkerEnabled {
		worker := analytics.NewWorker(cacheClient.Client(), usageRepo, logger, analytics.NewConsumerID(), metricsRecorder)
		workerCtx, workerCancel := context.WithCancel(ctx)
		go func() {
			if err := worker.Run(workerCtx); err != nil {
				logger.Error("usage worker stopped", "error", err)
			}
		}()
		srv.OnShutdown("usage-worker", func(shutdownCtx context.Context) error {
			defer workerCancel()
			return worker.Shutdown(shutdownCtx)
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"usage_worker", cfg.UsageWorkerEnabled,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	base       *handler.Handler
	health     *handler.HealthHandler
	generation *handler.GenerationHandler
	user       *handler.UserHandler
	usage      *handler.UsageHandler
	apiKey     *handler.APIKeyHandler
	admin      *handler.AdminHandler
	metrics    *handler.MetricsHandler
	repo       *repository.Repository
	cache      *cache.Cache
	recorder   metrics.Recorder
	cfg        *config.Config
	logger     *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.DefaultSecurityConfig()))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	if origins := deps.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: origins}))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Metrics exposition for internal scraping
	r.Get("/internal/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:     deps.logger,
		Repository: deps.repo,
		Cache:      deps.cache,
		Metrics:    deps.recorder,
	}

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:     deps.logger,
		Cache:      deps.cache,
		APIEnabled: deps.cfg.RateLimitAPIEnabled,
		IPEnabled:  deps.cfg.RateLimitIPEnabled,
		IPRPS:      deps.cfg.RateLimitIPRPS,
		IPBurst:    deps.cfg.RateLimitIPBurst,
	}

	// API v1 routes (require authentication)
	r.Route("/api/v1", func(r chi.Router) {
		// IP limiting runs before auth to shed unauthenticated floods
		r.Use(middleware.RateLimitIP(rateLimitCfg))
		r.Use(middleware.Auth(authCfg))
		r.Use(middleware.RateLimitAPI(rateLimitCfg))

		// Generations (generate scope for creation, read for queries)
		r.Route("/generations", func(r chi.Router) {
			r.With(middleware.RequireGenerate()).Post("/", deps.generation.Generate)
			r.With(middleware.RequireRead()).Get("/", deps.generation.List)
			r.With(middleware.RequireRead()).Get("/{id}", deps.generation.Get)
		})

		// Account and usage
		r.With(middleware.RequireRead()).Get("/me", deps.user.Me)
		r.With(middleware.RequireRead()).Get("/usage", deps.usage.GetUsage)

		// API key management (requires admin scope for mutations)
		r.Route("/api-keys", func(r chi.Router) {
			r.With(middleware.RequireRead()).Get("/", deps.apiKey.ListAPIKeys)
			r.With(middleware.RequireAdmin()).Post("/", deps.apiKey.CreateAPIKey)
			r.With(middleware.RequireAdmin()).Delete("/{key_id}", deps.apiKey.RevokeAPIKey)
			r.With(middleware.RequireAdmin()).Post("/{key_id}/rotate", deps.apiKey.RotateAPIKey)
		})

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Get("/users", deps.admin.LookupUser)
			r.Post("/users", deps.admin.CreateUser)
			r.Get("/generations", deps.admin.LookupGeneration)
			r.Get("/api-keys", deps.admin.ListAPIKeysByUser)
			r.Get("/stats", deps.admin.Stats)
		})
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
