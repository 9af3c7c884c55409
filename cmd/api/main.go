// Package main is the entrypoint for the countries explorer API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/countries-explorer/explorer/internal/analytics"
	"github.com/countries-explorer/explorer/internal/cache"
	"github.com/countries-explorer/explorer/internal/catalog"
	"github.com/countries-explorer/explorer/internal/config"
	"github.com/countries-explorer/explorer/internal/handler"
	"github.com/countries-explorer/explorer/internal/identity"
	"github.com/countries-explorer/explorer/internal/metrics"
	"github.com/countries-explorer/explorer/internal/middleware"
	"github.com/countries-explorer/explorer/internal/navigation"
	"github.com/countries-explorer/explorer/internal/repository"
	"github.com/countries-explorer/explorer/internal/server"
	"github.com/countries-explorer/explorer/internal/service"
	"github.com/countries-explorer/explorer/internal/upstream"
	"github.com/countries-explorer/explorer/internal/weather"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Apply migrations before the pool opens
	if cfg.RunMigrations {
		if err := repository.Migrate(cfg.DatabaseURL); err != nil {
			logger.Error(
				"failed to apply migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

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
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		repo.Close()
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Upstream clients
	metricsRecorder := metrics.NewInMemory()
	httpClient := upstream.NewHTTPClient(cfg.HTTPClientTimeout)
	catalogClient := catalog.NewClient(cfg.CountriesAPIURL, httpClient, metricsRecorder, logger)

	var weatherFetcher service.WeatherFetcher
	if cfg.WeatherEnabled() {
		weatherFetcher = weather.NewClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey, httpClient, metricsRecorder, logger)
	} else {
		logger.Warn("WEATHER_API_KEY not set, weather lookups disabled")
	}

	provider := initIdentity(cfg, httpClient, cacheClient, logger)

	// Initialize services
	countryService := service.NewCountryService(
		catalogClient,
		weatherFetcher,
		cacheClient,
		service.CountryServiceConfig{
			CatalogTTL: cfg.CatalogCacheTTL,
			WeatherTTL: cfg.WeatherCacheTTL,
		},
		metricsRecorder,
		logger,
	)
	favouriteService := service.NewFavouriteService(repo, countryService, analytics.Options{}, metricsRecorder, logger)
	sessionService := service.NewSessionService(provider, logger)
	sessionService.OnSignOut(favouriteService.Forget)

	policy := navigation.NewPolicy(navigation.DefaultRoutes())

	// Initialize handlers
	catalogCheck := handler.HealthCheck{
		Name:    "catalog",
		Checker: handler.HealthCheckFunc(func(context.Context) error {
			return countryService.Ready()
		}),
	}
	handlers := routeHandlers{
		root:       handler.New(),
		health:     handler.NewHealthHandler(repo, cacheClient, catalogCheck),
		metrics:    handler.NewMetricsHandler(metricsRecorder),
		countries:  handler.NewCountryHandler(countryService, logger),
		favourites: handler.NewFavouriteHandler(favouriteService, logger),
		session:    handler.NewSessionHandler(sessionService, policy, logger),
	}

	r := setupRouter(handlers, provider, cacheClient, policy, cfg, logger)

	// Create and run server
	srv := server.New(r, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})
	srv.Go("catalog-warmer", func(ctx context.Context) error {
		return countryService.Warm(ctx, cfg.CatalogRefreshInterval)
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"countries_api", cfg.CountriesAPIURL,
		"weather_enabled", cfg.WeatherEnabled(),
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
	switch strings.ToLower(level) {
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

// initIdentity builds the session provider: local JWT verification when a
// secret is configured, the remote auth API otherwise, with resolved
// sessions cached in Redis.
func initIdentity(cfg *config.Config, httpClient *http.Client, store identity.SessionStore, logger *slog.Logger) identity.Provider {
	var verifier *identity.Verifier
	if cfg.SupabaseJWTSecret != "" {
		verifier = identity.NewVerifier(cfg.SupabaseJWTSecret, cfg.SupabaseAudience)
	}

	var remote *identity.GoTrueClient
	if cfg.SupabaseAuthURL != "" {
		remote = identity.NewGoTrueClient(cfg.SupabaseAuthURL, cfg.SupabaseAnonKey, httpClient)
	}

	return identity.NewCachedProvider(identity.NewClient(verifier, remote), store, logger)
}

type routeHandlers struct {
	root       *handler.Handler
	health     *handler.HealthHandler
	metrics    *handler.MetricsHandler
	countries  *handler.CountryHandler
	favourites *handler.FavouriteHandler
	session    *handler.SessionHandler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h routeHandlers,
	provider identity.Provider,
	limiter middleware.RateLimiter,
	policy *navigation.Policy,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Probes and metrics (no session)
	r.Get("/healthz", h.health.Healthz)
	r.Get("/readyz", h.health.Readyz)
	r.Get("/metrics", h.metrics.Metrics)

	sessionMW := middleware.Session(middleware.SessionConfig{
		Logger:   logger,
		Provider: provider,
	})
	rateLimitMW := middleware.RateLimit(middleware.RateLimitConfig{
		Logger:    logger,
		Limiter:   limiter,
		Enabled:   cfg.RateLimitEnabled,
		UserRPS:   cfg.RateLimitRPS,
		UserBurst: cfg.RateLimitBurst,
		IPRPS:     cfg.RateLimitRPS,
		IPBurst:   cfg.RateLimitBurst,
	})

	// Page routes, redirected by auth state
	r.Group(func(r chi.Router) {
		r.Use(sessionMW)
		r.Use(middleware.NavigationGuard(policy))

		r.Get("/", h.root.Hello)
		r.Get(navigation.LoginRoute, h.root.Page)
		r.Get(navigation.LandingRoute, h.root.Page)
		r.Get("/profile", h.root.Page)
		r.Get("/protected", h.root.Page)
		r.Get("/favourites", h.root.Page)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(sessionMW)
		r.Use(rateLimitMW)
		r.Use(middleware.RequireJSON)

		// Catalog browsing works without a session
		r.Get("/countries", h.countries.List)
		r.Get("/countries/{slug}", h.countries.Get)
		r.Get("/navigation", h.session.Navigation)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)

			r.Get("/me", h.session.Me)
			r.Post("/logout", h.session.Logout)

			r.Route("/favourites", func(r chi.Router) {
				r.Get("/", h.favourites.List)
				r.Post("/", h.favourites.Add)
				r.Get("/analytics", h.favourites.Analytics)
				r.Delete("/{name}", h.favourites.Remove)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.root.NotFound)
	r.MethodNotAllowed(h.root.MethodNotAllowed)

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

	q := parsed.Query()
	for _, key := range []string{"appid", "apikey", "password"} {
		if q.Has(key) {
			q.Set(key, "redacted")
		}
	}
	parsed.RawQuery = q.Encode()

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
