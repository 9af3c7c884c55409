// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL   string `env:"DATABASE_URL,required"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"false"`

	// Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Identity provider. With a JWT secret sessions are verified locally;
	// otherwise every token is checked against the auth API.
	SupabaseJWTSecret string `env:"SUPABASE_JWT_SECRET"`
	SupabaseAudience  string `env:"SUPABASE_JWT_AUDIENCE" envDefault:"authenticated"`
	SupabaseAuthURL   string `env:"SUPABASE_AUTH_URL"`
	SupabaseAnonKey   string `env:"SUPABASE_ANON_KEY"`

	// Upstream APIs
	CountriesAPIURL   string        `env:"COUNTRIES_API_URL" envDefault:"https://restcountries.com"`
	WeatherAPIURL     string        `env:"WEATHER_API_URL" envDefault:"https://api.openweathermap.org/data/2.5"`
	WeatherAPIKey     string        `env:"WEATHER_API_KEY"`
	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"10s"`

	// Caching
	CatalogCacheTTL        time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"24h"`
	WeatherCacheTTL        time.Duration `env:"WEATHER_CACHE_TTL" envDefault:"10m"`
	CatalogRefreshInterval time.Duration `env:"CATALOG_REFRESH_INTERVAL" envDefault:"5m"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting, per signed-in user or per client IP
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 64KB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"65536"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// WeatherEnabled reports whether an OpenWeather API key is configured.
func (c *Config) WeatherEnabled() bool {
	return c.WeatherAPIKey != ""
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	if c.SupabaseJWTSecret == "" && c.SupabaseAuthURL == "" {
		return errors.New("one of SUPABASE_JWT_SECRET or SUPABASE_AUTH_URL is required")
	}
	if c.RateLimitEnabled && c.RateLimitRPS <= 0 {
		return errors.New("RATE_LIMIT_RPS must be positive when rate limiting is enabled")
	}
	if c.MaxRequestBodySize <= 0 {
		return errors.New("MAX_REQUEST_BODY_SIZE must be positive")
	}
	return nil
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
