// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// GeocoderConfig provides settings for the external geocoding service.
type GeocoderConfig interface {
	GetGeocoderBaseURL() string
	GetGeocoderUserAgent() string
	GetGeocoderTimeout() time.Duration
}

// PlannerConfig provides settings for the external trip-planning service.
type PlannerConfig interface {
	GetPlannerBaseURL() string
	GetPlannerTimeout() time.Duration
}

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	GeocoderBaseURL   string
	GeocoderUserAgent string
	GeocoderTimeout   time.Duration

	PlannerBaseURL string
	PlannerTimeout time.Duration
}

// Load reads configuration from the environment, with .env support.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),

		GeocoderBaseURL:   getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "TripGateway/1.0"),
		GeocoderTimeout:   mustDuration(getEnv("GEOCODER_TIMEOUT", "5s")),

		PlannerBaseURL: getEnv("PLANNER_BASE_URL", "http://localhost:8000"),
		PlannerTimeout: mustDuration(getEnv("PLANNER_TIMEOUT", "30s")),
	}

	return cfg, nil
}

// GetHTTPAddr returns the HTTP listen address.
func (c *Config) GetHTTPAddr() string { return c.HTTPAddr }

// GetCORSAllowAll reports whether all origins are allowed.
func (c *Config) GetCORSAllowAll() bool { return c.CORSAllowAll }

// GetCORSOrigins returns the allowed CORS origins.
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// GetCORSAllowCreds reports whether CORS credentials are allowed.
func (c *Config) GetCORSAllowCreds() bool { return c.CORSAllowCreds }

// GetGeocoderBaseURL returns the geocoding service base URL.
func (c *Config) GetGeocoderBaseURL() string { return c.GeocoderBaseURL }

// GetGeocoderUserAgent returns the User-Agent sent to the geocoding service.
func (c *Config) GetGeocoderUserAgent() string { return c.GeocoderUserAgent }

// GetGeocoderTimeout returns the geocoding request timeout.
func (c *Config) GetGeocoderTimeout() time.Duration { return c.GeocoderTimeout }

// GetPlannerBaseURL returns the trip-planning service base URL.
func (c *Config) GetPlannerBaseURL() string { return c.PlannerBaseURL }

// GetPlannerTimeout returns the trip-planning request timeout.
func (c *Config) GetPlannerTimeout() time.Duration { return c.PlannerTimeout }

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
