package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	CORSAllowedOrigins []string

	LogFormat string
	LogLevel  string

	MetricsNamespace string

	TracingEnabled       bool
	TracingEndpoint      string
	TracingSamplingRatio float64

	// Marketplace platform (Flex-style) API.
	FlexBaseURL          string
	FlexClientID         string
	FlexIntegrationToken string
	FlexCommissionAsset  string
	FlexTimeout          time.Duration

	// Mapbox geocoding/directions.
	MapboxBaseURL     string
	MapboxAccessToken string
	MapboxTimeout     time.Duration

	// A listing can only sit under one delivery method in the cart when
	// exclusive delivery is on.
	CartExclusiveDelivery bool

	// Redis is optional; when unset the rate limiter is disabled.
	RedisURL        string
	RateLimitWindow time.Duration
	RateLimitMax    int

	MaxBodyBytes int64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		LogFormat: valueOrDefault(k.String("LOG_FORMAT"), "json"),
		LogLevel:  valueOrDefault(k.String("LOG_LEVEL"), "info"),

		MetricsNamespace: valueOrDefault(k.String("METRICS_NAMESPACE"), "pasar"),

		TracingEnabled:       parseBool(k.String("TRACING_ENABLED"), false),
		TracingEndpoint:      k.String("TRACING_ENDPOINT"),
		TracingSamplingRatio: parseFloat(k.String("TRACING_SAMPLING_RATIO"), 1),

		FlexBaseURL:          strings.TrimRight(valueOrDefault(k.String("FLEX_BASE_URL"), "https://flex-api.sharetribe.com"), "/"),
		FlexClientID:         k.String("FLEX_CLIENT_ID"),
		FlexIntegrationToken: k.String("FLEX_INTEGRATION_TOKEN"),
		FlexCommissionAsset:  valueOrDefault(k.String("FLEX_COMMISSION_ASSET"), "transactions/commission.json"),
		FlexTimeout:          parseDuration(k.String("FLEX_TIMEOUT"), "10s"),

		MapboxBaseURL:     strings.TrimRight(valueOrDefault(k.String("MAPBOX_BASE_URL"), "https://api.mapbox.com"), "/"),
		MapboxAccessToken: k.String("MAPBOX_ACCESS_TOKEN"),
		MapboxTimeout:     parseDuration(k.String("MAPBOX_TIMEOUT"), "10s"),

		CartExclusiveDelivery: parseBool(k.String("CART_EXCLUSIVE_DELIVERY"), true),

		RedisURL:        k.String("REDIS_URL"),
		RateLimitWindow: parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		RateLimitMax:    parseInt(k.String("RATE_LIMIT_MAX"), 120),

		MaxBodyBytes: int64(parseInt(k.String("HTTP_MAX_BODY_BYTES"), 1<<20)),
	}

	if cfg.FlexClientID == "" {
		return nil, errors.New("FLEX_CLIENT_ID is required")
	}
	if cfg.FlexIntegrationToken == "" {
		return nil, errors.New("FLEX_INTEGRATION_TOKEN is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string, fallback bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	switch strings.ToLower(trimmed) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	var parsed float64
	if _, err := fmt.Sscanf(trimmed, "%g", &parsed); err != nil {
		return fallback
	}
	return parsed
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(trimmed, "%d", &parsed); err != nil {
		return fallback
	}
	return parsed
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
