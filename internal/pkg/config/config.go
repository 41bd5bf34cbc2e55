package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int
	GRPCPort int

	RedisAddr string

	CatalogBaseURL              string
	CatalogTimeout              time.Duration
	CatalogRetryMaxAttempts     int
	CatalogRetryInitialInterval time.Duration

	BreakerWindow           time.Duration
	BreakerCooldown         time.Duration
	BreakerMinRequests      int
	BreakerFailureRatio     float64
	BreakerHalfOpenRequests int

	CartMaxItems int
	CartTTL      time.Duration

	// ActivityDBPath empty disables the activity log.
	ActivityDBPath string
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPPort: getEnvInt("HTTP_PORT", 8082),
		GRPCPort: getEnvInt("GRPC_PORT", 9093),

		RedisAddr: getEnv("REDIS_ADDR", "redis-cache:6379"),

		CatalogBaseURL:              getEnv("CATALOG_BASE_URL", "http://catalog-service:8081/api/v1"),
		CatalogTimeout:              getEnvDuration("CATALOG_TIMEOUT", 2*time.Second),
		CatalogRetryMaxAttempts:     getEnvInt("CATALOG_RETRY_MAX_ATTEMPTS", 3),
		CatalogRetryInitialInterval: getEnvDuration("CATALOG_RETRY_INITIAL_INTERVAL", 100*time.Millisecond),

		BreakerWindow:           getEnvDuration("CATALOG_BREAKER_WINDOW", 60*time.Second),
		BreakerCooldown:         getEnvDuration("CATALOG_BREAKER_COOLDOWN", 30*time.Second),
		BreakerMinRequests:      getEnvInt("CATALOG_BREAKER_MIN_REQUESTS", 5),
		BreakerFailureRatio:     getEnvFloat("CATALOG_BREAKER_FAILURE_RATIO", 0.5),
		BreakerHalfOpenRequests: getEnvInt("CATALOG_BREAKER_HALF_OPEN_REQUESTS", 1),

		CartMaxItems: getEnvInt("CART_MAX_ITEMS", 100),
		CartTTL:      time.Duration(getEnvInt("CART_TTL_DAYS", 7)) * 24 * time.Hour,

		ActivityDBPath: os.Getenv("ACTIVITY_DB_PATH"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// getEnvDuration accepts Go durations ("250ms", "2s").
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
