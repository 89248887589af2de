package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Port               string
	BackofficeURL      string
	UpstreamTimeout    time.Duration
	SessionIdleTTL     time.Duration
	LookupCacheTTL     time.Duration
	RedisAddr          string
	RedisPassword      string
	DatabaseURL        string
	NetDiscount        bool
	KeepPartialPayment bool
	SubmitRateLimit    int
	LogLevel           string
	CORSOrigins        []string
}

func LoadEnv() error {
	// A missing .env is normal outside local development; the environment
	// is already populated.
	_ = godotenv.Load()
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv(logger *zap.Logger) error {
	var missing []string

	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("BACKOFFICE_URL") == "" {
		missing = append(missing, "BACKOFFICE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	if os.Getenv("DATABASE_URL") == "" {
		logger.Warn("DATABASE_URL not set - submissions will not be audited")
	}
	if os.Getenv("REDIS_ADDR") == "" {
		logger.Warn("REDIS_ADDR not set - lookups cached in process memory")
	}
	if os.Getenv("FRONTEND_URL") == "" {
		logger.Warn("FRONTEND_URL not set - CORS may not work correctly")
	}

	return nil
}

// Load collects the service settings. Malformed values fall back to defaults.
func Load() Config {
	return Config{
		Port:               GetEnv("PORT", "8080"),
		BackofficeURL:      os.Getenv("BACKOFFICE_URL"),
		UpstreamTimeout:    GetDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		SessionIdleTTL:     GetDuration("SESSION_IDLE_TTL", 2*time.Hour),
		LookupCacheTTL:     GetDuration("LOOKUP_CACHE_TTL", 10*time.Minute),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		NetDiscount:        GetBool("PAYABLE_NETS_DISCOUNT", false),
		KeepPartialPayment: GetBool("KEEP_PARTIAL_PAYMENT", false),
		SubmitRateLimit:    GetInt("SUBMIT_RATE_LIMIT", 10),
		LogLevel:           GetEnv("LOG_LEVEL", "info"),
		CORSOrigins:        corsOrigins(),
	}
}

func corsOrigins() []string {
	var origins []string
	for _, o := range []string{os.Getenv("FRONTEND_URL"), os.Getenv("ADMIN_URL")} {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func GetBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func GetInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
