package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup and treated as immutable.
type Config struct {
	// Server
	Port              string
	CORSAllowedOrigin string
	LogLevel          slog.Level

	// Storage
	DatabaseURL    string
	RedisURL       string
	PublicCacheTTL time.Duration

	// Auth
	JWTSecret          string
	RateLimitPerMinute int

	// Rendering
	TemplateDir string

	// PDF
	ChromePath           string
	PDFTimeout           time.Duration
	PDFNetworkIdleWait   time.Duration
	PDFMarginInches      float64
	PDFSanitizeHTML      bool
	PDFLaunchesPerMinute int
}

// Load reads .env (when present) and then the environment. A missing
// JWT_SECRET is an error; everything else has a default.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env", slog.Any("error", err))
	}

	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		LogLevel:          getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		PublicCacheTTL: getEnvAsDuration("PUBLIC_CACHE_TTL", 10*time.Minute),

		JWTSecret:          getEnv("JWT_SECRET", ""),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),

		TemplateDir: getEnv("TEMPLATE_DIR", ""),

		ChromePath:           getEnv("CHROME_PATH", ""),
		PDFTimeout:           getEnvAsDuration("PDF_TIMEOUT", 30*time.Second),
		PDFNetworkIdleWait:   getEnvAsDuration("PDF_NETWORK_IDLE_WAIT", 2*time.Second),
		PDFMarginInches:      getEnvAsFloat("PDF_MARGIN_INCHES", 0.4),
		PDFSanitizeHTML:      getEnvAsBool("PDF_SANITIZE_CLIENT_HTML", false),
		PDFLaunchesPerMinute: getEnvAsInt("PDF_LAUNCHES_PER_MINUTE", 30),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("required environment variable is not set: JWT_SECRET")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return defaultValue
	}
	return level
}
