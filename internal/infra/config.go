package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	JWTSecret         string
	ProcessorBaseURL  string
	ProcessorAPIKey   string
	ProcessorTimeout  time.Duration
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	DocumentCacheTTL  time.Duration
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
	RateLimitPerMin   int
	AllowedOrigins    []string
	SweepInterval     time.Duration
	StaleJobThreshold time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		ProcessorBaseURL:  os.Getenv("PROCESSOR_BASE_URL"),
		ProcessorAPIKey:   os.Getenv("PROCESSOR_API_KEY"),
		ProcessorTimeout:  time.Second * time.Duration(getEnvInt("PROCESSOR_TIMEOUT_SECONDS", 30)),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		DocumentCacheTTL:  time.Second * time.Duration(getEnvInt("DOCUMENT_CACHE_TTL_SECONDS", 300)),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		AllowedOrigins:    splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		SweepInterval:     time.Second * time.Duration(getEnvInt("SWEEP_INTERVAL_SECONDS", 60)),
		StaleJobThreshold: time.Second * time.Duration(getEnvInt("STALE_JOB_THRESHOLD_SECONDS", 600)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.ProcessorBaseURL == "" {
		return nil, fmt.Errorf("PROCESSOR_BASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
