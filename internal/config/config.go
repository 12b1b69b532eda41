package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ModelConfig holds the classification model artifacts.
type ModelConfig struct {
	Path         string
	MetadataPath string
}

// RateLimitConfig holds fixed-window rate limiting settings.
// UploadPerMinute applies to the upload route only; the hourly and daily
// limits apply to every route.
type RateLimitConfig struct {
	BackendURI      string
	FailOpen        bool
	UploadPerMinute int
	GlobalPerHour   int
	GlobalPerDay    int
}

// AppConfig is the centralized configuration struct for the application.
// It is built once at startup from environment variables; every middleware
// consumes it instead of re-reading the environment per request.
type AppConfig struct {
	Port       string
	Env        string
	TempFolder string

	AllowedOrigins []string

	// Derived security settings, computed once from Env.
	EnforceHTTPS          bool
	ContentSecurityPolicy string
	HSTSMaxAge            int
	AllowCredentials      bool

	MetricsEnabled bool
	TrustProxy     bool

	RateLimit RateLimitConfig
	Model     ModelConfig
}

const (
	// MaxUploadSize is the request body cap; larger uploads are rejected
	// before the body is buffered.
	MaxUploadSize = 16 * 1024 * 1024

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	env := getEnv("ENVIRONMENT_MODE", EnvDevelopment)
	prod := env == EnvProduction

	cfg := &AppConfig{
		Port:           getEnv("PORT", "5000"),
		Env:            env,
		TempFolder:     getEnv("TEMP_FOLDER", "tmp"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		TrustProxy:     getEnvBool("TRUST_PROXY_HEADER", prod),
		RateLimit: RateLimitConfig{
			BackendURI:      getEnv("RATE_LIMIT_BACKEND_URI", ""),
			FailOpen:        getEnvBool("RATE_LIMIT_FAIL_OPEN", true),
			UploadPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 5),
			GlobalPerHour:   getEnvInt("RATE_LIMIT_PER_HOUR", 50),
			GlobalPerDay:    getEnvInt("RATE_LIMIT_PER_DAY", 100),
		},
		Model: ModelConfig{
			Path:         getEnv("MODEL_PATH", "models/model.onnx"),
			MetadataPath: getEnv("MODEL_METADATA_PATH", "models/model_metadata.json"),
		},
	}

	// Production tightens transport security; development keeps local
	// testing friction-free.
	if prod {
		cfg.EnforceHTTPS = true
		cfg.ContentSecurityPolicy = "default-src 'self'"
		cfg.HSTSMaxAge = int((365 * 24 * time.Hour).Seconds())
		cfg.AllowCredentials = len(cfg.AllowedOrigins) > 0
	}

	return cfg
}

// IsProduction reports whether the service runs in production mode.
func (c *AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
