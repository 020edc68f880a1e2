// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, LLM providers, storage, and rate limiting.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// LINE Bot Configuration
	LineChannelToken  string
	LineChannelSecret string

	// LLM Configuration
	OpenAIAPIKey  string // OpenAI (or compatible) API key for content generation
	OpenAIModel   string // Chat completion model (default: gpt-4o-mini)
	OpenAIBaseURL string // Optional custom base URL for OpenAI-compatible providers
	GeminiAPIKey  string // Gemini API key (fallback provider)
	GeminiModel   string // Gemini model (default: gemini-2.5-flash)

	// LLMPrimaryProvider selects the first provider to try: "openai" or "gemini"
	LLMPrimaryProvider string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Observability
	BetterstackToken    string // Better Stack Logs token (empty = stdout only)
	BetterstackEndpoint string // Better Stack Logs ingesting endpoint
	SentryToken         string // Better Stack Errors token (empty = disabled)
	SentryHost          string // Better Stack Errors ingesting host
	Environment         string // Deployment environment (default: "production")

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir string // Data directory for SQLite database

	// Transcript Archive (optional, disabled when endpoint is empty)
	ArchiveEndpoint    string
	ArchiveAccessKeyID string
	ArchiveSecretKey   string
	ArchiveBucket      string
	ArchivePrefix      string

	// Bot Configuration (embedded)
	Bot BotConfig
}

// BotConfig holds bot-specific configuration
type BotConfig struct {
	// Rate Limits (Token Bucket Algorithm)
	UserRateLimitBurst        float64 // Maximum burst tokens per user (default: 10)
	UserRateLimitRefillPerSec float64 // Tokens refilled per second (default: 0.2 = 1 per 5s)

	// LINE API Constraints
	MaxTextMessageLength int // Maximum characters per text message (LINE API limit: 5000)
	MinReplyTokenLength  int // Minimum reply token length (default: 10)
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		LineChannelToken:  getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineChannelSecret: getEnv("LINE_CHANNEL_SECRET", ""),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		LLMPrimaryProvider: getEnv("LLM_PRIMARY_PROVIDER", "openai"),

		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		BetterstackToken:    getEnv("BETTERSTACK_LOG_TOKEN", ""),
		BetterstackEndpoint: getEnv("BETTERSTACK_LOG_ENDPOINT", ""),
		SentryToken:         getEnv("SENTRY_TOKEN", ""),
		SentryHost:          getEnv("SENTRY_HOST", "errors.betterstack.com"),
		Environment:         getEnv("ENVIRONMENT", "production"),

		Port:            getEnv("PORT", "10000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),

		DataDir: getEnv("DATA_DIR", getDefaultDataDir()),

		ArchiveEndpoint:    getEnv("ARCHIVE_ENDPOINT", ""),
		ArchiveAccessKeyID: getEnv("ARCHIVE_ACCESS_KEY_ID", ""),
		ArchiveSecretKey:   getEnv("ARCHIVE_SECRET_ACCESS_KEY", ""),
		ArchiveBucket:      getEnv("ARCHIVE_BUCKET", ""),
		ArchivePrefix:      getEnv("ARCHIVE_PREFIX", "transcripts"),

		Bot: BotConfig{
			UserRateLimitBurst:        getFloatEnv("USER_RATE_LIMIT_BURST", 10.0),
			UserRateLimitRefillPerSec: getFloatEnv("USER_RATE_LIMIT_REFILL_PER_SEC", 0.2), // 1 per 5s
			MaxTextMessageLength:      5000,
			MinReplyTokenLength:       10,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.LineChannelToken == "" {
		errs = append(errs, errors.New("LINE_CHANNEL_ACCESS_TOKEN is required"))
	}
	if c.LineChannelSecret == "" {
		errs = append(errs, errors.New("LINE_CHANNEL_SECRET is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("DATA_DIR is required"))
	}
	if !c.HasLLMProvider() {
		errs = append(errs, errors.New("at least one of OPENAI_API_KEY or GEMINI_API_KEY is required"))
	}
	switch c.LLMPrimaryProvider {
	case "openai", "gemini":
	default:
		errs = append(errs, fmt.Errorf("LLM_PRIMARY_PROVIDER must be openai or gemini, got %q", c.LLMPrimaryProvider))
	}
	if c.Bot.UserRateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("USER_RATE_LIMIT_BURST must be positive, got %v", c.Bot.UserRateLimitBurst))
	}
	if c.Bot.UserRateLimitRefillPerSec <= 0 {
		errs = append(errs, fmt.Errorf("USER_RATE_LIMIT_REFILL_PER_SEC must be positive, got %v", c.Bot.UserRateLimitRefillPerSec))
	}
	if c.ArchiveEndpoint != "" {
		if c.ArchiveAccessKeyID == "" || c.ArchiveSecretKey == "" || c.ArchiveBucket == "" {
			errs = append(errs, errors.New("ARCHIVE_ACCESS_KEY_ID, ARCHIVE_SECRET_ACCESS_KEY and ARCHIVE_BUCKET are required when ARCHIVE_ENDPOINT is set"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "conversations.db")
}

// HasLLMProvider returns true if at least one LLM provider is configured.
func (c *Config) HasLLMProvider() bool {
	return c.OpenAIAPIKey != "" || c.GeminiAPIKey != ""
}

// HasArchive returns true if the transcript archive is configured.
func (c *Config) HasArchive() bool {
	return c.ArchiveEndpoint != ""
}
