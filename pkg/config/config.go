package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds global settings for the analysis service.
// All settings can be configured via environment variables or programmatically.
type Config struct {
	// === Core Settings ===
	ListenAddr   string // HTTP listen address (default: ":8080")
	SignatureDir string // Directory of YAML signature files; empty uses the built-in set

	// === Upstream Providers ===
	APIBaseURL        string // Content data API base URL
	APIKey            string // API key for the data API (env: VIDGUARD_API_KEY)
	TranscriptBaseURL string // Timedtext endpoint base URL

	// === Fetch Budget ===
	CommentLimit    int           // Comments fetched per item (default: 100)
	ProviderTimeout time.Duration // Per-provider fetch bound (default: 10s)
	MaxFetches      int           // Concurrent upstream fetches across all providers (default: 32)

	// === Admission Control ===
	CacheTTL   time.Duration // Result freshness window (default: 1h)
	CacheSize  int           // In-memory cache bound, entries (default: 1024)
	Cooldown   time.Duration // Minimum gap between computed analyses of one key (default: 60s)
	DailyQuota int           // Computed analyses per UTC day; 0 disables (default: 1000)

	// === Result Store ===
	RedisAddr string // Redis address for the shared result store; empty keeps the in-process cache
}

// NewDefaultConfig creates a Config with sensible defaults.
// All settings can be overridden via environment variables.
func NewDefaultConfig() *Config {
	return &Config{
		ListenAddr:   GetEnv("VIDGUARD_LISTEN", ":8080"),
		SignatureDir: GetEnv("VIDGUARD_SIGNATURE_DIR", ""),

		APIBaseURL:        GetEnv("VIDGUARD_API_BASE_URL", "https://www.googleapis.com/youtube/v3"),
		APIKey:            GetEnv("VIDGUARD_API_KEY", ""),
		TranscriptBaseURL: GetEnv("VIDGUARD_TRANSCRIPT_BASE_URL", "https://video.google.com"),

		CommentLimit:    clampInt(GetEnvInt("VIDGUARD_COMMENT_LIMIT", 100), 1, 500),
		ProviderTimeout: time.Duration(GetEnvInt("VIDGUARD_PROVIDER_TIMEOUT_MS", 10000)) * time.Millisecond,
		MaxFetches:      clampInt(GetEnvInt("VIDGUARD_MAX_FETCHES", 32), 1, 256),

		CacheTTL:   time.Duration(GetEnvInt("VIDGUARD_CACHE_TTL_SECONDS", 3600)) * time.Second,
		CacheSize:  clampInt(GetEnvInt("VIDGUARD_CACHE_SIZE", 1024), 16, 1_000_000),
		Cooldown:   time.Duration(GetEnvInt("VIDGUARD_COOLDOWN_SECONDS", 60)) * time.Second,
		DailyQuota: GetEnvInt("VIDGUARD_DAILY_QUOTA", 1000),

		RedisAddr: GetEnv("VIDGUARD_REDIS_ADDR", ""),
	}
}

// NewStrictConfig tightens the external call budget: longer cooldowns and
// a smaller quota. Use where API costs matter more than freshness.
func NewStrictConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Cooldown = 5 * time.Minute
	cfg.DailyQuota = 200
	cfg.CommentLimit = 50
	return cfg
}

// NewLenientConfig loosens the budget for development and backfills.
func NewLenientConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Cooldown = 5 * time.Second
	cfg.DailyQuota = 0
	cfg.CacheTTL = time.Minute
	return cfg
}

// clampInt ensures a value is within bounds
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Helper functions for environment variable parsing.
// Exported for use by other packages.

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvFloat returns the float64 value of an environment variable or a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

// Validate checks that the configuration is usable. In production mode
// (VIDGUARD_ENV=production) a missing API key is fatal; in development it
// is a warning, since hint-only analysis still works without providers.
func (c *Config) Validate() error {
	env := strings.ToLower(os.Getenv("VIDGUARD_ENV"))
	isProduction := env == "production" || env == "prod"

	var problems []string

	if c.APIKey == "" {
		if isProduction {
			problems = append(problems, "VIDGUARD_API_KEY (data API key)")
		} else {
			log.Printf("[STARTUP] Warning: VIDGUARD_API_KEY not set; metadata and comment providers disabled")
		}
	}
	if c.CacheTTL <= 0 {
		problems = append(problems, "VIDGUARD_CACHE_TTL_SECONDS (must be positive)")
	}
	if c.Cooldown < 0 {
		problems = append(problems, "VIDGUARD_COOLDOWN_SECONDS (must not be negative)")
	}
	if c.DailyQuota < 0 {
		problems = append(problems, "VIDGUARD_DAILY_QUOTA (must not be negative)")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}

// MustValidate calls Validate and fatally exits if validation fails.
// Call this at startup before starting the server.
func (c *Config) MustValidate() {
	if err := c.Validate(); err != nil {
		log.Fatalf("[STARTUP] FATAL: Configuration validation failed: %v", err)
	}
	log.Println("[STARTUP] Configuration validated successfully")
}
