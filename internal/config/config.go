// Package config loads process configuration from the environment and
// validates it before anything is wired up.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config is the immutable process configuration. Fields are set once at
// startup and never mutated.
type Config struct {
	Addr string `validate:"required"`

	// Admission limits: at most RateLimitRequests per client within any
	// trailing window of RateLimitWindowSeconds.
	RateLimitRequests      int `validate:"min=1"`
	RateLimitWindowSeconds int `validate:"min=1"`

	// CORSOrigins lists the origins allowed by the browser-facing routes.
	CORSOrigins []string `validate:"min=1"`

	// RedisAddr enables the coach response cache when non-empty.
	RedisAddr       string
	RedisPassword   string
	RedisDB         int `validate:"min=0"`
	CacheTTLSeconds int `validate:"min=1"`

	// Provider credentials; handlers report "service not configured" when
	// the one they need is empty.
	ElevenLabsAPIKey string
	GeminiAPIKey     string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the environment and returns a validated configuration.
func Load() (Config, error) {
	cfg := Config{
		Addr:                   getString("ADDR", ":8080"),
		RateLimitRequests:      getInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 100),
		RateLimitWindowSeconds: getInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		CORSOrigins:            getStrings("CORS_ORIGINS", "*"),
		RedisAddr:              getString("REDIS_ADDR", ""),
		RedisPassword:          getString("REDIS_PASSWORD", ""),
		RedisDB:                getInt("REDIS_DB", 0),
		CacheTTLSeconds:        getInt("CACHE_TTL_SECONDS", 300),
		ElevenLabsAPIKey:       getString("ELEVENLABS_API_KEY", ""),
		GeminiAPIKey:           getString("GEMINI_API_KEY", ""),
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getString(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return val
}

func getStrings(key, fallback string) []string {
	raw := getString(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{fallback}
	}
	return out
}

func getInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
