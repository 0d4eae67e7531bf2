// Package config loads service configuration from the environment
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	API     APIConfig
	History HistoryConfig
	Cache   CacheConfig
	Session SessionConfig
	CORS    CORSConfig
	DataDir string
	// DefaultLanguage is used when a request names no supported language
	DefaultLanguage string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Addr string
}

// LogConfig selects the logger flavor and level
type LogConfig struct {
	Env   string
	Level string
}

// APIConfig describes the remote rate API. {date} in the URLs is replaced by the date token.
type APIConfig struct {
	PrimaryURL  string
	FallbackURL string
	Version     string
	Minified    bool
	Timeout     time.Duration
}

// HistoryConfig bounds the historical series fan-out
type HistoryConfig struct {
	Concurrency int
}

// CacheConfig configures the dated rate document cache
type CacheConfig struct {
	TTL           time.Duration
	PruneSchedule string
}

// SessionConfig configures persisted converter sessions
type SessionConfig struct {
	TTL time.Duration
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and a .env file if present
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATA_DIR", "")
	v.SetDefault("API_PRIMARY_URL", "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@{date}")
	v.SetDefault("API_FALLBACK_URL", "https://{date}.currency-api.pages.dev")
	v.SetDefault("API_VERSION", "v1")
	v.SetDefault("API_MINIFIED", true)
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("HISTORY_CONCURRENCY", 8)
	v.SetDefault("CACHE_TTL", "24h")
	v.SetDefault("CACHE_PRUNE_SCHEDULE", "@every 1h")
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DEFAULT_LANGUAGE", "en")
}

func fromViper(v *viper.Viper) (*Config, error) {
	timeout, err := time.ParseDuration(v.GetString("HTTP_TIMEOUT"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid HTTP_TIMEOUT %q", v.GetString("HTTP_TIMEOUT"))
	}

	ttl, err := time.ParseDuration(v.GetString("CACHE_TTL"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid CACHE_TTL %q", v.GetString("CACHE_TTL"))
	}

	sessionTTL, err := time.ParseDuration(v.GetString("SESSION_TTL"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid SESSION_TTL %q", v.GetString("SESSION_TTL"))
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
		},
		Log: LogConfig{
			Env:   v.GetString("LOG_ENV"),
			Level: v.GetString("LOG_LEVEL"),
		},
		API: APIConfig{
			PrimaryURL:  strings.TrimRight(v.GetString("API_PRIMARY_URL"), "/"),
			FallbackURL: strings.TrimRight(v.GetString("API_FALLBACK_URL"), "/"),
			Version:     v.GetString("API_VERSION"),
			Minified:    v.GetBool("API_MINIFIED"),
			Timeout:     timeout,
		},
		History: HistoryConfig{
			Concurrency: v.GetInt("HISTORY_CONCURRENCY"),
		},
		Cache: CacheConfig{
			TTL:           ttl,
			PruneSchedule: v.GetString("CACHE_PRUNE_SCHEDULE"),
		},
		Session: SessionConfig{
			TTL: sessionTTL,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DataDir:         v.GetString("DATA_DIR"),
		DefaultLanguage: v.GetString("DEFAULT_LANGUAGE"),
	}

	if cfg.History.Concurrency < 1 {
		return nil, errors.Errorf("HISTORY_CONCURRENCY must be at least 1, got %d", cfg.History.Concurrency)
	}
	if cfg.API.PrimaryURL == "" || cfg.API.FallbackURL == "" {
		return nil, errors.New("API_PRIMARY_URL and API_FALLBACK_URL must be set")
	}

	// Combine host and port
	cfg.Server.Addr = fmt.Sprintf(":%s", cfg.Server.Port)

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
