// Package config provides environment-based application configuration.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// HTTPConfig exposes the settings the HTTP router needs.
type HTTPConfig interface {
	GetEnv() string
	GetHTTPAddr() string
	GetCORSOrigins() []string
	GetCORSAllowAll() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
	GetAppBaseURL() string
}

// AIConfig exposes the text-understanding service settings.
type AIConfig interface {
	IsAIEnabled() bool
	GetAIAPIKey() string
	GetAIBaseURL() string
	GetAIModel() string
	GetAITimeout() time.Duration
}

// CatalogConfig exposes the catalog file settings.
type CatalogConfig interface {
	GetCatalogPath() string
	GetCatalogTTL() time.Duration
	IsCatalogWatchEnabled() bool
}

// SessionConfig exposes the conversation session store settings.
type SessionConfig interface {
	GetSessionMaxEntries() int
	GetSessionTTL() time.Duration
}

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	CORSOrigins  []string
	CORSAllowAll bool

	RateLimitRPS   float64
	RateLimitBurst int

	AppBaseURL string

	CatalogPath  string
	CatalogTTL   time.Duration
	CatalogWatch bool

	AIAPIKey  string
	AIBaseURL string
	AIModel   string
	AITimeout time.Duration

	SessionMaxEntries int
	SessionTTL        time.Duration
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200")),
		CORSAllowAll:      strings.EqualFold(getEnv("CORS_ALLOW_ALL", "true"), "true"),
		RateLimitRPS:      getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:    getInt("RATE_LIMIT_BURST", 10),
		AppBaseURL:        getEnv("APP_BASE_URL", ""),
		CatalogPath:       getEnv("CATALOG_FILE", "orcamento.xlsx"),
		CatalogTTL:        mustDuration(getEnv("CATALOG_TTL", "5m")),
		CatalogWatch:      strings.EqualFold(getEnv("CATALOG_WATCH", "true"), "true"),
		AIAPIKey:          getEnv("GLM_API_KEY", ""),
		AIBaseURL:         getEnv("GLM_BASE_URL", "https://open.bigmodel.cn/api/paas/v4"),
		AIModel:           getEnv("GLM_MODEL", "glm-4"),
		AITimeout:         mustDuration(getEnv("GLM_TIMEOUT", "20s")),
		SessionMaxEntries: getInt("SESSION_MAX_ENTRIES", 10000),
		SessionTTL:        mustDuration(getEnv("SESSION_TTL", "2h")),
	}

	if containsWildcard(cfg.CORSOrigins) {
		cfg.CORSAllowAll = true
	}
	if cfg.CatalogPath == "" {
		return nil, fmt.Errorf("CATALOG_FILE is required")
	}
	if cfg.SessionMaxEntries < 1 {
		return nil, fmt.Errorf("SESSION_MAX_ENTRIES must be positive")
	}
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = 20 * time.Second
	}

	return cfg, nil
}

// Interface implementations.

func (c *Config) GetEnv() string            { return c.Env }
func (c *Config) GetHTTPAddr() string       { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string  { return c.CORSOrigins }
func (c *Config) GetCORSAllowAll() bool     { return c.CORSAllowAll }
func (c *Config) GetRateLimitRPS() float64  { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int    { return c.RateLimitBurst }
func (c *Config) GetAppBaseURL() string     { return c.AppBaseURL }
func (c *Config) IsAIEnabled() bool         { return c.AIAPIKey != "" }
func (c *Config) GetAIAPIKey() string       { return c.AIAPIKey }
func (c *Config) GetAIBaseURL() string      { return c.AIBaseURL }
func (c *Config) GetAIModel() string        { return c.AIModel }
func (c *Config) GetAITimeout() time.Duration { return c.AITimeout }
func (c *Config) GetCatalogPath() string    { return c.CatalogPath }
func (c *Config) GetCatalogTTL() time.Duration { return c.CatalogTTL }
func (c *Config) IsCatalogWatchEnabled() bool  { return c.CatalogWatch }
func (c *Config) GetSessionMaxEntries() int { return c.SessionMaxEntries }
func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }

// Compile-time interface checks.
var (
	_ HTTPConfig    = (*Config)(nil)
	_ AIConfig      = (*Config)(nil)
	_ CatalogConfig = (*Config)(nil)
	_ SessionConfig = (*Config)(nil)
)

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		var n int
		if _, err := fmt.Sscanf(val, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		var f float64
		if _, err := fmt.Sscanf(val, "%g", &f); err == nil {
			return f
		}
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
