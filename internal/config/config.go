// Package config provides centralized configuration management for csv2sql.
// Settings come from environment variables with defaults, and are validated
// on startup so that a misconfigured server or CLI fails before doing work.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Generate GenerateConfig
	Session  SessionConfig
	Verify   VerifyConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// GenerateConfig holds parsing and SQL generation settings.
type GenerateConfig struct {
	// MaxInputBytes caps the size of pasted or uploaded CSV text (default: 5MB)
	MaxInputBytes int64 `env:"GENERATE_MAX_INPUT_BYTES" default:"5242880"`

	// PreviewRows is how many parsed rows the preview grid shows (default: 50)
	PreviewRows int `env:"GENERATE_PREVIEW_ROWS" default:"50"`

	// Debounce is the quiescence window before reparsing changed input (default: 250ms)
	Debounce time.Duration `env:"GENERATE_DEBOUNCE" default:"250ms"`

	// ASCIINames folds accented letters out of suggested column names (default: false)
	ASCIINames bool `env:"GENERATE_ASCII_NAMES" default:"false"`
}

// SessionConfig holds web editing session settings.
type SessionConfig struct {
	// TTL is how long an idle session is kept (default: 1h)
	TTL time.Duration `env:"SESSION_TTL" default:"1h"`

	// SweepInterval is how often expired sessions are removed (default: 5m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"5m"`

	// CookieName is the name of the session cookie (default: csv2sql_session)
	CookieName string `env:"SESSION_COOKIE_NAME" default:"csv2sql_session"`

	// Secret signs the session cookie; a random key is generated when empty
	Secret string `env:"SESSION_SECRET"`
}

// VerifyConfig holds settings for checking generated SQL against a real engine.
type VerifyConfig struct {
	// Backend is one of: sqlite, postgres, none (default: sqlite)
	Backend string `env:"VERIFY_BACKEND" default:"sqlite"`

	// PostgresURL is the connection string used when Backend is postgres
	// Supports both VERIFY_POSTGRES_URL and DATABASE_URL
	PostgresURL string `env:"VERIFY_POSTGRES_URL" envAlt:"DATABASE_URL"`

	// MaxConcurrent is the maximum number of parallel verifications (default: 4)
	MaxConcurrent int `env:"VERIFY_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for a verification slot (default: 2s)
	MaxWaitTime time.Duration `env:"VERIFY_MAX_WAIT_TIME" default:"2s"`

	// Timeout bounds a single verification (default: 5s)
	Timeout time.Duration `env:"VERIFY_TIMEOUT" default:"5s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// VerifyLimit is requests per minute for the verify endpoint (default: 20)
	VerifyLimit int `env:"RATE_LIMIT_VERIFY" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects /api routes with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	// Enabled mounts the metrics handler (default: true)
	Enabled bool `env:"METRICS_ENABLED" default:"true"`

	// Path is where metrics are served (default: /metrics)
	Path string `env:"METRICS_PATH" default:"/metrics"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
