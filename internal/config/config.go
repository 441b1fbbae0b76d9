package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// BaseURL of the remote analysis service
	BaseURL string
	// UploadTimeout bounds the file analysis operations; server-side image
	// processing is slow, so this is much longer than RequestTimeout
	UploadTimeout time.Duration
	// RequestTimeout bounds the lightweight JSON operations
	RequestTimeout time.Duration
	// MaxUploadSize is the upload size cap enforced before any network call
	MaxUploadSize int64
	// TokenFile optionally points at a file holding a bearer credential
	TokenFile string
	// Host and Port are only used by the local serve mode
	Host string
	Port string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		BaseURL:        getEnvOrDefault("API_BASE_URL", "http://127.0.0.1:8000"),
		UploadTimeout:  parseDurationOrDefault("UPLOAD_TIMEOUT", 60*time.Second),
		RequestTimeout: parseDurationOrDefault("REQUEST_TIMEOUT", 15*time.Second),
		MaxUploadSize:  parseIntOrDefault("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
		TokenFile:      getEnvOrDefault("TOKEN_FILE", ""),
		Host:           getEnvOrDefault("HOST", "127.0.0.1"),
		Port:           getEnvOrDefault("PORT", "8081"),
	}

	// Validate the base URL points somewhere usable
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API_BASE_URL: %q", cfg.BaseURL)
	}
	cfg.BaseURL = strings.TrimRight(base.String(), "/")

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE must be > 0 (got %d)", cfg.MaxUploadSize)
	}
	if cfg.UploadTimeout <= 0 || cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got upload=%s, request=%s)",
			cfg.UploadTimeout, cfg.RequestTimeout)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
