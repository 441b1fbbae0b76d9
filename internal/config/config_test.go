package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_BASE_URL", "UPLOAD_TIMEOUT", "REQUEST_TIMEOUT",
		"MAX_UPLOAD_SIZE", "TOKEN_FILE", "HOST", "PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Expected defaults to load, got %v", err)
	}

	if cfg.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("Expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.UploadTimeout != 60*time.Second {
		t.Errorf("Expected 60s upload timeout, got %s", cfg.UploadTimeout)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("Expected 15s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.MaxUploadSize != 10*1024*1024 {
		t.Errorf("Expected 10MB upload cap, got %d", cfg.MaxUploadSize)
	}
	if cfg.ServerAddress() != "127.0.0.1:8081" {
		t.Errorf("Expected default serve address, got %q", cfg.ServerAddress())
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("UPLOAD_TIMEOUT", "2m")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("MAX_UPLOAD_SIZE", "1048576")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9090")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Expected overrides to load, got %v", err)
	}

	if cfg.BaseURL != "https://api.example.com" {
		t.Errorf("Expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.UploadTimeout != 2*time.Minute {
		t.Errorf("Expected 2m upload timeout, got %s", cfg.UploadTimeout)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("Expected 5s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.MaxUploadSize != 1048576 {
		t.Errorf("Expected 1MB cap, got %d", cfg.MaxUploadSize)
	}
	if cfg.ServerAddress() != "0.0.0.0:9090" {
		t.Errorf("Expected overridden serve address, got %q", cfg.ServerAddress())
	}
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"missing scheme", "API_BASE_URL", "127.0.0.1:8000"},
		{"garbage URL", "API_BASE_URL", "://not-a-url"},
		{"non-numeric port", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"negative size", "MAX_UPLOAD_SIZE", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := LoadFromEnv(); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoadFromEnv_MalformedOptionalFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPLOAD_TIMEOUT", "soon")
	t.Setenv("MAX_UPLOAD_SIZE", "lots")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Expected malformed optional values to fall back, got %v", err)
	}
	if cfg.UploadTimeout != 60*time.Second {
		t.Errorf("Expected default upload timeout, got %s", cfg.UploadTimeout)
	}
	if cfg.MaxUploadSize != 10*1024*1024 {
		t.Errorf("Expected default upload cap, got %d", cfg.MaxUploadSize)
	}
}
