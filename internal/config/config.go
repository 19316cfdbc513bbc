// Package config loads the environment-level settings consumed by the core.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults match the processing limits advertised to users: ten pages, one
// megabyte of text, one hour of artifact reuse.
const (
	DefaultListenAddr      = ":8080"
	DefaultPageCeiling     = 10
	DefaultTextByteCeiling = 1_000_000
	DefaultCacheTTL        = time.Hour
	DefaultGeminiModel     = "gemini-1.5-flash"
	DefaultGeminiTimeout   = 120 * time.Second
)

// Config holds all settings for the docsimplifier binary.
type Config struct {
	ListenAddr      string
	PageCeiling     int
	TextByteCeiling int
	CacheTTL        time.Duration
	GeminiModel     string
	GeminiTimeout   time.Duration

	// GeminiAPIKey is the optional server-level credential used when a
	// request carries none.
	GeminiAPIKey string
}

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

// Load reads and validates all environment variables for the service.
func Load() (*Config, error) {
	pageCeiling, err := getEnvInt("PAGE_CEILING", DefaultPageCeiling)
	if err != nil {
		return nil, err
	}
	if pageCeiling <= 0 {
		return nil, fmt.Errorf("PAGE_CEILING must be positive, got %d", pageCeiling)
	}

	textByteCeiling, err := getEnvInt("TEXT_BYTE_CEILING", DefaultTextByteCeiling)
	if err != nil {
		return nil, err
	}
	if textByteCeiling <= 0 {
		return nil, fmt.Errorf("TEXT_BYTE_CEILING must be positive, got %d", textByteCeiling)
	}

	ttlSeconds, err := getEnvInt("CACHE_TTL_SECONDS", int(DefaultCacheTTL/time.Second))
	if err != nil {
		return nil, err
	}
	if ttlSeconds <= 0 {
		return nil, fmt.Errorf("CACHE_TTL_SECONDS must be positive, got %d", ttlSeconds)
	}

	timeoutSeconds, err := getEnvInt("GEMINI_TIMEOUT_SECONDS", int(DefaultGeminiTimeout/time.Second))
	if err != nil {
		return nil, err
	}
	if timeoutSeconds <= 0 {
		return nil, fmt.Errorf("GEMINI_TIMEOUT_SECONDS must be positive, got %d", timeoutSeconds)
	}

	return &Config{
		ListenAddr:      GetEnv("LISTEN_ADDR", DefaultListenAddr),
		PageCeiling:     pageCeiling,
		TextByteCeiling: textByteCeiling,
		CacheTTL:        time.Duration(ttlSeconds) * time.Second,
		GeminiModel:     GetEnv("GEMINI_MODEL", DefaultGeminiModel),
		GeminiTimeout:   time.Duration(timeoutSeconds) * time.Second,
		GeminiAPIKey:    GetEnv("GEMINI_API_KEY", ""),
	}, nil
}
