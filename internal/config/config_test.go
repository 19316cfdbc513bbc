package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	require.Equal(t, DefaultPageCeiling, cfg.PageCeiling)
	require.Equal(t, DefaultTextByteCeiling, cfg.TextByteCeiling)
	require.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	require.Equal(t, DefaultGeminiModel, cfg.GeminiModel)
	require.Equal(t, DefaultGeminiTimeout, cfg.GeminiTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PAGE_CEILING", "5")
	t.Setenv("TEXT_BYTE_CEILING", "2048")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5, cfg.PageCeiling)
	require.Equal(t, 2048, cfg.TextByteCeiling)
	require.Equal(t, time.Minute, cfg.CacheTTL)
	require.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
	require.Equal(t, "env-key", cfg.GeminiAPIKey)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("PAGE_CEILING", "zero")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("PAGE_CEILING", "0")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("PAGE_CEILING", "10")
	t.Setenv("CACHE_TTL_SECONDS", "-1")
	_, err = Load()
	require.Error(t, err)
}
