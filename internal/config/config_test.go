package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"APP_ENV":              "",
		"PORT":                 "",
		"REDIS_URL":            "",
		"BODY_LIMIT_BYTES":     "",
		"RATE_LIMIT_MAX":       "",
		"RATE_LIMIT_WINDOW":    "",
		"MATCH_CACHE_TTL":      "",
		"METRICS_ENABLED":      "",
		"TRACING_ENABLED":      "",
		"CORS_ALLOWED_ORIGINS": "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.False(t, cfg.RedisEnabled())
	require.Equal(t, int64(2<<20), cfg.BodyLimitBytes)
	require.Equal(t, 120, cfg.RateLimitMax)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.Equal(t, 10*time.Minute, cfg.MatchCacheTTL)
	require.True(t, cfg.MetricsEnabled)
	require.False(t, cfg.TracingEnabled)
	require.Nil(t, cfg.CORSAllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"APP_ENV":              "production",
		"PORT":                 ":9090",
		"REDIS_URL":            "redis://localhost:6379/0",
		"CORS_ALLOWED_ORIGINS": "https://a.example, ,https://b.example",
		"RATE_LIMIT_WINDOW":    "30s",
		"RATE_LIMIT_MAX":       "5",
		"METRICS_ENABLED":      "off",
		"MATCH_CACHE_TTL":      "not-a-duration",
	})
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.True(t, cfg.RedisEnabled())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	require.Equal(t, 5, cfg.RateLimitMax)
	require.False(t, cfg.MetricsEnabled)
	require.Equal(t, 10*time.Minute, cfg.MatchCacheTTL)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := LoadForTests(map[string]string{"BODY_LIMIT_BYTES": "-1"})
	require.ErrorContains(t, err, "BODY_LIMIT_BYTES")

	_, err = LoadForTests(map[string]string{"TRACING_SAMPLING_RATIO": "1.5"})
	require.ErrorContains(t, err, "TRACING_SAMPLING_RATIO")
}
