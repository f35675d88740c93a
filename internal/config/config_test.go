package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "HTTP_TIMEOUT_SECONDS", "LOG_LEVEL", "LOG_FORMAT", "PROFILES_FILE", "FORECAST_SEED", "SINK_URL", "SINK_SECRET"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, int64(42), cfg.ForecastSeed)
	assert.Empty(t, cfg.SinkURL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("FORECAST_SEED", "7")
	t.Setenv("SINK_URL", "http://sink.local/in")
	t.Setenv("SINK_SECRET", "s3cr3t")

	cfg := FromEnv()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, int64(7), cfg.ForecastSeed)
	assert.Equal(t, "s3cr3t", cfg.SinkSecret)
	assert.NotNil(t, cfg.NewLogger())
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "abc")
	t.Setenv("FORECAST_SEED", "x")
	cfg := FromEnv()
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, int64(42), cfg.ForecastSeed)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
