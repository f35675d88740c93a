package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	HTTPTimeout  time.Duration
	LogLevel     slog.Level
	LogFormat    string
	ProfilesFile string
	ForecastSeed int64
	SinkURL      string
	SinkSecret   string
}

// FromEnv lee el entorno; un .env en el cwd se carga primero si existe.
func FromEnv() Config {
	_ = godotenv.Load()

	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	seed := int64(42)
	if v := os.Getenv("FORECAST_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			seed = n
		}
	}
	return Config{
		Port:         envOr("PORT", "8080"),
		HTTPTimeout:  to,
		LogLevel:     ParseLevel(os.Getenv("LOG_LEVEL")),
		LogFormat:    strings.ToLower(envOr("LOG_FORMAT", "json")),
		ProfilesFile: os.Getenv("PROFILES_FILE"),
		ForecastSeed: seed,
		SinkURL:      os.Getenv("SINK_URL"),
		SinkSecret:   os.Getenv("SINK_SECRET"),
	}
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger: JSON unless LOG_FORMAT=text.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
