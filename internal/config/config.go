package config

import (
	"fmt"
	"os"
	"tennis-dashboard/internal/constants"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// shared-cache in-memory DSN: every pooled connection sees the same cache tables,
// and nothing survives a restart.
const DefaultDBPath = "file:tennis-dashboard?mode=memory&cache=shared"

type Config struct {
	ServerPort     string
	LogLevel       string
	TickInterval   time.Duration
	TennisBaseURL  string
	TennisAPIKey   string
	TennisAPIHost  string
	DBPath         string
	CacheTTL       time.Duration
	OTELEndpoint   string
	OTELInsecure   bool
	ServiceName    string
	ServiceVersion string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	tick, err := getDuration("TICK_INTERVAL", constants.TickInterval)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getDuration("CACHE_TTL", constants.CacheTTL)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		TickInterval:   tick,
		TennisBaseURL:  getEnv("TENNIS_API_BASE_URL", "http://localhost:8080/api"),
		TennisAPIKey:   getEnv("TENNIS_API_KEY", ""),
		TennisAPIHost:  getEnv("TENNIS_API_HOST", ""),
		DBPath:         getEnv("DB_PATH", DefaultDBPath),
		CacheTTL:       cacheTTL,
		OTELEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELInsecure:   getEnv("OTEL_EXPORTER_OTLP_INSECURE", "false") == "true",
		ServiceName:    getEnv("SERVICE_NAME", "tennis-dashboard"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
	}

	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("TICK_INTERVAL must be positive, got %s", cfg.TickInterval)
	}
	if cfg.TennisAPIKey == "" {
		logger.Debug().Msg("TENNIS_API_KEY not set, external tennis API calls will be unauthenticated")
	}

	logger.Info().
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("tick_interval", cfg.TickInterval).
		Str("tennis_base_url", cfg.TennisBaseURL).
		Dur("cache_ttl", cfg.CacheTTL).
		Bool("otel_enabled", cfg.OTELEndpoint != "").
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

var Module = fx.Provide(Load)
