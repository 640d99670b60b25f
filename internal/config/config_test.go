package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"SERVER_PORT", "TICK_INTERVAL", "CACHE_TTL", "DB_PATH", "TENNIS_API_BASE_URL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 2*time.Second, cfg.TickInterval)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, "http://localhost:8080/api", cfg.TennisBaseURL)
	assert.Empty(t, cfg.OTELEndpoint)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("TENNIS_API_KEY", "secret")
	t.Setenv("TENNIS_API_HOST", "tennis.example.com")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, "secret", cfg.TennisAPIKey)
	assert.Equal(t, "tennis.example.com", cfg.TennisAPIHost)
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unparseable tick", "TICK_INTERVAL", "soon"},
		{"negative tick", "TICK_INTERVAL", "-1s"},
		{"unparseable ttl", "CACHE_TTL", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load(zerolog.Nop())
			assert.Error(t, err)
		})
	}
}
