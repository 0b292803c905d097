package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedEnvVars = []string{
	"PORT", "API_KEY", "LOG_LEVEL", "LOG_FORMAT", "ENVIRONMENT",
	"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME",
	"DB_MAX_CONNS", "GAME_CONFIG_PATH", "DISCORD_TOKEN", "REDIS_ADDR",
	"WORKER_COUNT", "INTEREST_INTERVAL", "VOICE_TICK_INTERVAL",
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range managedEnvVars {
		if prev, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, prev) })
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads config with defaults when no env vars set", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "dev", cfg.Environment)
		assert.Equal(t, "postgres", cfg.DBUser)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, 4, cfg.WorkerCount)
		assert.Equal(t, time.Hour, cfg.InterestInterval)
		assert.Empty(t, cfg.RedisAddr)
		assert.False(t, cfg.DiscordEnabled())
	})

	t.Run("loads config from environment variables", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("PORT", "3000")
		t.Setenv("API_KEY", "custom-api-key")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("DB_HOST", "db.example.com")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("VOICE_TICK_INTERVAL", "10s")
		t.Setenv("DISCORD_TOKEN", "token")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "db.example.com", cfg.DBHost)
		assert.Equal(t, "5433", cfg.DBPort)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, 10*time.Second, cfg.VoiceTickInterval)
		assert.True(t, cfg.DiscordEnabled())
	})

	t.Run("fails without API key", func(t *testing.T) {
		clearEnvVars(t)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgAPIKeyMissing)
	})

	t.Run("fails on non-numeric port", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "k")
		t.Setenv("PORT", "not-a-port")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgParseEnvFailed)
	})
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "n"}
	assert.Equal(t, "postgres://u:p@h:1/n?sslmode=disable", cfg.GetDBConnString())
}
