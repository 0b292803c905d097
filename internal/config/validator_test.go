package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                 8080,
		APIKey:               "secret",
		DBPassword:           "strong",
		DiscordToken:         "token",
		WorkerCount:          2,
		InterestInterval:     time.Hour,
		RestockSweepInterval: time.Minute,
		StreakSweepInterval:  time.Hour,
		CharmSweepInterval:   time.Minute,
		VoiceTickInterval:    time.Second,
		LeaderboardInterval:  time.Minute,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port out of range", func(c *Config) { c.Port = 70000 }, "PORT must be between"},
		{"no workers", func(c *Config) { c.WorkerCount = 0 }, "WORKER_COUNT"},
		{"zero interval", func(c *Config) { c.VoiceTickInterval = 0 }, "VOICE_TICK_INTERVAL"},
		{"missing api key", func(c *Config) { c.APIKey = "" }, ErrMsgAPIKeyMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWarnings(t *testing.T) {
	cfg := validConfig()
	assert.Empty(t, cfg.Warnings())

	cfg.DBPassword = defaultDBPassword
	cfg.APIKey = exampleAPIKey
	cfg.DiscordToken = ""
	assert.ElementsMatch(t, []string{WarnMsgDefaultDBPassword, WarnMsgExampleAPIKey, WarnMsgDiscordDisabled}, cfg.Warnings())
}
