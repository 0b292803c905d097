package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate rejects configurations the process cannot run with.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New(ErrMsgAPIKeyMissing)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf(ErrMsgInvalidPort, c.Port)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf(ErrMsgInvalidWorkers, c.WorkerCount)
	}

	intervals := []struct {
		name string
		d    time.Duration
	}{
		{"INTEREST_INTERVAL", c.InterestInterval},
		{"RESTOCK_SWEEP_INTERVAL", c.RestockSweepInterval},
		{"STREAK_SWEEP_INTERVAL", c.StreakSweepInterval},
		{"CHARM_SWEEP_INTERVAL", c.CharmSweepInterval},
		{"VOICE_TICK_INTERVAL", c.VoiceTickInterval},
		{"LEADERBOARD_INTERVAL", c.LeaderboardInterval},
	}
	for _, iv := range intervals {
		if iv.d <= 0 {
			return fmt.Errorf(ErrMsgInvalidInterval, iv.name)
		}
	}
	return nil
}

// Warnings lists non-fatal issues worth logging at start-up.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.DBPassword == defaultDBPassword {
		warnings = append(warnings, WarnMsgDefaultDBPassword)
	}
	if c.APIKey == exampleAPIKey {
		warnings = append(warnings, WarnMsgExampleAPIKey)
	}
	if !c.DiscordEnabled() {
		warnings = append(warnings, WarnMsgDiscordDisabled)
	}
	return warnings
}
