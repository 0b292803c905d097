package cooldown

import (
	"time"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// Config holds cooldown service configuration
type Config struct {
	// DevMode bypasses all cooldowns when true
	DevMode bool

	// Cooldowns maps action names to their durations
	Cooldowns map[string]time.Duration
}

// GetCooldownDuration returns the cooldown duration for an action
func (c *Config) GetCooldownDuration(action string) time.Duration {
	if c.Cooldowns != nil {
		if duration, ok := c.Cooldowns[action]; ok {
			return duration
		}
	}
	return DefaultCooldownDuration
}

// Longest is the largest configured duration, used as the in-memory TTL.
func (c *Config) Longest() time.Duration {
	longest := DefaultCooldownDuration
	for _, d := range c.Cooldowns {
		longest = max(longest, d)
	}
	return longest
}

// ForActivity builds the cooldown table for the chat reward path.
func ForActivity(chatCooldown time.Duration, devMode bool) Config {
	return Config{
		DevMode:   devMode,
		Cooldowns: map[string]time.Duration{domain.ActionChatReward: chatCooldown},
	}
}
