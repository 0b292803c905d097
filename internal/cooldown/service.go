// Package cooldown rate-limits per-user actions with a last-used timestamp
// per (user, guild, action). Backends: in-process LRU, Redis and Postgres.
package cooldown

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// Service manages action cooldowns for users
type Service interface {
	// CheckCooldown checks if a user's action is on cooldown
	// Returns: (onCooldown bool, remaining time.Duration, error)
	CheckCooldown(ctx context.Context, userID, guildID, action string) (bool, time.Duration, error)

	// EnforceCooldown atomically checks the cooldown, runs fn and stamps the
	// action. A failing fn leaves the previous stamp in place.
	EnforceCooldown(ctx context.Context, userID, guildID, action string, fn func() error) error

	// ResetCooldown manually resets a cooldown (admin/testing)
	ResetCooldown(ctx context.Context, userID, guildID, action string) error

	// GetLastUsed returns when action was last performed, or nil
	GetLastUsed(ctx context.Context, userID, guildID, action string) (*time.Time, error)
}

// ErrOnCooldown is returned when action is still on cooldown
type ErrOnCooldown struct {
	Action    string
	Remaining time.Duration
}

func (e ErrOnCooldown) Error() string {
	minutes := int(e.Remaining.Minutes())
	seconds := int(e.Remaining.Seconds()) % SecondsPerMinute

	if minutes > 0 {
		return fmt.Sprintf(ErrFmtCooldownWithMinutes, e.Action, minutes, seconds)
	}
	return fmt.Sprintf(ErrFmtCooldownSecondsOnly, e.Action, seconds)
}

// Is matches any ErrOnCooldown and domain.ErrOnCooldown.
func (e ErrOnCooldown) Is(target error) bool {
	if target == domain.ErrOnCooldown {
		return true
	}
	_, ok := target.(ErrOnCooldown)
	return ok
}

// remaining reports whether lastUsed+duration is still ahead of now.
func remaining(lastUsed *time.Time, duration time.Duration, now time.Time) (bool, time.Duration) {
	if lastUsed == nil {
		return false, 0
	}
	elapsed := now.Sub(*lastUsed)
	if elapsed < duration {
		return true, duration - elapsed
	}
	return false, 0
}
