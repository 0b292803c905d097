package cooldown

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// memoryBackend keeps stamps in a bounded LRU whose entries expire after
// the longest configured cooldown.
type memoryBackend struct {
	mu     sync.Mutex
	cache  *expirable.LRU[string, time.Time]
	config Config
	now    func() time.Time
}

// NewMemoryService creates a cooldown service for a single process.
func NewMemoryService(config Config, capacity int) Service {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &memoryBackend{
		cache:  expirable.NewLRU[string, time.Time](capacity, nil, config.Longest()),
		config: config,
		now:    time.Now,
	}
}

func memoryKey(userID, guildID, action string) string {
	return strings.Join([]string{guildID, userID, action}, HashSeparator)
}

func (b *memoryBackend) CheckCooldown(ctx context.Context, userID, guildID, action string) (bool, time.Duration, error) {
	if b.config.DevMode {
		return false, 0, nil
	}
	last, ok := b.cache.Peek(memoryKey(userID, guildID, action))
	if !ok {
		return false, 0, nil
	}
	onCooldown, left := remaining(&last, b.config.GetCooldownDuration(action), b.now())
	return onCooldown, left, nil
}

func (b *memoryBackend) EnforceCooldown(ctx context.Context, userID, guildID, action string, fn func() error) error {
	key := memoryKey(userID, guildID, action)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if b.config.DevMode {
		logger.FromContext(ctx).Debug(LogMsgDevModeBypass, "action", action, "user_id", userID)
	} else if last, ok := b.cache.Peek(key); ok {
		if onCooldown, left := remaining(&last, b.config.GetCooldownDuration(action), now); onCooldown {
			return ErrOnCooldown{Action: action, Remaining: left}
		}
	}

	if err := fn(); err != nil {
		return err
	}
	b.cache.Add(key, now)
	return nil
}

func (b *memoryBackend) ResetCooldown(ctx context.Context, userID, guildID, action string) error {
	b.cache.Remove(memoryKey(userID, guildID, action))
	return nil
}

func (b *memoryBackend) GetLastUsed(ctx context.Context, userID, guildID, action string) (*time.Time, error) {
	last, ok := b.cache.Peek(memoryKey(userID, guildID, action))
	if !ok {
		return nil, nil
	}
	return &last, nil
}
