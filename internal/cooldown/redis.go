package cooldown

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// redisBackend shares cooldowns between processes. The stamp is written
// with SET NX PX so the key itself is the lock and expires with the window.
type redisBackend struct {
	client redis.UniversalClient
	config Config
	now    func() time.Time
}

// NewRedisService creates a cooldown service backed by Redis.
func NewRedisService(client redis.UniversalClient, config Config) Service {
	return &redisBackend{client: client, config: config, now: time.Now}
}

func redisKey(userID, guildID, action string) string {
	return strings.Join([]string{RedisKeyPrefix, guildID, userID, action}, HashSeparator)
}

func (b *redisBackend) CheckCooldown(ctx context.Context, userID, guildID, action string) (bool, time.Duration, error) {
	if b.config.DevMode {
		return false, 0, nil
	}
	ttl, err := b.client.PTTL(ctx, redisKey(userID, guildID, action)).Result()
	if err != nil {
		return false, 0, fmt.Errorf(ErrMsgCheckCooldownFailed, err)
	}
	// -2 missing, -1 no expiry; neither is a live window
	if ttl <= 0 {
		return false, 0, nil
	}
	return true, ttl, nil
}

func (b *redisBackend) EnforceCooldown(ctx context.Context, userID, guildID, action string, fn func() error) error {
	log := logger.FromContext(ctx)
	key := redisKey(userID, guildID, action)
	duration := b.config.GetCooldownDuration(action)
	now := b.now()

	if b.config.DevMode {
		log.Debug(LogMsgDevModeBypass, "action", action, "user_id", userID)
		if err := fn(); err != nil {
			return err
		}
		return b.client.Set(ctx, key, now.UnixMilli(), duration).Err()
	}

	acquired, err := b.client.SetNX(ctx, key, now.UnixMilli(), duration).Result()
	if err != nil {
		return fmt.Errorf(ErrMsgUpdateCooldownFailed, err)
	}
	if !acquired {
		onCooldown, left, err := b.CheckCooldown(ctx, userID, guildID, action)
		if err != nil {
			return err
		}
		if !onCooldown {
			left = duration
		}
		log.Debug(LogMsgRaceConditionDetected, "action", action, "user_id", userID, "remaining", left)
		return ErrOnCooldown{Action: action, Remaining: left}
	}

	if err := fn(); err != nil {
		if delErr := b.client.Del(ctx, key).Err(); delErr != nil {
			log.Warn(LogMsgReleaseFailed, "action", action, "user_id", userID, "error", delErr)
		}
		return err
	}

	log.Debug(LogMsgCooldownEnforced, "action", action, "user_id", userID)
	return nil
}

func (b *redisBackend) ResetCooldown(ctx context.Context, userID, guildID, action string) error {
	if err := b.client.Del(ctx, redisKey(userID, guildID, action)).Err(); err != nil {
		return fmt.Errorf(ErrMsgResetCooldownFailed, err)
	}
	return nil
}

func (b *redisBackend) GetLastUsed(ctx context.Context, userID, guildID, action string) (*time.Time, error) {
	raw, err := b.client.Get(ctx, redisKey(userID, guildID, action)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetLastUsedFailed, err)
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgParseLastUsedFailed, raw, err)
	}
	t := time.UnixMilli(ms)
	return &t, nil
}
