package cooldown

import "time"

const (
	// DefaultCooldownDuration applies to actions without a configured duration.
	DefaultCooldownDuration = time.Minute

	// DefaultMemoryCapacity bounds the in-memory store.
	DefaultMemoryCapacity = 100_000
)

const (
	// HashSeparator joins the key parts hashed into an advisory lock id.
	HashSeparator = ":"

	// HashMaskPositiveInt64 clears the sign bit of advisory lock ids.
	HashMaskPositiveInt64 = 0x7FFFFFFFFFFFFFFF

	// RedisKeyPrefix namespaces cooldown keys in a shared Redis.
	RedisKeyPrefix = "cooldown"
)

const (
	SQLAdvisoryLock = "SELECT pg_advisory_xact_lock($1)"

	SQLSelectLastUsed = `
		SELECT last_used_at
		FROM user_cooldowns
		WHERE user_id = $1 AND guild_id = $2 AND action_name = $3
	`

	SQLDeleteCooldown = `DELETE FROM user_cooldowns WHERE user_id = $1 AND guild_id = $2 AND action_name = $3`

	SQLUpsertCooldown = `
		INSERT INTO user_cooldowns (user_id, guild_id, action_name, last_used_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id, action_name) DO UPDATE
		SET last_used_at = EXCLUDED.last_used_at
	`
)

// Error messages
const (
	ErrMsgCheckCooldownFailed     = "failed to check cooldown: %w"
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgAcquireLockFailed       = "failed to acquire advisory lock: %w"
	ErrMsgGetCooldownTxFailed     = "failed to get cooldown within transaction: %w"
	ErrMsgUpdateCooldownFailed    = "failed to update cooldown: %w"
	ErrMsgCommitTransactionFailed = "failed to commit cooldown transaction: %w"
	ErrMsgResetCooldownFailed     = "failed to reset cooldown: %w"
	ErrMsgGetLastUsedFailed       = "failed to get last used: %w"
	ErrMsgParseLastUsedFailed     = "failed to parse last used %q: %w"
)

// Log messages
const (
	LogMsgDevModeBypass         = "DEV_MODE: Bypassing cooldown enforcement"
	LogMsgRaceConditionDetected = "Race condition detected - concurrent request on cooldown"
	LogMsgCooldownEnforced      = "Cooldown enforced successfully"
	LogMsgReleaseFailed         = "Failed to release cooldown after action error"
)

// ErrOnCooldown.Error() formats
const (
	ErrFmtCooldownWithMinutes = "You can %s again in %dm %ds"
	ErrFmtCooldownSecondsOnly = "You can %s again in %ds"
)

const (
	SecondsPerMinute = 60
)
