package cooldown

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// postgresBackend implements Service using PostgreSQL
type postgresBackend struct {
	db     *pgxpool.Pool
	config Config
	now    func() time.Time
}

// NewPostgresService creates a new cooldown service with Postgres backend
func NewPostgresService(db *pgxpool.Pool, config Config) Service {
	return &postgresBackend{
		db:     db,
		config: config,
		now:    time.Now,
	}
}

// CheckCooldown checks if a user's action is on cooldown (unlocked read)
func (b *postgresBackend) CheckCooldown(ctx context.Context, userID, guildID, action string) (bool, time.Duration, error) {
	if b.config.DevMode {
		return false, 0, nil
	}

	lastUsed, err := b.getLastUsed(ctx, b.db, userID, guildID, action)
	if err != nil {
		return false, 0, fmt.Errorf(ErrMsgCheckCooldownFailed, err)
	}
	onCooldown, left := remaining(lastUsed, b.config.GetCooldownDuration(action), b.now())
	return onCooldown, left, nil
}

// EnforceCooldown uses check-then-lock: a cheap unlocked read rejects most
// repeats, then an advisory lock serializes the recheck and the stamp.
func (b *postgresBackend) EnforceCooldown(ctx context.Context, userID, guildID, action string, fn func() error) error {
	log := logger.FromContext(ctx)

	onCooldown, left, err := b.CheckCooldown(ctx, userID, guildID, action)
	if err != nil {
		return err
	}
	if onCooldown {
		return ErrOnCooldown{Action: action, Remaining: left}
	}

	if b.config.DevMode {
		log.Debug(LogMsgDevModeBypass, "action", action, "user_id", userID)
		if err := fn(); err != nil {
			return err
		}
		// Still update cooldown for testing purposes
		_, err := b.db.Exec(ctx, SQLUpsertCooldown, userID, guildID, action, b.now())
		return err
	}

	tx, err := b.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Advisory locks work even when no row exists (unlike SELECT FOR UPDATE)
	if _, err := tx.Exec(ctx, SQLAdvisoryLock, hashUserAction(userID, guildID, action)); err != nil {
		return fmt.Errorf(ErrMsgAcquireLockFailed, err)
	}

	lastUsed, err := b.getLastUsed(ctx, tx, userID, guildID, action)
	if err != nil {
		return fmt.Errorf(ErrMsgGetCooldownTxFailed, err)
	}
	now := b.now()
	if onCooldown, left := remaining(lastUsed, b.config.GetCooldownDuration(action), now); onCooldown {
		log.Debug(LogMsgRaceConditionDetected, "action", action, "user_id", userID, "remaining", left)
		return ErrOnCooldown{Action: action, Remaining: left}
	}

	if err := fn(); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, SQLUpsertCooldown, userID, guildID, action, now); err != nil {
		return fmt.Errorf(ErrMsgUpdateCooldownFailed, err)
	}
	// Commit releases the advisory lock
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Debug(LogMsgCooldownEnforced, "action", action, "user_id", userID)
	return nil
}

// ResetCooldown manually resets a cooldown
func (b *postgresBackend) ResetCooldown(ctx context.Context, userID, guildID, action string) error {
	if _, err := b.db.Exec(ctx, SQLDeleteCooldown, userID, guildID, action); err != nil {
		return fmt.Errorf(ErrMsgResetCooldownFailed, err)
	}
	return nil
}

// GetLastUsed returns when action was last performed
func (b *postgresBackend) GetLastUsed(ctx context.Context, userID, guildID, action string) (*time.Time, error) {
	return b.getLastUsed(ctx, b.db, userID, guildID, action)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (b *postgresBackend) getLastUsed(ctx context.Context, q rowQuerier, userID, guildID, action string) (*time.Time, error) {
	var lastUsed time.Time
	err := q.QueryRow(ctx, SQLSelectLastUsed, userID, guildID, action).Scan(&lastUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf(ErrMsgGetLastUsedFailed, err)
	}
	return &lastUsed, nil
}

// hashUserAction creates a consistent positive int64 from the key parts for advisory locking
func hashUserAction(userID, guildID, action string) int64 {
	h := sha256.Sum256([]byte(guildID + HashSeparator + userID + HashSeparator + action))
	return int64(binary.BigEndian.Uint64(h[:8]) & HashMaskPositiveInt64)
}
