package repository

import (
	"context"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// LedgerTx is the set of row operations available while an account row is locked.
type LedgerTx interface {
	Tx
	// GetAccountForUpdate creates the account row with defaults when missing
	// and locks it until the transaction ends.
	GetAccountForUpdate(ctx context.Context, userID, guildID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, acct *domain.Account) error
	DeleteAccount(ctx context.Context, userID, guildID string) error

	GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventoryEntry, error)
	GetInventoryQuantity(ctx context.Context, userID, guildID, itemID string) (int64, error)
	// SetInventoryQuantity writes the entry; a zero quantity deletes the row.
	SetInventoryQuantity(ctx context.Context, entry domain.InventoryEntry) error

	InsertCharm(ctx context.Context, charm *domain.ActiveCharm) error
	GetActiveCharms(ctx context.Context, userID, guildID string, now time.Time) ([]domain.ActiveCharm, error)

	GetDailyRewards(ctx context.Context, userID, guildID string) ([]domain.DailyReward, error)
	ReplaceDailyRewards(ctx context.Context, userID, guildID string, rewards []domain.DailyReward) error
}

// Ledger is the account store: reads outside a transaction plus the
// listings scheduled jobs iterate over.
type Ledger interface {
	GetAccount(ctx context.Context, userID, guildID string) (*domain.Account, error)
	GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventoryEntry, error)
	GetActiveCharms(ctx context.Context, userID, guildID string, now time.Time) ([]domain.ActiveCharm, error)
	GetDailyRewards(ctx context.Context, userID, guildID string) ([]domain.DailyReward, error)
	GetLeaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error)

	// ListInterestDue returns accounts whose last interest credit is before cutoff.
	ListInterestDue(ctx context.Context, cutoff time.Time) ([]domain.AccountKey, error)
	// ListLapsedStreaks returns accounts with a positive streak whose last claim is before cutoff.
	ListLapsedStreaks(ctx context.Context, cutoff time.Time) ([]domain.AccountKey, error)
	DeleteExpiredCharms(ctx context.Context, now time.Time) (int64, error)

	BeginTx(ctx context.Context) (LedgerTx, error)
}
