// Package postgres implements the repository interfaces on PostgreSQL with
// pgx. Every mutating transaction locks the account row with
// SELECT ... FOR UPDATE, creating it first when missing.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/repository"
)

// querier is the statement surface shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store implements repository.Ledger, repository.Shop and repository.Guild.
type Store struct {
	db             *pgxpool.Pool
	alertThreshold int64
	now            func() time.Time
}

var (
	_ repository.Ledger = (*Store)(nil)
	_ repository.Shop   = (*Store)(nil)
	_ repository.Guild  = (*Store)(nil)
	_ repository.ShopTx = (*Tx)(nil)
)

// NewStore creates a store. New accounts receive alertThreshold as their
// alert rarity threshold.
func NewStore(db *pgxpool.Pool, alertThreshold int64) *Store {
	return &Store{db: db, alertThreshold: alertThreshold, now: time.Now}
}

func (s *Store) GetAccount(ctx context.Context, userID, guildID string) (*domain.Account, error) {
	acct, err := scanAccount(s.db.QueryRow(ctx, SQLSelectAccount, guildID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetAccount, err)
	}
	return acct, nil
}

func (s *Store) GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventoryEntry, error) {
	return getInventory(ctx, s.db, userID, guildID)
}

func (s *Store) GetActiveCharms(ctx context.Context, userID, guildID string, now time.Time) ([]domain.ActiveCharm, error) {
	return getActiveCharms(ctx, s.db, userID, guildID, now)
}

func (s *Store) GetDailyRewards(ctx context.Context, userID, guildID string) ([]domain.DailyReward, error) {
	return getDailyRewards(ctx, s.db, userID, guildID)
}

func (s *Store) GetLeaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := s.db.Query(ctx, SQLLeaderboard, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLeaderboard, err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LeaderboardEntry, error) {
		var e domain.LeaderboardEntry
		err := row.Scan(&e.UserID, &e.Level, &e.XP)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLeaderboard, err)
	}
	return entries, nil
}

func (s *Store) ListInterestDue(ctx context.Context, cutoff time.Time) ([]domain.AccountKey, error) {
	return s.listKeys(ctx, SQLListInterestDue, cutoff)
}

func (s *Store) ListLapsedStreaks(ctx context.Context, cutoff time.Time) ([]domain.AccountKey, error) {
	return s.listKeys(ctx, SQLListLapsedStreaks, cutoff)
}

func (s *Store) listKeys(ctx context.Context, sql string, cutoff time.Time) ([]domain.AccountKey, error) {
	rows, err := s.db.Query(ctx, sql, cutoff)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListAccounts, err)
	}
	keys, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AccountKey, error) {
		var k domain.AccountKey
		err := row.Scan(&k.GuildID, &k.UserID)
		return k, err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListAccounts, err)
	}
	return keys, nil
}

func (s *Store) DeleteExpiredCharms(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, SQLDeleteExpiredCharms, now)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgDeleteCharms, err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) GetShopSlots(ctx context.Context, guildID string) ([]domain.ShopSlot, error) {
	return getShopSlots(ctx, s.db, SQLSelectShopSlots, guildID)
}

func (s *Store) GetShopSettings(ctx context.Context, guildID string) (*domain.ShopSettings, error) {
	settings, err := scanShopSettings(s.db.QueryRow(ctx, SQLSelectShopSettings, guildID))
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.ShopSettings{GuildID: guildID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetShopSettings, err)
	}
	return settings, nil
}

func (s *Store) GetGuildSettings(ctx context.Context, guildID string) (*domain.GuildSettings, error) {
	g, err := scanGuildSettings(s.db.QueryRow(ctx, SQLSelectGuildSettings, guildID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGuildSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetGuildSettings, err)
	}
	return g, nil
}

func (s *Store) UpsertGuildSettings(ctx context.Context, g *domain.GuildSettings) error {
	_, err := s.db.Exec(ctx, SQLUpsertGuildSettings,
		g.GuildID, g.WeekendBoostActive, g.CoinEmoji, g.GemEmoji, g.RobuxEmoji,
		g.NotificationChannelID, g.LevelUpChannelID, g.LeaderboardMessageID, g.LeaderboardUpdatedAt,
		g.RestockIntervalMinutes, g.ShopRestockDMEnabled)
	if err != nil {
		return fmt.Errorf(ErrMsgSaveGuildSettings, err)
	}
	return nil
}

func (s *Store) ListGuildSettings(ctx context.Context) ([]domain.GuildSettings, error) {
	rows, err := s.db.Query(ctx, SQLListGuildSettings)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetGuildSettings, err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.GuildSettings, error) {
		g, err := scanGuildSettings(row)
		if err != nil {
			return domain.GuildSettings{}, err
		}
		return *g, nil
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetGuildSettings, err)
	}
	return list, nil
}

func (s *Store) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	return s.begin(ctx)
}

func (s *Store) BeginShopTx(ctx context.Context) (repository.ShopTx, error) {
	return s.begin(ctx)
}

func (s *Store) begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTx, err)
	}
	return &Tx{tx: tx, alertThreshold: s.alertThreshold, now: s.now}, nil
}
