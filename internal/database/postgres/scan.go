package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.GuildID, &a.UserID, &a.XP, &a.Level, &a.Coins, &a.Gems, &a.Robux,
		&a.BankCoins, &a.BankGems, &a.BankTier,
		&a.DailyStreak, &a.LastDailyClaimAt, &a.RewardsLastShiftedAt, &a.LostStreak, &a.LostStreakAt,
		&a.LastInterestAt, &a.LastRobuxWithdrawalAt,
		&a.TotalXP, &a.TotalCoinsEarned, &a.TotalGemsEarned, &a.TotalRobuxEarned, &a.TotalVoiceCoins,
		&a.AlertRarityThreshold, &a.MutedAlertItems, &a.CosmicTokenDiscovered,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func accountArgs(a *domain.Account) []any {
	muted := a.MutedAlertItems
	if muted == nil {
		muted = []string{}
	}
	return []any{
		a.GuildID, a.UserID, a.XP, a.Level, a.Coins, a.Gems, a.Robux,
		a.BankCoins, a.BankGems, a.BankTier,
		a.DailyStreak, a.LastDailyClaimAt, a.RewardsLastShiftedAt, a.LostStreak, a.LostStreakAt,
		a.LastInterestAt, a.LastRobuxWithdrawalAt,
		a.TotalXP, a.TotalCoinsEarned, a.TotalGemsEarned, a.TotalRobuxEarned, a.TotalVoiceCoins,
		a.AlertRarityThreshold, muted, a.CosmicTokenDiscovered,
	}
}

func scanShopSlot(row pgx.CollectableRow) (domain.ShopSlot, error) {
	var s domain.ShopSlot
	err := row.Scan(&s.GuildID, &s.SlotID, &s.ItemID, &s.CurrentPrice, &s.OriginalPrice, &s.Stock,
		&s.DiscountPercent, &s.DiscountLabel, &s.IsWeekendSpecial)
	return s, err
}

func scanShopSettings(row pgx.Row) (*domain.ShopSettings, error) {
	var s domain.ShopSettings
	if err := row.Scan(&s.GuildID, &s.LastRestockAt, &s.NextRestockAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanGuildSettings(row pgx.Row) (*domain.GuildSettings, error) {
	var g domain.GuildSettings
	err := row.Scan(&g.GuildID, &g.WeekendBoostActive, &g.CoinEmoji, &g.GemEmoji, &g.RobuxEmoji,
		&g.NotificationChannelID, &g.LevelUpChannelID, &g.LeaderboardMessageID, &g.LeaderboardUpdatedAt,
		&g.RestockIntervalMinutes, &g.ShopRestockDMEnabled)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func getInventory(ctx context.Context, q querier, userID, guildID string) ([]domain.InventoryEntry, error) {
	rows, err := q.Query(ctx, SQLSelectInventory, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetInventory, err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.InventoryEntry, error) {
		var e domain.InventoryEntry
		err := row.Scan(&e.GuildID, &e.UserID, &e.ItemID, &e.Quantity, &e.ItemType)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetInventory, err)
	}
	return entries, nil
}

func getActiveCharms(ctx context.Context, q querier, userID, guildID string, now time.Time) ([]domain.ActiveCharm, error) {
	rows, err := q.Query(ctx, SQLSelectActiveCharms, guildID, userID, now)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCharms, err)
	}
	charms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ActiveCharm, error) {
		var c domain.ActiveCharm
		err := row.Scan(&c.ID, &c.GuildID, &c.UserID, &c.CharmID, &c.CharmType, &c.BoostValue,
			&c.ExpiresAt, &c.Source, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCharms, err)
	}
	return charms, nil
}

func getDailyRewards(ctx context.Context, q querier, userID, guildID string) ([]domain.DailyReward, error) {
	rows, err := q.Query(ctx, SQLSelectDailyRewards, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetDailyRewards, err)
	}
	rewards, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DailyReward, error) {
		var r domain.DailyReward
		err := row.Scan(&r.Day, &r.Kind, &r.ID, &r.Amount)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetDailyRewards, err)
	}
	return rewards, nil
}

func getShopSlots(ctx context.Context, q querier, sql, guildID string) ([]domain.ShopSlot, error) {
	rows, err := q.Query(ctx, sql, guildID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetShopSlots, err)
	}
	slots, err := pgx.CollectRows(rows, scanShopSlot)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetShopSlots, err)
	}
	return slots, nil
}
