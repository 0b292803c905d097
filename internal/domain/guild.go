package domain

import "time"

// GuildSettings holds per-guild toggles and display overrides.
type GuildSettings struct {
	GuildID                string    `json:"guild_id"`
	WeekendBoostActive     bool      `json:"weekend_boost_active"`
	CoinEmoji              string    `json:"coin_emoji,omitempty"`
	GemEmoji               string    `json:"gem_emoji,omitempty"`
	RobuxEmoji             string    `json:"robux_emoji,omitempty"`
	NotificationChannelID  string    `json:"notification_channel_id,omitempty"`
	LevelUpChannelID       string    `json:"level_up_channel_id,omitempty"`
	LeaderboardMessageID   string    `json:"leaderboard_message_id,omitempty"`
	LeaderboardUpdatedAt   time.Time `json:"leaderboard_updated_at"`
	RestockIntervalMinutes int       `json:"restock_interval_minutes,omitempty"`
	ShopRestockDMEnabled   bool      `json:"shop_restock_dm_enabled"`
}
