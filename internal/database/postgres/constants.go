package postgres

// ============================================================================
// Accounts
// ============================================================================

const accountColumns = `guild_id, user_id, xp, level, coins, gems, robux,
	bank_coins, bank_gems, bank_tier,
	daily_streak, last_daily_claim_at, rewards_last_shifted_at, lost_streak, lost_streak_at,
	last_interest_at, last_robux_withdrawal_at,
	total_xp, total_coins_earned, total_gems_earned, total_robux_earned, total_voice_coins,
	alert_rarity_threshold, muted_alert_items, cosmic_token_discovered,
	created_at, updated_at`

// SQL statements for the users table
const (
	SQLSelectAccount = `SELECT ` + accountColumns + `
		FROM users WHERE guild_id = $1 AND user_id = $2`

	SQLSelectAccountForUpdate = SQLSelectAccount + ` FOR UPDATE`

	SQLEnsureAccount = `
		INSERT INTO users (guild_id, user_id, alert_rarity_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (guild_id, user_id) DO NOTHING`

	SQLUpdateAccount = `
		UPDATE users SET
			xp = $3, level = $4, coins = $5, gems = $6, robux = $7,
			bank_coins = $8, bank_gems = $9, bank_tier = $10,
			daily_streak = $11, last_daily_claim_at = $12, rewards_last_shifted_at = $13,
			lost_streak = $14, lost_streak_at = $15,
			last_interest_at = $16, last_robux_withdrawal_at = $17,
			total_xp = $18, total_coins_earned = $19, total_gems_earned = $20,
			total_robux_earned = $21, total_voice_coins = $22,
			alert_rarity_threshold = $23, muted_alert_items = $24, cosmic_token_discovered = $25,
			updated_at = NOW()
		WHERE guild_id = $1 AND user_id = $2`

	// Inventory, charms and daily rewards cascade.
	SQLDeleteAccount = `DELETE FROM users WHERE guild_id = $1 AND user_id = $2`

	SQLLeaderboard = `
		SELECT user_id, level, xp FROM users
		WHERE guild_id = $1
		ORDER BY level DESC, xp DESC, user_id
		LIMIT NULLIF($2::int, 0)`

	SQLListInterestDue = `
		SELECT guild_id, user_id FROM users
		WHERE last_interest_at <= $1
		ORDER BY guild_id, user_id`

	SQLListLapsedStreaks = `
		SELECT guild_id, user_id FROM users
		WHERE daily_streak > 0 AND last_daily_claim_at < $1
		ORDER BY guild_id, user_id`
)

// ============================================================================
// Inventory, charms, daily rewards
// ============================================================================

// SQL statements for per-account child tables
const (
	SQLSelectInventory = `
		SELECT guild_id, user_id, item_id, quantity, item_type
		FROM user_inventory WHERE guild_id = $1 AND user_id = $2
		ORDER BY item_id`

	SQLSelectInventoryQuantity = `
		SELECT quantity FROM user_inventory
		WHERE guild_id = $1 AND user_id = $2 AND item_id = $3`

	SQLUpsertInventory = `
		INSERT INTO user_inventory (guild_id, user_id, item_id, quantity, item_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (guild_id, user_id, item_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, item_type = EXCLUDED.item_type`

	SQLDeleteInventory = `
		DELETE FROM user_inventory WHERE guild_id = $1 AND user_id = $2 AND item_id = $3`

	SQLInsertCharm = `
		INSERT INTO user_active_charms (guild_id, user_id, charm_id, charm_type, boost_value, expires_at, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	SQLSelectActiveCharms = `
		SELECT id, guild_id, user_id, charm_id, charm_type, boost_value, expires_at, source, created_at
		FROM user_active_charms
		WHERE guild_id = $1 AND user_id = $2 AND (expires_at IS NULL OR expires_at > $3)
		ORDER BY id`

	SQLDeleteExpiredCharms = `
		DELETE FROM user_active_charms WHERE expires_at IS NOT NULL AND expires_at <= $1`

	SQLSelectDailyRewards = `
		SELECT day, kind, reward_id, amount FROM user_daily_rewards
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY day`

	SQLDeleteDailyRewards = `DELETE FROM user_daily_rewards WHERE guild_id = $1 AND user_id = $2`

	SQLInsertDailyReward = `
		INSERT INTO user_daily_rewards (guild_id, user_id, day, kind, reward_id, amount)
		VALUES ($1, $2, $3, $4, $5, $6)`
)

// ============================================================================
// Guild shop and settings
// ============================================================================

const shopSlotColumns = `guild_id, slot_id, item_id, current_price, original_price, stock,
	discount_percent, discount_label, is_weekend_special`

// SQL statements for the guild tables
const (
	SQLSelectShopSlots = `SELECT ` + shopSlotColumns + `
		FROM guild_shop_items WHERE guild_id = $1 ORDER BY slot_id`

	SQLSelectShopSlotsForUpdate = SQLSelectShopSlots + ` FOR UPDATE`

	SQLDeleteShopSlots = `DELETE FROM guild_shop_items WHERE guild_id = $1`

	SQLUpsertShopSlot = `
		INSERT INTO guild_shop_items (` + shopSlotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (guild_id, slot_id) DO UPDATE SET
			item_id = EXCLUDED.item_id,
			current_price = EXCLUDED.current_price,
			original_price = EXCLUDED.original_price,
			stock = EXCLUDED.stock,
			discount_percent = EXCLUDED.discount_percent,
			discount_label = EXCLUDED.discount_label,
			is_weekend_special = EXCLUDED.is_weekend_special`

	SQLSelectShopSettings = `
		SELECT guild_id, last_restock_at, next_restock_at
		FROM guild_shop_settings WHERE guild_id = $1`

	SQLEnsureShopSettings = `
		INSERT INTO guild_shop_settings (guild_id) VALUES ($1)
		ON CONFLICT (guild_id) DO NOTHING`

	SQLSelectShopSettingsForUpdate = SQLSelectShopSettings + ` FOR UPDATE`

	SQLUpsertShopSettings = `
		INSERT INTO guild_shop_settings (guild_id, last_restock_at, next_restock_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id) DO UPDATE
		SET last_restock_at = EXCLUDED.last_restock_at, next_restock_at = EXCLUDED.next_restock_at`

	guildSettingsColumns = `guild_id, weekend_boost_active, coin_emoji, gem_emoji, robux_emoji,
		notification_channel_id, level_up_channel_id, leaderboard_message_id, leaderboard_updated_at,
		restock_interval_minutes, shop_restock_dm_enabled`

	SQLSelectGuildSettings = `SELECT ` + guildSettingsColumns + ` FROM guild_settings WHERE guild_id = $1`

	SQLListGuildSettings = `SELECT ` + guildSettingsColumns + ` FROM guild_settings ORDER BY guild_id`

	SQLUpsertGuildSettings = `
		INSERT INTO guild_settings (` + guildSettingsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (guild_id) DO UPDATE SET
			weekend_boost_active = EXCLUDED.weekend_boost_active,
			coin_emoji = EXCLUDED.coin_emoji,
			gem_emoji = EXCLUDED.gem_emoji,
			robux_emoji = EXCLUDED.robux_emoji,
			notification_channel_id = EXCLUDED.notification_channel_id,
			level_up_channel_id = EXCLUDED.level_up_channel_id,
			leaderboard_message_id = EXCLUDED.leaderboard_message_id,
			leaderboard_updated_at = EXCLUDED.leaderboard_updated_at,
			restock_interval_minutes = EXCLUDED.restock_interval_minutes,
			shop_restock_dm_enabled = EXCLUDED.shop_restock_dm_enabled`
)

// Error messages
const (
	ErrMsgBeginTx           = "failed to begin transaction: %w"
	ErrMsgGetAccount        = "failed to get account: %w"
	ErrMsgEnsureAccount     = "failed to create account row: %w"
	ErrMsgUpdateAccount     = "failed to update account: %w"
	ErrMsgDeleteAccount     = "failed to delete account: %w"
	ErrMsgLeaderboard       = "failed to query leaderboard: %w"
	ErrMsgListAccounts      = "failed to list accounts: %w"
	ErrMsgGetInventory      = "failed to get inventory: %w"
	ErrMsgSetInventory      = "failed to set inventory quantity: %w"
	ErrMsgInsertCharm       = "failed to insert charm: %w"
	ErrMsgGetCharms         = "failed to get active charms: %w"
	ErrMsgDeleteCharms      = "failed to delete expired charms: %w"
	ErrMsgGetDailyRewards   = "failed to get daily rewards: %w"
	ErrMsgSaveDailyRewards  = "failed to save daily rewards: %w"
	ErrMsgGetShopSlots      = "failed to get shop slots: %w"
	ErrMsgSaveShopSlots     = "failed to save shop slots: %w"
	ErrMsgGetShopSettings   = "failed to get shop settings: %w"
	ErrMsgSaveShopSettings  = "failed to save shop settings: %w"
	ErrMsgGetGuildSettings  = "failed to get guild settings: %w"
	ErrMsgSaveGuildSettings = "failed to save guild settings: %w"
)
