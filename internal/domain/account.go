package domain

import "time"

// Currency identifies one of the wallet balances held directly on an account.
type Currency string

const (
	CurrencyCoins Currency = "coins"
	CurrencyGems  Currency = "gems"
	CurrencyRobux Currency = "robux"
)

// Valid reports whether c is a known wallet currency.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyCoins, CurrencyGems, CurrencyRobux:
		return true
	}
	return false
}

// Bankable reports whether c can be deposited into the bank.
func (c Currency) Bankable() bool {
	return c == CurrencyCoins || c == CurrencyGems
}

// AccountKey identifies an account: accounts are scoped per user per guild.
type AccountKey struct {
	UserID  string `json:"user_id"`
	GuildID string `json:"guild_id"`
}

// Account is the per-user-per-guild ledger row.
type Account struct {
	UserID  string `json:"user_id"`
	GuildID string `json:"guild_id"`

	XP    int64 `json:"xp"`
	Level int   `json:"level"`

	Coins int64 `json:"coins"`
	Gems  int64 `json:"gems"`
	Robux int64 `json:"robux"`

	BankCoins int64 `json:"bank_coins"`
	BankGems  int64 `json:"bank_gems"`
	BankTier  int   `json:"bank_tier"`

	DailyStreak          int       `json:"daily_streak"`
	LastDailyClaimAt     time.Time `json:"last_daily_claim_at"`
	RewardsLastShiftedAt time.Time `json:"rewards_last_shifted_at"`
	LostStreak           int       `json:"lost_streak"`
	LostStreakAt         time.Time `json:"lost_streak_at"`

	LastInterestAt        time.Time `json:"last_interest_at"`
	LastRobuxWithdrawalAt time.Time `json:"last_robux_withdrawal_at"`

	// Telemetry counters; never decremented.
	TotalXP          int64 `json:"total_xp"`
	TotalCoinsEarned int64 `json:"total_coins_earned"`
	TotalGemsEarned  int64 `json:"total_gems_earned"`
	TotalRobuxEarned int64 `json:"total_robux_earned"`
	TotalVoiceCoins  int64 `json:"total_voice_coins"`

	AlertRarityThreshold  int64    `json:"alert_rarity_threshold"`
	MutedAlertItems       []string `json:"muted_alert_items"`
	CosmicTokenDiscovered bool     `json:"cosmic_token_discovered"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the account's composite key.
func (a *Account) Key() AccountKey {
	return AccountKey{UserID: a.UserID, GuildID: a.GuildID}
}

// Balance returns the wallet balance for c.
func (a *Account) Balance(c Currency) int64 {
	switch c {
	case CurrencyCoins:
		return a.Coins
	case CurrencyGems:
		return a.Gems
	case CurrencyRobux:
		return a.Robux
	}
	return 0
}

// SetBalance overwrites the wallet balance for c.
func (a *Account) SetBalance(c Currency, v int64) {
	switch c {
	case CurrencyCoins:
		a.Coins = v
	case CurrencyGems:
		a.Gems = v
	case CurrencyRobux:
		a.Robux = v
	}
}

// BankBalance returns the bank balance for a bankable currency.
func (a *Account) BankBalance(c Currency) int64 {
	switch c {
	case CurrencyCoins:
		return a.BankCoins
	case CurrencyGems:
		return a.BankGems
	}
	return 0
}

// SetBankBalance overwrites the bank balance for a bankable currency.
func (a *Account) SetBankBalance(c Currency, v int64) {
	switch c {
	case CurrencyCoins:
		a.BankCoins = v
	case CurrencyGems:
		a.BankGems = v
	}
}

// AddEarned bumps the cumulative-earned counter for c.
func (a *Account) AddEarned(c Currency, v int64) {
	switch c {
	case CurrencyCoins:
		a.TotalCoinsEarned += v
	case CurrencyGems:
		a.TotalGemsEarned += v
	case CurrencyRobux:
		a.TotalRobuxEarned += v
	}
}

// IsAlertMuted reports whether the user opted out of alerts for itemID.
func (a *Account) IsAlertMuted(itemID string) bool {
	for _, id := range a.MutedAlertItems {
		if id == itemID {
			return true
		}
	}
	return false
}

// NewAccount returns the all-zero defaults used when an account is created lazily.
func NewAccount(userID, guildID string, alertThreshold int64, now time.Time) *Account {
	return &Account{
		UserID:               userID,
		GuildID:              guildID,
		AlertRarityThreshold: alertThreshold,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// LeaderboardEntry is one row of the level leaderboard.
type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Level  int    `json:"level"`
	XP     int64  `json:"xp"`
}
