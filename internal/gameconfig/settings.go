package gameconfig

import (
	"time"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// Range is an inclusive integer interval.
type Range struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// GlobalSettings are the tunables shared by every engine component.
type GlobalSettings struct {
	CoinCap  int64 `json:"coin_cap"`
	GemCap   int64 `json:"gem_cap"`
	RobuxCap int64 `json:"robux_cap"`

	MaxLevel           int   `json:"max_level"`
	LevelUpBaseXP      int64 `json:"level_up_base_xp"`
	LevelUpXPIncrement int64 `json:"level_up_xp_increment"`

	BaseXPPerMessage  int64 `json:"base_xp_per_message"`
	CoinsPerMessage   Range `json:"coins_per_message"`
	XPCooldownSeconds int   `json:"xp_cooldown_seconds"`

	ChatDropBaseChance  float64 `json:"chat_drop_base_chance"`
	VoiceDropBaseChance float64 `json:"voice_drop_base_chance"`

	VoiceIntervalSeconds  int   `json:"voice_interval_seconds"`
	VoiceXPPerInterval    int64 `json:"voice_xp_per_interval"`
	VoiceCoinsPerInterval Range `json:"voice_coins_per_interval"`

	WeekendCoinMultiplier      float64       `json:"weekend_coin_multiplier"`
	WeekendGemMultiplier       float64       `json:"weekend_gem_multiplier"`
	WeekendXPMultiplier        float64       `json:"weekend_xp_multiplier"`
	WeekendShopStockMultiplier float64       `json:"weekend_shop_stock_multiplier"`
	Weekend                    WeekendWindow `json:"weekend"`

	MaxShopSlots               int     `json:"max_shop_slots"`
	MaxPurchasePerTransaction  int     `json:"max_purchase_per_transaction"`
	ShopRestockIntervalMinutes int     `json:"shop_restock_interval_minutes"`
	AlertWorthyDiscount        float64 `json:"alert_worthy_discount"`

	DefaultAlertRarityThreshold int64  `json:"default_alert_rarity_threshold"`
	CosmicTokenID               string `json:"cosmic_token_id"`
	NothingDropID               string `json:"nothing_drop_id"`

	InterestWindowHours int `json:"interest_window_hours"`
}

// XPCooldown is the minimum spacing between rewarded chat messages.
func (g GlobalSettings) XPCooldown() time.Duration {
	return time.Duration(g.XPCooldownSeconds) * time.Second
}

// VoiceInterval is the spacing between voice activity rewards.
func (g GlobalSettings) VoiceInterval() time.Duration {
	return time.Duration(g.VoiceIntervalSeconds) * time.Second
}

// ShopRestockInterval is the default time between shop restocks.
func (g GlobalSettings) ShopRestockInterval() time.Duration {
	return time.Duration(g.ShopRestockIntervalMinutes) * time.Minute
}

// InterestWindow is the minimum spacing between two interest credits on one account.
func (g GlobalSettings) InterestWindow() time.Duration {
	return time.Duration(g.InterestWindowHours) * time.Hour
}

// CurrencyCap returns the wallet cap for c.
func (g GlobalSettings) CurrencyCap(c domain.Currency) int64 {
	switch c {
	case domain.CurrencyCoins:
		return g.CoinCap
	case domain.CurrencyGems:
		return g.GemCap
	case domain.CurrencyRobux:
		return g.RobuxCap
	}
	return 0
}

// WeekendMultiplier returns the weekend credit multiplier for c. Premium
// currency is never boosted.
func (g GlobalSettings) WeekendMultiplier(c domain.Currency) float64 {
	switch c {
	case domain.CurrencyCoins:
		return g.WeekendCoinMultiplier
	case domain.CurrencyGems:
		return g.WeekendGemMultiplier
	}
	return 1
}

// LevelRole maps a level threshold to an external role id.
type LevelRole struct {
	Level  int    `json:"level"`
	RoleID string `json:"role_id"`
}

// DiscountTables holds the restock discount tables for both periods.
type DiscountTables struct {
	Weekend []domain.DiscountTier `json:"weekend"`
	Normal  []domain.DiscountTier `json:"normal"`
}

// DailyItemWeight is one candidate of the daily item reward pool. The base
// entry absorbs the probability mass the rarer entries do not claim.
type DailyItemWeight struct {
	ItemID      string  `json:"item_id"`
	Probability float64 `json:"probability"`
	Base        bool    `json:"base,omitempty"`
}

// DailyCurrencyOption is one candidate of the daily currency reward pool.
type DailyCurrencyOption struct {
	Currency    domain.Currency `json:"currency"`
	Min         int64           `json:"min"`
	Max         int64           `json:"max"`
	Probability float64         `json:"probability"`
}

// DailySettings tunes reward generation, claiming and streak restore.
type DailySettings struct {
	ShiftIntervalHours     int                   `json:"shift_interval_hours"`
	ClaimCooldownHours     int                   `json:"claim_cooldown_hours"`
	StreakWindowHours      int                   `json:"streak_window_hours"`
	ItemChance             float64               `json:"item_chance"`
	StreakLuckPerDay       float64               `json:"streak_luck_per_day"`
	MaxStreakLuck          float64               `json:"max_streak_luck"`
	StreakMultiplierPerDay float64               `json:"streak_multiplier_per_day"`
	ItemPool               []DailyItemWeight     `json:"item_pool"`
	CurrencyPool           []DailyCurrencyOption `json:"currency_pool"`
	PremiumChance          float64               `json:"premium_chance"`
	PremiumMinStreak       int                   `json:"premium_min_streak"`
	PremiumRange           Range                 `json:"premium_range"`
	RestoreBaseCost        float64               `json:"restore_base_cost"`
	RestoreGrowth          float64               `json:"restore_growth"`
	RestoreWindowHours     int                   `json:"restore_window_hours"`
}

func (d DailySettings) ShiftInterval() time.Duration {
	return time.Duration(d.ShiftIntervalHours) * time.Hour
}

func (d DailySettings) ClaimCooldown() time.Duration {
	return time.Duration(d.ClaimCooldownHours) * time.Hour
}

func (d DailySettings) StreakWindow() time.Duration {
	return time.Duration(d.StreakWindowHours) * time.Hour
}

func (d DailySettings) RestoreWindow() time.Duration {
	return time.Duration(d.RestoreWindowHours) * time.Hour
}
