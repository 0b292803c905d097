package domain

import "strings"

// Source records the provenance of a ledger mutation. It drives telemetry
// and weekend-boost eligibility.
type Source string

const (
	SourceMessage       Source = "message_activity"
	SourceVoice         Source = "voice_activity"
	SourceDirectDrop    Source = "drop"
	SourceLootBox       Source = "lootbox"
	SourceDailyReward   Source = "daily_reward"
	SourceShopPurchase  Source = "shop_purchase"
	SourceShopRefund    Source = "shop_restock_refund"
	SourceAdmin         Source = "admin_command"
	SourceAdminGive     Source = "admin_give"
	SourceBankDeposit   Source = "bank_deposit"
	SourceBankWithdraw  Source = "bank_withdraw"
	SourceBankInterest  Source = "bank_interest"
	SourceBankUpgrade   Source = "bank_upgrade"
	SourceStreakRestore Source = "streak_restore"
	SourceInventoryUse  Source = "inventory_use"
)

// IsAdmin reports whether the mutation was issued by an administrator or a test harness.
func (s Source) IsAdmin() bool {
	return strings.HasPrefix(string(s), "admin_") || strings.HasPrefix(string(s), "test_")
}

// IsBank reports whether the mutation is an internal bank transfer.
func (s Source) IsBank() bool {
	return strings.HasPrefix(string(s), "bank_")
}

// CountsAsEarned reports whether a positive credit from this source feeds
// the cumulative-earned counters.
func (s Source) CountsAsEarned() bool {
	return !s.IsAdmin() && !s.IsBank() && s != SourceShopRefund
}

// WeekendEligible reports whether the weekend multiplier applies to credits from this source.
func (s Source) WeekendEligible() bool {
	return !s.IsAdmin() && !s.IsBank() && !strings.HasPrefix(string(s), string(SourceShopPurchase))
}

// With returns a sub-source such as "drop_rare_loot_box".
func (s Source) With(suffix string) Source {
	return Source(string(s) + "_" + suffix)
}
