package domain

// BankTier describes one rung of the bank ladder.
type BankTier struct {
	Tier             int     `json:"tier"`
	CoinCap          int64   `json:"coin_cap"`
	GemCap           int64   `json:"gem_cap"`
	UpgradeCostCoins int64   `json:"upgrade_cost_coins"`
	UpgradeCostGems  int64   `json:"upgrade_cost_gems"`
	InterestRate     float64 `json:"interest_rate"`
	NextTier         *int    `json:"next_tier"`
}

// Cap returns the bank capacity for a bankable currency.
func (t BankTier) Cap(c Currency) int64 {
	switch c {
	case CurrencyCoins:
		return t.CoinCap
	case CurrencyGems:
		return t.GemCap
	}
	return 0
}
