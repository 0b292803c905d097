package domain

import "time"

// CharmType selects which earnings a charm modifies.
type CharmType string

const (
	CharmTypeCoin         CharmType = "coin_charm_type"
	CharmTypeXP           CharmType = "xp_charm_type"
	CharmTypeGem          CharmType = "gem_charm_type"
	CharmTypeDiscount     CharmType = "discount_charm_type"
	CharmTypeTaxReduction CharmType = "tax_reduction_charm_type"
)

// CharmTypeFor maps a wallet currency to the charm type that boosts it.
func CharmTypeFor(c Currency) (CharmType, bool) {
	switch c {
	case CurrencyCoins:
		return CharmTypeCoin, true
	case CurrencyGems:
		return CharmTypeGem, true
	}
	return "", false
}

// ActiveCharm is an activated charm instance owned by an account.
type ActiveCharm struct {
	ID         int64      `json:"id"`
	UserID     string     `json:"user_id"`
	GuildID    string     `json:"guild_id"`
	CharmID    string     `json:"charm_id"`
	CharmType  CharmType  `json:"charm_type"`
	BoostValue float64    `json:"boost_value"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Source     string     `json:"source"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Active reports whether the charm still applies at now.
func (c ActiveCharm) Active(now time.Time) bool {
	return c.ExpiresAt == nil || c.ExpiresAt.After(now)
}

// SumBoost totals the boost values of charms of the given type.
func SumBoost(charms []ActiveCharm, t CharmType) float64 {
	var total float64
	for _, c := range charms {
		if c.CharmType == t {
			total += c.BoostValue
		}
	}
	return total
}
