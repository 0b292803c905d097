// Package gameconfig holds the static economy configuration: item
// definitions, loot pools, bank tiers, discount tables and global tunables.
// A Config is immutable once loaded.
package gameconfig

import (
	"fmt"
	"sort"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// Config is the decoded, validated game configuration.
type Config struct {
	Global      GlobalSettings
	LevelRoles  []LevelRole
	BankTiers   []domain.BankTier
	Discounts   DiscountTables
	Daily       DailySettings
	DirectDrops []domain.DropTableEntry

	items     map[string]domain.Item
	itemOrder []string
}

// Item returns the definition for id.
func (c *Config) Item(id string) (domain.Item, error) {
	item, ok := c.items[id]
	if !ok {
		return nil, domain.NewItemMissing(id)
	}
	return item, nil
}

// LootBox returns the loot box definition for id.
func (c *Config) LootBox(id string) (*domain.LootBoxItem, error) {
	item, err := c.Item(id)
	if err != nil {
		return nil, err
	}
	box, ok := item.(*domain.LootBoxItem)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotALootBox, id)
	}
	return box, nil
}

// Items returns every definition in configuration order.
func (c *Config) Items() []domain.Item {
	out := make([]domain.Item, 0, len(c.itemOrder))
	for _, id := range c.itemOrder {
		out = append(out, c.items[id])
	}
	return out
}

// ShopEligible returns the items that can appear in the rotating shop.
func (c *Config) ShopEligible() []domain.Item {
	var out []domain.Item
	for _, item := range c.Items() {
		if shop := item.Info().Shop; shop != nil && shop.AppearanceChance > 0 {
			out = append(out, item)
		}
	}
	return out
}

// CurrencyFor resolves an item id that names a currency.
func (c *Config) CurrencyFor(id string) (domain.Currency, bool) {
	item, ok := c.items[id]
	if !ok {
		return "", false
	}
	ci, ok := item.(*domain.CurrencyItem)
	if !ok {
		return "", false
	}
	return ci.Currency, true
}

// BankTier returns the definition of tier.
func (c *Config) BankTier(tier int) (domain.BankTier, error) {
	if tier < 0 || tier >= len(c.BankTiers) {
		return domain.BankTier{}, &domain.ConfigurationMissingError{Kind: KindBankTier, Key: fmt.Sprint(tier)}
	}
	return c.BankTiers[tier], nil
}

// DiscountTiers returns the discount table applicable in the given period.
func (c *Config) DiscountTiers(weekend bool) []domain.DiscountTier {
	if weekend {
		return c.Discounts.Weekend
	}
	return c.Discounts.Normal
}

// MaxPurchase returns the per-transaction quantity limit for itemID.
func (c *Config) MaxPurchase(itemID string) int {
	if item, ok := c.items[itemID]; ok {
		if shop := item.Info().Shop; shop != nil && shop.MaxPerTransaction > 0 {
			return shop.MaxPerTransaction
		}
	}
	return c.Global.MaxPurchasePerTransaction
}

// IsUltraRare reports whether itemID is the designated cosmic token.
func (c *Config) IsUltraRare(itemID string) bool {
	return itemID == c.Global.CosmicTokenID
}

// SortedLevelRoles returns the level roles ordered by threshold.
func (c *Config) SortedLevelRoles() []LevelRole {
	out := append([]LevelRole(nil), c.LevelRoles...)
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}

// WithItems returns a copy of c whose item table additionally contains (or
// replaces) the given definitions.
func (c *Config) WithItems(items ...domain.Item) *Config {
	cp := *c
	cp.items = make(map[string]domain.Item, len(c.items)+len(items))
	for id, item := range c.items {
		cp.items[id] = item
	}
	cp.itemOrder = append([]string(nil), c.itemOrder...)
	for _, item := range items {
		id := item.Info().ID
		if _, exists := cp.items[id]; !exists {
			cp.itemOrder = append(cp.itemOrder, id)
		}
		cp.items[id] = item
	}
	return &cp
}
