package domain

import "time"

// ItemType is the discriminant of an item definition.
type ItemType string

const (
	ItemTypeCurrency     ItemType = "currency"
	ItemTypeCurrencyItem ItemType = "currency_item"
	ItemTypeCharm        ItemType = "charm_item"
	ItemTypeLootBox      ItemType = "loot_box_item"
	ItemTypeCosmicToken  ItemType = "cosmic_token"
	ItemTypeCollectible  ItemType = "collectible"
	ItemTypeJunk         ItemType = "junk"
	ItemTypeSpecialRole  ItemType = "special_role_item"
	ItemTypeGeneral      ItemType = "general_item"
)

// IsCurrency reports whether items of this type live on the wallet instead
// of the inventory table.
func (t ItemType) IsCurrency() bool {
	return t == ItemTypeCurrency || t == ItemTypeCurrencyItem
}

// ShopListing holds the fields that make an item eligible for the rotating shop.
type ShopListing struct {
	BasePrice          int64    `json:"base_price"`
	PriceCurrency      Currency `json:"price_currency"`
	AppearanceChance   float64  `json:"appearance_chance"`
	StockMin           int      `json:"stock_min"`
	StockMax           int      `json:"stock_max"`
	IsRareForShopAlert bool     `json:"is_rare_for_shop_alert"`
	MaxPerTransaction  int      `json:"max_per_transaction,omitempty"`
}

// ItemBase carries the fields shared by every item variant.
type ItemBase struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Emoji       string       `json:"emoji,omitempty"`
	Description string       `json:"description,omitempty"`
	Type        ItemType     `json:"type"`
	RarityValue int64        `json:"rarity_value"`
	Shop        *ShopListing `json:"shop,omitempty"`
}

// Info returns the shared fields of the definition.
func (b *ItemBase) Info() *ItemBase { return b }

// Item is implemented by every item definition variant. Callers switch on
// the concrete type to reach variant-specific fields.
type Item interface {
	Info() *ItemBase
}

// CurrencyItem is a definition whose grants are routed to a wallet balance.
type CurrencyItem struct {
	ItemBase
	Currency Currency `json:"currency"`
}

// LootBoxItem rolls NumRolls independent picks over Pool when opened.
type LootBoxItem struct {
	ItemBase
	NumRolls   int         `json:"num_rolls"`
	Pool       []PoolEntry `json:"pool"`
	MaxUnboxes int         `json:"max_unboxes,omitempty"`
}

// CharmItem activates a passive earnings modifier.
type CharmItem struct {
	ItemBase
	CharmType CharmType     `json:"charm_type"`
	Boost     float64       `json:"boost"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// TokenItem grants an external role when acquired or used.
type TokenItem struct {
	ItemBase
	RoleID string `json:"role_id,omitempty"`
}

// GeneralItem covers collectibles, junk and plain inventory items.
type GeneralItem struct {
	ItemBase
}

// PoolEntryKind discriminates loot pool entries.
type PoolEntryKind string

const (
	PoolEntryCurrency PoolEntryKind = "currency"
	PoolEntryItem     PoolEntryKind = "item"
)

// PoolEntry is one weighted outcome of a loot box roll. Currency entries
// grant a uniform amount in [Min,Max]; item entries grant ItemID with a
// quantity in [Min,Max] (Min == Max for a fixed quantity).
type PoolEntry struct {
	Kind        PoolEntryKind `json:"kind"`
	Currency    Currency      `json:"currency,omitempty"`
	ItemID      string        `json:"item_id,omitempty"`
	Min         int64         `json:"min"`
	Max         int64         `json:"max"`
	Probability float64       `json:"probability"`
	RarityValue int64         `json:"rarity_value"`
}

// DropTableEntry is a weighted entry of the direct chat/voice drop table.
type DropTableEntry struct {
	ItemID string  `json:"item_id"`
	Weight float64 `json:"weight"`
}
