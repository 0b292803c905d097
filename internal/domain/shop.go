package domain

import "time"

// ShopSlot is one listing of a guild's rotating shop.
type ShopSlot struct {
	GuildID          string  `json:"guild_id"`
	SlotID           int     `json:"slot_id"`
	ItemID           string  `json:"item_id"`
	CurrentPrice     int64   `json:"current_price"`
	OriginalPrice    int64   `json:"original_price"`
	Stock            int     `json:"stock"`
	DiscountPercent  float64 `json:"discount_percent"`
	DiscountLabel    string  `json:"discount_label"`
	IsWeekendSpecial bool    `json:"is_weekend_special"`
}

// ShopSettings tracks restock bookkeeping for a guild.
type ShopSettings struct {
	GuildID       string    `json:"guild_id"`
	LastRestockAt time.Time `json:"last_restock_at"`
	NextRestockAt time.Time `json:"next_restock_at"`
}

// DiscountTier is a weighted discount outcome applied at restock.
type DiscountTier struct {
	Discount    float64 `json:"discount"`
	Probability float64 `json:"probability"`
	Label       string  `json:"label"`
}
