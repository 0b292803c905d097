package domain

// InventoryEntry is a positive quantity of a non-currency item held by an account.
type InventoryEntry struct {
	UserID   string   `json:"user_id"`
	GuildID  string   `json:"guild_id"`
	ItemID   string   `json:"item_id"`
	Quantity int64    `json:"quantity"`
	ItemType ItemType `json:"item_type"`
}
