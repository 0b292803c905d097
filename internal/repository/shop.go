package repository

import (
	"context"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// ShopTx extends LedgerTx with the guild shop rows so that a purchase can
// debit, decrement stock and grant in one commit.
type ShopTx interface {
	LedgerTx
	GetShopSlotsForUpdate(ctx context.Context, guildID string) ([]domain.ShopSlot, error)
	ReplaceShopSlots(ctx context.Context, guildID string, slots []domain.ShopSlot) error
	UpdateShopSlot(ctx context.Context, slot domain.ShopSlot) error
	// GetShopSettingsForUpdate returns zero-valued settings when the guild was never stocked.
	GetShopSettingsForUpdate(ctx context.Context, guildID string) (*domain.ShopSettings, error)
	UpsertShopSettings(ctx context.Context, settings domain.ShopSettings) error
}

// Shop is the guild shop store.
type Shop interface {
	GetShopSlots(ctx context.Context, guildID string) ([]domain.ShopSlot, error)
	GetShopSettings(ctx context.Context, guildID string) (*domain.ShopSettings, error)
	BeginShopTx(ctx context.Context) (ShopTx, error)
}
