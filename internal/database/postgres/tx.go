package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// Tx implements repository.ShopTx (and so repository.LedgerTx) on a pgx
// transaction.
type Tx struct {
	tx             pgx.Tx
	alertThreshold int64
	now            func() time.Time
}

// Commit commits the transaction
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *Tx) GetAccountForUpdate(ctx context.Context, userID, guildID string) (*domain.Account, error) {
	if _, err := t.tx.Exec(ctx, SQLEnsureAccount, guildID, userID, t.alertThreshold, t.now()); err != nil {
		return nil, fmt.Errorf(ErrMsgEnsureAccount, err)
	}
	acct, err := scanAccount(t.tx.QueryRow(ctx, SQLSelectAccountForUpdate, guildID, userID))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetAccount, err)
	}
	return acct, nil
}

func (t *Tx) UpdateAccount(ctx context.Context, acct *domain.Account) error {
	tag, err := t.tx.Exec(ctx, SQLUpdateAccount, accountArgs(acct)...)
	if err != nil {
		return fmt.Errorf(ErrMsgUpdateAccount, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf(ErrMsgUpdateAccount, domain.ErrAccountNotFound)
	}
	return nil
}

func (t *Tx) DeleteAccount(ctx context.Context, userID, guildID string) error {
	if _, err := t.tx.Exec(ctx, SQLDeleteAccount, guildID, userID); err != nil {
		return fmt.Errorf(ErrMsgDeleteAccount, err)
	}
	return nil
}

func (t *Tx) GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventoryEntry, error) {
	return getInventory(ctx, t.tx, userID, guildID)
}

func (t *Tx) GetInventoryQuantity(ctx context.Context, userID, guildID, itemID string) (int64, error) {
	var qty int64
	err := t.tx.QueryRow(ctx, SQLSelectInventoryQuantity, guildID, userID, itemID).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf(ErrMsgGetInventory, err)
	}
	return qty, nil
}

func (t *Tx) SetInventoryQuantity(ctx context.Context, e domain.InventoryEntry) error {
	var err error
	if e.Quantity <= 0 {
		_, err = t.tx.Exec(ctx, SQLDeleteInventory, e.GuildID, e.UserID, e.ItemID)
	} else {
		_, err = t.tx.Exec(ctx, SQLUpsertInventory, e.GuildID, e.UserID, e.ItemID, e.Quantity, e.ItemType)
	}
	if err != nil {
		return fmt.Errorf(ErrMsgSetInventory, err)
	}
	return nil
}

func (t *Tx) InsertCharm(ctx context.Context, c *domain.ActiveCharm) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = t.now()
	}
	err := t.tx.QueryRow(ctx, SQLInsertCharm,
		c.GuildID, c.UserID, c.CharmID, c.CharmType, c.BoostValue, c.ExpiresAt, c.Source, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf(ErrMsgInsertCharm, err)
	}
	return nil
}

func (t *Tx) GetActiveCharms(ctx context.Context, userID, guildID string, now time.Time) ([]domain.ActiveCharm, error) {
	return getActiveCharms(ctx, t.tx, userID, guildID, now)
}

func (t *Tx) GetDailyRewards(ctx context.Context, userID, guildID string) ([]domain.DailyReward, error) {
	return getDailyRewards(ctx, t.tx, userID, guildID)
}

func (t *Tx) ReplaceDailyRewards(ctx context.Context, userID, guildID string, rewards []domain.DailyReward) error {
	batch := &pgx.Batch{}
	batch.Queue(SQLDeleteDailyRewards, guildID, userID)
	for _, r := range rewards {
		batch.Queue(SQLInsertDailyReward, guildID, userID, r.Day, r.Kind, r.ID, r.Amount)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf(ErrMsgSaveDailyRewards, err)
	}
	return nil
}

func (t *Tx) GetShopSlotsForUpdate(ctx context.Context, guildID string) ([]domain.ShopSlot, error) {
	return getShopSlots(ctx, t.tx, SQLSelectShopSlotsForUpdate, guildID)
}

func (t *Tx) ReplaceShopSlots(ctx context.Context, guildID string, slots []domain.ShopSlot) error {
	batch := &pgx.Batch{}
	batch.Queue(SQLDeleteShopSlots, guildID)
	for _, s := range slots {
		batch.Queue(SQLUpsertShopSlot, shopSlotArgs(guildID, s)...)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf(ErrMsgSaveShopSlots, err)
	}
	return nil
}

func (t *Tx) UpdateShopSlot(ctx context.Context, s domain.ShopSlot) error {
	if _, err := t.tx.Exec(ctx, SQLUpsertShopSlot, shopSlotArgs(s.GuildID, s)...); err != nil {
		return fmt.Errorf(ErrMsgSaveShopSlots, err)
	}
	return nil
}

// GetShopSettingsForUpdate locks the guild's settings row. Restocks and
// weekend transitions serialize on it even before the first slot exists.
func (t *Tx) GetShopSettingsForUpdate(ctx context.Context, guildID string) (*domain.ShopSettings, error) {
	if _, err := t.tx.Exec(ctx, SQLEnsureShopSettings, guildID); err != nil {
		return nil, fmt.Errorf(ErrMsgGetShopSettings, err)
	}
	settings, err := scanShopSettings(t.tx.QueryRow(ctx, SQLSelectShopSettingsForUpdate, guildID))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetShopSettings, err)
	}
	return settings, nil
}

func (t *Tx) UpsertShopSettings(ctx context.Context, s domain.ShopSettings) error {
	if _, err := t.tx.Exec(ctx, SQLUpsertShopSettings, s.GuildID, s.LastRestockAt, s.NextRestockAt); err != nil {
		return fmt.Errorf(ErrMsgSaveShopSettings, err)
	}
	return nil
}

func shopSlotArgs(guildID string, s domain.ShopSlot) []any {
	return []any{guildID, s.SlotID, s.ItemID, s.CurrentPrice, s.OriginalPrice, s.Stock,
		s.DiscountPercent, s.DiscountLabel, s.IsWeekendSpecial}
}
