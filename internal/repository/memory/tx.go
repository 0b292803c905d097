package memory

import (
	"context"
	"sort"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

type memTx struct {
	store  *Store
	data   *state
	closed bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.closed {
		return errTxClosed
	}
	t.closed = true
	t.store.mu.Lock()
	t.store.data = t.data
	t.store.mu.Unlock()
	t.store.txMu.Unlock()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.closed {
		return errTxClosed
	}
	t.closed = true
	t.store.txMu.Unlock()
	return nil
}

func (t *memTx) GetAccountForUpdate(ctx context.Context, userID, guildID string) (*domain.Account, error) {
	key := domain.AccountKey{UserID: userID, GuildID: guildID}
	acct, ok := t.data.accounts[key]
	if !ok {
		acct = *domain.NewAccount(userID, guildID, t.store.alertThreshold, t.store.now())
		t.data.accounts[key] = acct
	}
	acct.MutedAlertItems = append([]string(nil), acct.MutedAlertItems...)
	return &acct, nil
}

func (t *memTx) UpdateAccount(ctx context.Context, acct *domain.Account) error {
	cp := *acct
	cp.MutedAlertItems = append([]string(nil), acct.MutedAlertItems...)
	t.data.accounts[acct.Key()] = cp
	return nil
}

func (t *memTx) DeleteAccount(ctx context.Context, userID, guildID string) error {
	key := domain.AccountKey{UserID: userID, GuildID: guildID}
	delete(t.data.accounts, key)
	delete(t.data.daily, key)
	for k := range t.data.inventory {
		if k.AccountKey == key {
			delete(t.data.inventory, k)
		}
	}
	kept := t.data.charms[:0]
	for _, c := range t.data.charms {
		if c.UserID != userID || c.GuildID != guildID {
			kept = append(kept, c)
		}
	}
	t.data.charms = kept
	return nil
}

func (t *memTx) GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventoryEntry, error) {
	return inventoryOf(t.data, userID, guildID), nil
}

func (t *memTx) GetInventoryQuantity(ctx context.Context, userID, guildID, itemID string) (int64, error) {
	e := t.data.inventory[invKey{AccountKey: domain.AccountKey{UserID: userID, GuildID: guildID}, ItemID: itemID}]
	return e.Quantity, nil
}

func (t *memTx) SetInventoryQuantity(ctx context.Context, entry domain.InventoryEntry) error {
	key := invKey{AccountKey: domain.AccountKey{UserID: entry.UserID, GuildID: entry.GuildID}, ItemID: entry.ItemID}
	if entry.Quantity <= 0 {
		delete(t.data.inventory, key)
		return nil
	}
	t.data.inventory[key] = entry
	return nil
}

func (t *memTx) InsertCharm(ctx context.Context, charm *domain.ActiveCharm) error {
	charm.ID = t.data.nextCharmID
	t.data.nextCharmID++
	t.data.charms = append(t.data.charms, *charm)
	return nil
}

func (t *memTx) GetActiveCharms(ctx context.Context, userID, guildID string, now time.Time) ([]domain.ActiveCharm, error) {
	return activeCharmsOf(t.data, userID, guildID, now), nil
}

func (t *memTx) GetDailyRewards(ctx context.Context, userID, guildID string) ([]domain.DailyReward, error) {
	return append([]domain.DailyReward(nil), t.data.daily[domain.AccountKey{UserID: userID, GuildID: guildID}]...), nil
}

func (t *memTx) ReplaceDailyRewards(ctx context.Context, userID, guildID string, rewards []domain.DailyReward) error {
	cp := append([]domain.DailyReward(nil), rewards...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Day < cp[j].Day })
	t.data.daily[domain.AccountKey{UserID: userID, GuildID: guildID}] = cp
	return nil
}

func (t *memTx) GetShopSlotsForUpdate(ctx context.Context, guildID string) ([]domain.ShopSlot, error) {
	return append([]domain.ShopSlot(nil), t.data.slots[guildID]...), nil
}

func (t *memTx) ReplaceShopSlots(ctx context.Context, guildID string, slots []domain.ShopSlot) error {
	t.data.slots[guildID] = append([]domain.ShopSlot(nil), slots...)
	return nil
}

func (t *memTx) UpdateShopSlot(ctx context.Context, slot domain.ShopSlot) error {
	slots := t.data.slots[slot.GuildID]
	for i := range slots {
		if slots[i].SlotID == slot.SlotID {
			slots[i] = slot
			return nil
		}
	}
	t.data.slots[slot.GuildID] = append(slots, slot)
	return nil
}

func (t *memTx) GetShopSettingsForUpdate(ctx context.Context, guildID string) (*domain.ShopSettings, error) {
	settings, ok := t.data.shopSettings[guildID]
	if !ok {
		settings = domain.ShopSettings{GuildID: guildID}
	}
	return &settings, nil
}

func (t *memTx) UpsertShopSettings(ctx context.Context, settings domain.ShopSettings) error {
	t.data.shopSettings[settings.GuildID] = settings
	return nil
}
