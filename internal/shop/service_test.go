package shop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/ledger"
	"github.com/osse101/EconomyBot_Go/internal/repository"
	"github.com/osse101/EconomyBot_Go/internal/repository/memory"
)

var testNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

const (
	testUser  = "user-1"
	testGuild = "guild-1"
	lootBox   = "common_loot_box"
)

type harness struct {
	svc      *service
	store    *memory.Store
	cfg      *gameconfig.Config
	clock    time.Time
	weekend  bool
	restocks []event.ShopRestockedPayloadV1
	roles    []event.RoleSyncPayloadV1
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := gameconfig.MustDefault()
	store := memory.NewStore(cfg.Global.DefaultAlertRarityThreshold)
	bus := event.NewMemoryBus()
	h := &harness{store: store, cfg: cfg, clock: testNow}

	bus.Subscribe(event.ShopRestocked, func(ctx context.Context, evt event.Event) error {
		h.restocks = append(h.restocks, evt.Payload.(event.ShopRestockedPayloadV1))
		return nil
	})
	bus.Subscribe(event.RoleSync, func(ctx context.Context, evt event.Event) error {
		h.roles = append(h.roles, evt.Payload.(event.RoleSyncPayloadV1))
		return nil
	})

	weekend := ledger.WeekendFunc(func(context.Context, string) bool { return h.weekend })
	ledgerSvc := ledger.NewService(store, cfg, weekend, bus)
	h.svc = NewService(store, store, cfg, ledgerSvc, weekend, bus).(*service)
	h.svc.now = func() time.Time { return h.clock }
	// 0.999 passes only the guaranteed common box, rolls top stock and the
	// least generous discount tier.
	h.svc.rnd = func() float64 { return 0.999 }
	return h
}

func (h *harness) seed(t *testing.T, coins int64, stock int) {
	t.Helper()
	h.store.PutAccount(domain.Account{UserID: testUser, GuildID: testGuild, Coins: coins})
	h.store.PutShopSlots(testGuild, []domain.ShopSlot{{
		GuildID: testGuild, SlotID: 1, ItemID: lootBox, CurrentPrice: 100, OriginalPrice: 100, Stock: stock,
	}})
}

func (h *harness) account(t *testing.T) *domain.Account {
	t.Helper()
	acct, err := h.store.GetAccount(context.Background(), testUser, testGuild)
	require.NoError(t, err)
	return acct
}

func (h *harness) slot(t *testing.T) domain.ShopSlot {
	t.Helper()
	slots, err := h.svc.Slots(context.Background(), testGuild)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	return slots[0]
}

func (h *harness) owned(t *testing.T, itemID string) int64 {
	t.Helper()
	inv, err := h.store.GetInventory(context.Background(), testUser, testGuild)
	require.NoError(t, err)
	for _, e := range inv {
		if e.ItemID == itemID {
			return e.Quantity
		}
	}
	return 0
}

func TestRestock_Normal(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.Restock(context.Background(), testGuild, false)
	require.NoError(t, err)
	assert.True(t, res.Restocked)
	require.Len(t, res.Slots, 1)

	slot := res.Slots[0]
	assert.Equal(t, 1, slot.SlotID)
	assert.Equal(t, lootBox, slot.ItemID)
	assert.Equal(t, 200, slot.Stock)
	assert.Equal(t, int64(100), slot.CurrentPrice)
	assert.Empty(t, slot.DiscountLabel, "common items only get discounts on weekends")
	assert.Empty(t, res.Alertable)
	assert.Equal(t, testNow.Add(5*time.Minute), res.NextAt)

	require.Len(t, h.restocks, 1)
	assert.Equal(t, testGuild, h.restocks[0].GuildID)
}

func TestRestock_Weekend(t *testing.T) {
	h := newHarness(t)
	h.weekend = true

	res, err := h.svc.Restock(context.Background(), testGuild, true)
	require.NoError(t, err)
	require.Len(t, res.Slots, 1)

	slot := res.Slots[0]
	assert.Equal(t, 400, slot.Stock)
	assert.Equal(t, int64(90), slot.CurrentPrice)
	assert.Equal(t, int64(100), slot.OriginalPrice)
	assert.InDelta(t, 10, slot.DiscountPercent, 1e-9)
	assert.Equal(t, "🎉 10% OFF (WD) (Weekend Deal)", slot.DiscountLabel)
	assert.True(t, slot.IsWeekendSpecial)
	assert.Len(t, res.Alertable, 1)
	assert.True(t, res.Weekend)
}

func TestRestock_RespectsInterval(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.svc.Restock(ctx, testGuild, false)
	require.NoError(t, err)

	h.clock = testNow.Add(time.Minute)
	res, err := h.svc.Restock(ctx, testGuild, false)
	require.NoError(t, err)
	assert.False(t, res.Restocked)

	res, err = h.svc.Restock(ctx, testGuild, true)
	require.NoError(t, err)
	assert.True(t, res.Restocked, "forced restocks ignore the interval")

	h.clock = h.clock.Add(5 * time.Minute)
	res, err = h.svc.Restock(ctx, testGuild, false)
	require.NoError(t, err)
	assert.True(t, res.Restocked)
	assert.Len(t, h.restocks, 3)
}

func TestRestock_GuildIntervalOverride(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	require.NoError(t, h.store.UpsertGuildSettings(ctx, &domain.GuildSettings{GuildID: testGuild, RestockIntervalMinutes: 60}))

	res, err := h.svc.Restock(ctx, testGuild, false)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(time.Hour), res.NextAt)

	h.clock = testNow.Add(5 * time.Minute)
	res, err = h.svc.Restock(ctx, testGuild, false)
	require.NoError(t, err)
	assert.False(t, res.Restocked)

	h.clock = testNow.Add(time.Hour)
	res, err = h.svc.Restock(ctx, testGuild, false)
	require.NoError(t, err)
	assert.True(t, res.Restocked)
}

func TestRestockDue(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	require.NoError(t, h.store.UpsertGuildSettings(ctx, &domain.GuildSettings{GuildID: "guild-a"}))
	require.NoError(t, h.store.UpsertGuildSettings(ctx, &domain.GuildSettings{GuildID: "guild-b"}))

	n, err := h.svc.RestockDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = h.svc.RestockDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRollDiscount(t *testing.T) {
	rare := &domain.ShopListing{BasePrice: 1000, IsRareForShopAlert: true}

	t.Run("normal table", func(t *testing.T) {
		h := newHarness(t)
		h.svc.rnd = func() float64 { return 0.005 }
		slot := domain.ShopSlot{ItemID: "rare_loot_box"}
		h.svc.rollDiscount(&slot, rare, false)
		assert.Equal(t, int64(500), slot.CurrentPrice)
		assert.Equal(t, "50% OFF!", slot.DiscountLabel)
		assert.False(t, slot.IsWeekendSpecial)
	})

	t.Run("free on the weekend", func(t *testing.T) {
		h := newHarness(t)
		h.svc.rnd = func() float64 { return 0.0005 }
		slot := domain.ShopSlot{ItemID: "rare_loot_box"}
		h.svc.rollDiscount(&slot, rare, true)
		assert.Zero(t, slot.CurrentPrice)
		assert.Equal(t, "🎉 FREE! (WD) (Weekend Deal)", slot.DiscountLabel)
		assert.True(t, slot.IsWeekendSpecial)
	})

	t.Run("missing label", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.Discounts.Normal = []domain.DiscountTier{{Discount: 0.3, Probability: 1}}
		slot := domain.ShopSlot{ItemID: "rare_loot_box"}
		h.svc.rollDiscount(&slot, rare, false)
		assert.Equal(t, int64(700), slot.CurrentPrice)
		assert.Equal(t, "30% OFF", slot.DiscountLabel)
	})

	t.Run("not eligible", func(t *testing.T) {
		h := newHarness(t)
		slot := domain.ShopSlot{ItemID: lootBox, CurrentPrice: 1, DiscountLabel: "stale"}
		h.svc.rollDiscount(&slot, &domain.ShopListing{BasePrice: 1000}, false)
		assert.Equal(t, int64(1000), slot.CurrentPrice)
		assert.Empty(t, slot.DiscountLabel)
	})
}

func TestPurchase_DecrementsStockAndDebits(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, 1000, 5)

	res, err := h.svc.Purchase(ctx, testUser, testGuild, lootBox, 3, PurchaseOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(300), res.TotalCost)
	assert.Equal(t, 2, res.NewStock)
	assert.Equal(t, int64(700), res.NewBalance)

	assert.Equal(t, 2, h.slot(t).Stock)
	assert.Equal(t, int64(700), h.account(t).Coins)
	assert.Equal(t, int64(3), h.owned(t, lootBox))
	assert.Zero(t, h.account(t).TotalCoinsEarned)
}

func TestPurchase_InsufficientStockChangesNothing(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 1000, 5)

	_, err := h.svc.Purchase(context.Background(), testUser, testGuild, lootBox, 6, PurchaseOptions{})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, h.slot(t).Stock)
	assert.Equal(t, int64(1000), h.account(t).Coins)
	assert.Zero(t, h.owned(t, lootBox))
}

func TestPurchase_Rejections(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, 250, 5)

	_, err := h.svc.Purchase(ctx, testUser, testGuild, lootBox, 0, PurchaseOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = h.svc.Purchase(ctx, testUser, testGuild, lootBox, 100, PurchaseOptions{})
	assert.ErrorIs(t, err, domain.ErrQuantityExceedsMax)

	_, err = h.svc.Purchase(ctx, testUser, testGuild, "rare_loot_box", 1, PurchaseOptions{})
	assert.ErrorIs(t, err, domain.ErrNotInShop)

	_, err = h.svc.Purchase(ctx, testUser, testGuild, "no_such_item", 1, PurchaseOptions{})
	assert.ErrorIs(t, err, domain.ErrNotInShop)

	_, err = h.svc.Purchase(ctx, testUser, testGuild, lootBox, 3, PurchaseOptions{})
	var funds *domain.InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	assert.Equal(t, int64(50), funds.Shortfall())

	assert.Equal(t, 5, h.slot(t).Stock)
	assert.Equal(t, int64(250), h.account(t).Coins)
}

var errDiskFull = errors.New("disk full")

// faultyShop fails one write inside purchase transactions.
type faultyShop struct {
	*memory.Store
	failOn string
}

func (f faultyShop) BeginShopTx(ctx context.Context) (repository.ShopTx, error) {
	tx, err := f.Store.BeginShopTx(ctx)
	if err != nil {
		return nil, err
	}
	return faultyTx{ShopTx: tx, failOn: f.failOn}, nil
}

type faultyTx struct {
	repository.ShopTx
	failOn string
}

func (t faultyTx) UpdateShopSlot(ctx context.Context, slot domain.ShopSlot) error {
	if t.failOn == "UpdateShopSlot" {
		return errDiskFull
	}
	return t.ShopTx.UpdateShopSlot(ctx, slot)
}

func (t faultyTx) SetInventoryQuantity(ctx context.Context, entry domain.InventoryEntry) error {
	if t.failOn == "SetInventoryQuantity" {
		return errDiskFull
	}
	return t.ShopTx.SetInventoryQuantity(ctx, entry)
}

func (t faultyTx) UpdateAccount(ctx context.Context, acct *domain.Account) error {
	if t.failOn == "UpdateAccount" {
		return errDiskFull
	}
	return t.ShopTx.UpdateAccount(ctx, acct)
}

func TestPurchase_WriteFailureAfterDebitRollsBack(t *testing.T) {
	for _, failOn := range []string{"UpdateShopSlot", "SetInventoryQuantity", "UpdateAccount"} {
		t.Run(failOn, func(t *testing.T) {
			h := newHarness(t)
			h.seed(t, 1000, 5)
			h.svc.repo = faultyShop{Store: h.store, failOn: failOn}

			_, err := h.svc.Purchase(context.Background(), testUser, testGuild, lootBox, 2, PurchaseOptions{})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrTransactionFailed)
			assert.ErrorIs(t, err, errDiskFull)

			assert.Equal(t, int64(1000), h.account(t).Coins)
			assert.Equal(t, 5, h.slot(t).Stock)
			assert.Zero(t, h.owned(t, lootBox))
		})
	}
}

func TestPurchase_SoldOutSlot(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 1000, 0)

	_, err := h.svc.Purchase(context.Background(), testUser, testGuild, lootBox, 1, PurchaseOptions{})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestPurchase_ExtraDiscount(t *testing.T) {
	tests := []struct {
		name  string
		extra float64
		want  int64
	}{
		{"quarter off", 25, 225},
		{"capped at free", 150, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.seed(t, 1000, 5)

			res, err := h.svc.Purchase(context.Background(), testUser, testGuild, lootBox, 3, PurchaseOptions{ExtraDiscountPercent: tt.extra})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.TotalCost)
			assert.Equal(t, 1000-tt.want, h.account(t).Coins)
			assert.Equal(t, 2, h.slot(t).Stock)
		})
	}
}

func TestPurchase_SimulateOnly(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 1000, 5)

	res, err := h.svc.Purchase(context.Background(), testUser, testGuild, lootBox, 2, PurchaseOptions{SimulateOnly: true})
	require.NoError(t, err)
	assert.True(t, res.Simulated)
	assert.Equal(t, int64(200), res.TotalCost)
	assert.Equal(t, 3, res.NewStock)

	assert.Equal(t, 5, h.slot(t).Stock)
	assert.Equal(t, int64(1000), h.account(t).Coins)
	assert.Zero(t, h.owned(t, lootBox))
}

func TestPurchase_CosmicTokenSyncsRole(t *testing.T) {
	h := newHarness(t)
	h.store.PutAccount(domain.Account{UserID: testUser, GuildID: testGuild, Coins: 100_000})
	h.store.PutShopSlots(testGuild, []domain.ShopSlot{{
		GuildID: testGuild, SlotID: 1, ItemID: "cosmic_role_token", CurrentPrice: 77_777, OriginalPrice: 77_777, Stock: 1,
	}})

	res, err := h.svc.Purchase(context.Background(), testUser, testGuild, "cosmic_role_token", 1, PurchaseOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Grant.SpecialRoleID)
	require.Len(t, h.roles, 1)
	assert.Equal(t, []string{res.Grant.SpecialRoleID}, h.roles[0].Added)
	assert.True(t, h.account(t).CosmicTokenDiscovered)
}

func TestApplyWeekendTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		h := newHarness(t)
		h.seed(t, 0, 150)

		slots, err := h.svc.ApplyWeekendTransition(ctx, testGuild, true)
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, 300, slots[0].Stock)
		assert.True(t, slots[0].IsWeekendSpecial)
		assert.Equal(t, int64(90), slots[0].CurrentPrice)

		slots, err = h.svc.ApplyWeekendTransition(ctx, testGuild, false)
		require.NoError(t, err)
		assert.Equal(t, 150, slots[0].Stock)
		assert.False(t, slots[0].IsWeekendSpecial)
		assert.Equal(t, int64(100), slots[0].CurrentPrice)
		assert.Equal(t, 150, h.slot(t).Stock)
	})

	t.Run("sold out weekend slot is refilled to minimum stock", func(t *testing.T) {
		h := newHarness(t)
		h.seed(t, 0, 0)

		slots, err := h.svc.ApplyWeekendTransition(ctx, testGuild, true)
		require.NoError(t, err)
		assert.Zero(t, slots[0].Stock)
		assert.True(t, slots[0].IsWeekendSpecial)

		slots, err = h.svc.ApplyWeekendTransition(ctx, testGuild, false)
		require.NoError(t, err)
		assert.Equal(t, 100, slots[0].Stock, "common loot box stock_min")
		assert.Equal(t, 100, h.slot(t).Stock)
	})

	t.Run("scale down floors at minimum stock", func(t *testing.T) {
		h := newHarness(t)
		h.store.PutShopSlots(testGuild, []domain.ShopSlot{{
			GuildID: testGuild, SlotID: 1, ItemID: lootBox, CurrentPrice: 90, OriginalPrice: 100, Stock: 60, IsWeekendSpecial: true,
		}})

		slots, err := h.svc.ApplyWeekendTransition(ctx, testGuild, false)
		require.NoError(t, err)
		assert.Equal(t, 100, slots[0].Stock)
	})
}
