package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/repository"
	"github.com/osse101/EconomyBot_Go/internal/repository/memory"
)

var testNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

const (
	testUser  = "user-1"
	testGuild = "guild-1"
)

func newTestService(t *testing.T, weekend bool) (*service, *memory.Store, *event.MemoryBus) {
	t.Helper()
	cfg := gameconfig.MustDefault()
	store := memory.NewStore(cfg.Global.DefaultAlertRarityThreshold)
	bus := event.NewMemoryBus()
	svc := NewService(store, cfg, WeekendFunc(func(context.Context, string) bool { return weekend }), bus).(*service)
	svc.now = func() time.Time { return testNow }
	return svc, store, bus
}

func TestCappedAdd(t *testing.T) {
	tests := []struct {
		name                   string
		current, delta, cap    int64
		wantBalance, wantAdded int64
	}{
		{"fits", 100, 50, 1000, 150, 50},
		{"truncated at cap", 990, 50, 1000, 1000, 10},
		{"already at cap", 1000, 5, 1000, 1000, 0},
		{"above lowered cap is kept", 1200, 5, 1000, 1200, 0},
		{"debit", 100, -40, 1000, 60, -40},
		{"over-debit floors at zero", 30, -50, 1000, 0, -30},
		{"debit above lowered cap", 1200, -100, 1000, 1100, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bal, added := CappedAdd(tt.current, tt.delta, tt.cap)
			assert.Equal(t, tt.wantBalance, bal)
			assert.Equal(t, tt.wantAdded, added)
		})
	}
}

func TestApplyBoosts(t *testing.T) {
	tests := []struct {
		name       string
		amount     int64
		charm      float64
		multiplier float64
		want       int64
	}{
		{"no boosts", 100, 0, 1, 100},
		{"charm only", 100, 10, 1, 110},
		{"charm then weekend", 100, 10, 2, 220},
		{"charm bonus rounds half up", 5, 10, 1, 6},
		{"weekend rounds", 3, 0, 1.5, 5},
		{"negative untouched", -50, 10, 2, -50},
		{"zero multiplier ignored", 10, 0, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyBoosts(tt.amount, tt.charm, tt.multiplier))
		})
	}
}

func TestRequireFunds(t *testing.T) {
	acct := &domain.Account{Coins: 40}
	require.NoError(t, RequireFunds(acct, domain.CurrencyCoins, 40))

	err := RequireFunds(acct, domain.CurrencyCoins, 100)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	var ife *domain.InsufficientFundsError
	require.True(t, errors.As(err, &ife))
	assert.Equal(t, int64(60), ife.Shortfall())
}

func TestCredit_CharmThenWeekend(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, true)

	grant, err := svc.GiveItem(ctx, testUser, testGuild, "coin_charm", 1, domain.SourceLootBox)
	require.NoError(t, err)
	require.Len(t, grant.Charms, 1)

	res, err := svc.Credit(ctx, testUser, testGuild, domain.CurrencyCoins, 100, domain.SourceMessage)
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.Requested)
	assert.Equal(t, int64(220), res.Boosted)
	assert.Equal(t, int64(220), res.ActualAdded)
	assert.False(t, res.Truncated())

	acct, err := svc.GetAccount(ctx, testUser, testGuild)
	require.NoError(t, err)
	assert.Equal(t, int64(220), acct.Coins)
	assert.Equal(t, int64(220), acct.TotalCoinsEarned)
}

func TestCredit_AdminSourceSkipsWeekendAndTelemetry(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, true)

	res, err := svc.Credit(ctx, testUser, testGuild, domain.CurrencyCoins, 100, domain.SourceAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.ActualAdded)

	acct, _ := svc.GetAccount(ctx, testUser, testGuild)
	assert.Zero(t, acct.TotalCoinsEarned)
}

func TestCredit_RobuxIsNeverBoosted(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, true)

	res, err := svc.Credit(ctx, testUser, testGuild, domain.CurrencyRobux, 3, domain.SourceDailyReward)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.ActualAdded)
}

func TestCredit_TruncatedAtCap(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t, false)
	cap := svc.cfg.Global.CoinCap
	store.PutAccount(domain.Account{UserID: testUser, GuildID: testGuild, Coins: cap - 10})

	res, err := svc.Credit(ctx, testUser, testGuild, domain.CurrencyCoins, 100, domain.SourceMessage)
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.ActualAdded)
	assert.Equal(t, cap, res.NewBalance)
	assert.True(t, res.Truncated())

	acct, _ := svc.GetAccount(ctx, testUser, testGuild)
	assert.Equal(t, int64(10), acct.TotalCoinsEarned)
}

func TestCredit_VoiceCoinsTracked(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, false)

	_, err := svc.Credit(ctx, testUser, testGuild, domain.CurrencyCoins, 2, domain.SourceVoice)
	require.NoError(t, err)

	acct, _ := svc.GetAccount(ctx, testUser, testGuild)
	assert.Equal(t, int64(2), acct.TotalVoiceCoins)
}

func TestCredit_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, false)

	_, err := svc.Credit(ctx, testUser, testGuild, domain.CurrencyCoins, 0, domain.SourceMessage)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Credit(ctx, testUser, testGuild, domain.Currency("doubloons"), 5, domain.SourceMessage)
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)

	_, err = svc.Debit(ctx, testUser, testGuild, domain.CurrencyCoins, -5, domain.SourceAdmin)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDebit_ClampsAtZero(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t, true)
	store.PutAccount(domain.Account{UserID: testUser, GuildID: testGuild, Coins: 30, TotalCoinsEarned: 30})

	res, err := svc.Debit(ctx, testUser, testGuild, domain.CurrencyCoins, 50, domain.SourceAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(-30), res.ActualAdded)
	assert.Zero(t, res.NewBalance)

	acct, _ := svc.GetAccount(ctx, testUser, testGuild)
	assert.Equal(t, int64(30), acct.TotalCoinsEarned, "earned counters never decrease")
}

func TestGiveItem_CurrencyRoutesToWallet(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, false)

	res, err := svc.GiveItem(ctx, testUser, testGuild, "gems", 5, domain.SourceDailyReward)
	require.NoError(t, err)
	require.NotNil(t, res.Credit)
	assert.Equal(t, int64(5), res.Credit.ActualAdded)

	inv, err := svc.GetInventory(ctx, testUser, testGuild)
	require.NoError(t, err)
	assert.Empty(t, inv)
}

func TestGiveItem_CharmRouting(t *testing.T) {
	ctx := context.Background()

	t.Run("non-admin auto activates per unit", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)
		res, err := svc.GiveItem(ctx, testUser, testGuild, "xp_charm", 2, domain.SourceShopPurchase.With("xp_charm"))
		require.NoError(t, err)
		assert.Len(t, res.Charms, 2)

		charms, _ := svc.GetActiveCharms(ctx, testUser, testGuild)
		assert.Len(t, charms, 2)
		inv, _ := svc.GetInventory(ctx, testUser, testGuild)
		assert.Empty(t, inv)
	})

	t.Run("admin goes to inventory", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)
		res, err := svc.GiveItem(ctx, testUser, testGuild, "xp_charm", 2, domain.SourceAdminGive)
		require.NoError(t, err)
		assert.Empty(t, res.Charms)

		inv, _ := svc.GetInventory(ctx, testUser, testGuild)
		require.Len(t, inv, 1)
		assert.Equal(t, int64(2), inv[0].Quantity)
		assert.Equal(t, domain.ItemTypeCharm, inv[0].ItemType)
	})
}

func TestGiveItem_CosmicTokenRequestsRole(t *testing.T) {
	ctx := context.Background()
	svc, _, bus := newTestService(t, false)

	var synced []event.RoleSyncPayloadV1
	bus.Subscribe(event.RoleSync, func(ctx context.Context, evt event.Event) error {
		synced = append(synced, evt.Payload.(event.RoleSyncPayloadV1))
		return nil
	})

	res, err := svc.GiveItem(ctx, testUser, testGuild, "cosmic_role_token", 1, domain.SourceDirectDrop)
	require.NoError(t, err)
	assert.NotEmpty(t, res.SpecialRoleID)

	require.Len(t, synced, 1)
	assert.Equal(t, []string{res.SpecialRoleID}, synced[0].Added)

	acct, _ := svc.GetAccount(ctx, testUser, testGuild)
	assert.True(t, acct.CosmicTokenDiscovered)
}

func TestGiveItem_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, false)

	_, err := svc.GiveItem(ctx, testUser, testGuild, "rare_loot_box", 0, domain.SourceAdminGive)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.GiveItem(ctx, testUser, testGuild, "no_such_item", 1, domain.SourceAdminGive)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestTakeItem_InsufficientLeavesInventoryUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, false)

	_, err := svc.GiveItem(ctx, testUser, testGuild, "rare_loot_box", 2, domain.SourceAdminGive)
	require.NoError(t, err)

	err = svc.TakeItem(ctx, testUser, testGuild, "rare_loot_box", 3)
	require.ErrorIs(t, err, domain.ErrInsufficientItems)

	inv, _ := svc.GetInventory(ctx, testUser, testGuild)
	require.Len(t, inv, 1)
	assert.Equal(t, int64(2), inv[0].Quantity)

	require.NoError(t, svc.TakeItem(ctx, testUser, testGuild, "rare_loot_box", 2))
	inv, _ = svc.GetInventory(ctx, testUser, testGuild)
	assert.Empty(t, inv)
}

func TestTakeItem_CurrencyRejected(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	err := svc.TakeItem(context.Background(), testUser, testGuild, "coins", 1)
	assert.ErrorIs(t, err, domain.ErrCurrencyInInventory)
}

func TestUseItem(t *testing.T) {
	ctx := context.Background()

	t.Run("charm activates and is consumed", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)
		_, err := svc.GiveItem(ctx, testUser, testGuild, "gem_charm", 2, domain.SourceAdminGive)
		require.NoError(t, err)

		res, err := svc.UseItem(ctx, testUser, testGuild, "gem_charm")
		require.NoError(t, err)
		require.NotNil(t, res.Charm)
		assert.Equal(t, domain.CharmTypeGem, res.Charm.CharmType)
		assert.Equal(t, int64(1), res.Remaining)
	})

	t.Run("loot box must be opened", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)
		_, err := svc.UseItem(ctx, testUser, testGuild, "common_loot_box")
		assert.ErrorIs(t, err, domain.ErrItemNotUsable)
	})

	t.Run("missing item", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)
		_, err := svc.UseItem(ctx, testUser, testGuild, "discount_ticket_10")
		assert.ErrorIs(t, err, domain.ErrInsufficientItems)
	})
}

func TestSweepExpiredCharms(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, false)
	svc.cfg = svc.cfg.WithItems(&domain.CharmItem{
		ItemBase:  domain.ItemBase{ID: "hour_charm", Name: "Hour Charm", Type: domain.ItemTypeCharm},
		CharmType: domain.CharmTypeCoin,
		Boost:     50,
		Duration:  time.Hour,
	})

	charm, err := svc.ActivateCharm(ctx, testUser, testGuild, "hour_charm", domain.SourceAdminGive)
	require.NoError(t, err)
	require.NotNil(t, charm.ExpiresAt)

	n, err := svc.SweepExpiredCharms(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	svc.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	charms, _ := svc.GetActiveCharms(ctx, testUser, testGuild)
	assert.Empty(t, charms, "expired charms are ignored before the sweep runs")

	n, err = svc.SweepExpiredCharms(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestActivateCharm_RejectsNonCharm(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	_, err := svc.ActivateCharm(context.Background(), testUser, testGuild, "rare_loot_box", domain.SourceAdminGive)
	assert.ErrorIs(t, err, domain.ErrItemNotUsable)
}

func TestResetAccount(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, false)

	_, err := svc.Credit(ctx, testUser, testGuild, domain.CurrencyCoins, 500, domain.SourceAdmin)
	require.NoError(t, err)
	_, err = svc.GiveItem(ctx, testUser, testGuild, "coin_charm", 1, domain.SourceLootBox)
	require.NoError(t, err)

	require.NoError(t, svc.ResetAccount(ctx, testUser, testGuild))

	acct, err := svc.GetAccount(ctx, testUser, testGuild)
	require.NoError(t, err)
	assert.Zero(t, acct.Coins)
	charms, _ := svc.GetActiveCharms(ctx, testUser, testGuild)
	assert.Empty(t, charms)
}

func TestAlertSettings(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, false)

	require.NoError(t, svc.SetAlertThreshold(ctx, testUser, testGuild, 50))
	require.NoError(t, svc.SetItemAlertMuted(ctx, testUser, testGuild, "rare_loot_box", true))
	require.NoError(t, svc.SetItemAlertMuted(ctx, testUser, testGuild, "rare_loot_box", true))

	acct, _ := svc.GetAccount(ctx, testUser, testGuild)
	assert.Equal(t, int64(50), acct.AlertRarityThreshold)
	assert.Equal(t, []string{"rare_loot_box"}, acct.MutedAlertItems)

	require.NoError(t, svc.SetItemAlertMuted(ctx, testUser, testGuild, "rare_loot_box", false))
	acct, _ = svc.GetAccount(ctx, testUser, testGuild)
	assert.False(t, acct.IsAlertMuted("rare_loot_box"))

	assert.ErrorIs(t, svc.SetAlertThreshold(ctx, testUser, testGuild, -1), domain.ErrValidation)
}

func TestGetAccount_DefaultsForUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	acct, err := svc.GetAccount(context.Background(), "new-user", testGuild)
	require.NoError(t, err)
	assert.Equal(t, svc.cfg.Global.DefaultAlertRarityThreshold, acct.AlertRarityThreshold)
	assert.Zero(t, acct.Level)
}

func TestCredit_BeginTxFailure(t *testing.T) {
	repo := new(MockRepository)
	repo.On("BeginTx", mock.Anything).Return(nil, errors.New("pool exhausted"))

	svc := NewService(repo, gameconfig.MustDefault(), nil, nil)
	_, err := svc.Credit(context.Background(), testUser, testGuild, domain.CurrencyCoins, 10, domain.SourceMessage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	repo.AssertExpectations(t)
}

func TestGiveItem_CommitFailureIsTransactionFailure(t *testing.T) {
	ctx := context.Background()
	cfg := gameconfig.MustDefault()
	store := memory.NewStore(cfg.Global.DefaultAlertRarityThreshold)

	var repo repository.Ledger = commitFailStore{Store: store}
	svc := NewService(repo, cfg, nil, nil)

	_, err := svc.GiveItem(ctx, testUser, testGuild, "coins", 100, domain.SourceMessage)
	require.ErrorIs(t, err, domain.ErrTransactionFailed)
	assert.ErrorIs(t, err, errCommitFailed)

	_, err = store.GetAccount(ctx, testUser, testGuild)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound, "nothing persisted")
}
