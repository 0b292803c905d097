package bank

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/repository/memory"
)

var testNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

const (
	testUser  = "user-1"
	testGuild = "guild-1"
)

func newTestService(t *testing.T) (*service, *memory.Store, *[]event.InterestCreditedPayloadV1) {
	t.Helper()
	cfg := gameconfig.MustDefault()
	store := memory.NewStore(cfg.Global.DefaultAlertRarityThreshold)
	bus := event.NewMemoryBus()

	var credited []event.InterestCreditedPayloadV1
	bus.Subscribe(event.InterestCredited, func(ctx context.Context, evt event.Event) error {
		credited = append(credited, evt.Payload.(event.InterestCreditedPayloadV1))
		return nil
	})

	svc := NewService(store, cfg, bus).(*service)
	svc.now = func() time.Time { return testNow }
	return svc, store, &credited
}

func getAccount(t *testing.T, store *memory.Store, userID string) *domain.Account {
	t.Helper()
	acct, err := store.GetAccount(context.Background(), userID, testGuild)
	require.NoError(t, err)
	return acct
}

func TestInterest(t *testing.T) {
	tests := []struct {
		balance int64
		rate    float64
		want    int64
	}{
		{10_000, 1, 100},
		{199, 1, 1},
		{50, 1.5, 0},
		{333, 3, 9},
		{0, 10, 0},
		{10_000, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Interest(tt.balance, tt.rate), "balance %d rate %v", tt.balance, tt.rate)
	}
}

func TestDeposit_TruncatesAtBankCap(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	store.PutAccount(domain.Account{UserID: testUser, GuildID: testGuild, Coins: 15_000})

	res, err := svc.Deposit(ctx, testUser, testGuild, domain.CurrencyCoins, 15_000)
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), res.AmountMoved)
	assert.True(t, res.Truncated())
	assert.Equal(t, int64(5_000), res.Shortfall())

	acct := getAccount(t, store, testUser)
	assert.Equal(t, int64(5_000), acct.Coins)
	assert.Equal(t, int64(10_000), acct.BankCoins)

	_, err = svc.Deposit(ctx, testUser, testGuild, domain.CurrencyCoins, 1)
	assert.ErrorIs(t, err, domain.ErrDestinationFull)
	assert.Equal(t, int64(5_000), getAccount(t, store, testUser).Coins)
}

func TestDeposit_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	store.PutAccount(domain.Account{UserID: testUser, GuildID: testGuild, Coins: 100, Robux: 5})

	_, err := svc.Deposit(ctx, testUser, testGuild, domain.CurrencyCoins, 101)
	var funds *domain.InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	assert.Equal(t, int64(1), funds.Shortfall())

	_, err = svc.Deposit(ctx, testUser, testGuild, domain.CurrencyCoins, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Deposit(ctx, testUser, testGuild, domain.CurrencyRobux, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	acct := getAccount(t, store, testUser)
	assert.Equal(t, int64(100), acct.Coins)
	assert.Zero(t, acct.BankCoins)
}

func TestDepositWithdraw_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	store.PutAccount(domain.Account{UserID: testUser, GuildID: testGuild, Coins: 5_000, Gems: 40, BankGems: 10})

	_, err := svc.Deposit(ctx, testUser, testGuild, domain.CurrencyGems, 30)
	require.NoError(t, err)
	res, err := svc.Withdraw(ctx, testUser, testGuild, domain.CurrencyGems, 30)
	require.NoError(t, err)
	assert.False(t, res.Truncated())

	acct := getAccount(t, store, testUser)
	assert.Equal(t, int64(40), acct.Gems)
	assert.Equal(t, int64(10), acct.BankGems)
	assert.Zero(t, acct.TotalGemsEarned, "bank moves are not earnings")
}

func TestWithdraw_TruncatesAtWalletCap(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	store.PutAccount(domain.Account{UserID: testUser, GuildID: testGuild, Gems: 99_990, BankGems: 50})

	res, err := svc.Withdraw(ctx, testUser, testGuild, domain.CurrencyGems, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.AmountMoved)
	assert.Equal(t, int64(100_000), res.WalletBalance)
	assert.Equal(t, int64(40), res.BankBalance)

	_, err = svc.Withdraw(ctx, testUser, testGuild, domain.CurrencyGems, 10)
	assert.ErrorIs(t, err, domain.ErrDestinationFull)

	_, err = svc.Withdraw(ctx, testUser, testGuild, domain.CurrencyGems, 41)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestUpgradeTier(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	store.PutAccount(domain.Account{UserID: testUser, GuildID: testGuild, Coins: 1_000_000, BankCoins: 9_000})

	res, err := svc.UpgradeTier(ctx, testUser, testGuild)
	require.NoError(t, err)
	assert.Equal(t, 0, res.FromTier)
	assert.Equal(t, 1, res.ToTier)
	assert.Equal(t, int64(8_000), res.CostCoins)

	acct := getAccount(t, store, testUser)
	assert.Equal(t, 1, acct.BankTier)
	assert.Equal(t, int64(1_000), acct.BankCoins)
	assert.Equal(t, int64(1_000_000), acct.Coins, "upgrades are paid from the bank")

	_, err = svc.UpgradeTier(ctx, testUser, testGuild)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, 1, getAccount(t, store, testUser).BankTier)

	store.PutAccount(domain.Account{UserID: "maxed", GuildID: testGuild, BankTier: 10, BankCoins: 5_000_000})
	_, err = svc.UpgradeTier(ctx, "maxed", testGuild)
	assert.ErrorIs(t, err, domain.ErrMaxBankTier)
}

func TestGetBank(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	info, err := svc.GetBank(ctx, testUser, testGuild)
	require.NoError(t, err)
	assert.Equal(t, 0, info.Tier.Tier)
	require.NotNil(t, info.Next)
	assert.Equal(t, 1, info.Next.Tier)

	store.PutAccount(domain.Account{UserID: testUser, GuildID: testGuild, BankTier: 10, BankGems: 7})
	info, err = svc.GetBank(ctx, testUser, testGuild)
	require.NoError(t, err)
	assert.Nil(t, info.Next)
	assert.Equal(t, int64(7), info.BankGems)
}

func TestApplyInterest_OncePerWindow(t *testing.T) {
	ctx := context.Background()
	svc, store, credited := newTestService(t)
	store.PutAccount(domain.Account{UserID: "saver", GuildID: testGuild, BankTier: 2, BankCoins: 10_000, BankGems: 100})
	store.PutAccount(domain.Account{UserID: "empty", GuildID: testGuild})
	store.PutAccount(domain.Account{UserID: "capped", GuildID: testGuild, BankTier: 1, BankCoins: 10_000, Coins: 100_000_000 - 50})

	run, err := svc.ApplyInterest(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, run.Accounts)
	assert.Equal(t, int64(250), run.Coins)
	assert.Equal(t, int64(2), run.Gems)

	saver := getAccount(t, store, "saver")
	assert.Equal(t, int64(200), saver.Coins)
	assert.Equal(t, int64(2), saver.Gems)
	assert.Equal(t, int64(10_000), saver.BankCoins, "interest lands in the wallet")
	assert.Equal(t, testNow, saver.LastInterestAt)

	assert.Equal(t, testNow, getAccount(t, store, "empty").LastInterestAt, "zero interest still stamps the window")
	assert.Equal(t, int64(100_000_000), getAccount(t, store, "capped").Coins)
	assert.Len(t, *credited, 3)

	run, err = svc.ApplyInterest(ctx, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, run.Accounts)
	assert.Equal(t, int64(200), getAccount(t, store, "saver").Coins)

	run, err = svc.ApplyInterest(ctx, testNow.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, run.Accounts)
	assert.Equal(t, int64(400), getAccount(t, store, "saver").Coins)
}
