package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/EconomyBot_Go/internal/bank"
	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/guild"
	"github.com/osse101/EconomyBot_Go/internal/ledger"
	"github.com/osse101/EconomyBot_Go/internal/lootbox"
	"github.com/osse101/EconomyBot_Go/internal/progression"
	"github.com/osse101/EconomyBot_Go/internal/shop"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, userID, guildID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, guildID)
	acct, _ := args.Get(0).(*domain.Account)
	return acct, args.Error(1)
}

func (m *MockAccountService) GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventoryEntry, error) {
	args := m.Called(ctx, userID, guildID)
	inv, _ := args.Get(0).([]domain.InventoryEntry)
	return inv, args.Error(1)
}

func (m *MockAccountService) GetActiveCharms(ctx context.Context, userID, guildID string) ([]domain.ActiveCharm, error) {
	args := m.Called(ctx, userID, guildID)
	charms, _ := args.Get(0).([]domain.ActiveCharm)
	return charms, args.Error(1)
}

func (m *MockAccountService) SetAlertThreshold(ctx context.Context, userID, guildID string, threshold int64) error {
	return m.Called(ctx, userID, guildID, threshold).Error(0)
}

func (m *MockAccountService) SetItemAlertMuted(ctx context.Context, userID, guildID, itemID string, muted bool) error {
	return m.Called(ctx, userID, guildID, itemID, muted).Error(0)
}

func (m *MockAccountService) ResetAccount(ctx context.Context, userID, guildID string) error {
	return m.Called(ctx, userID, guildID).Error(0)
}

func (m *MockAccountService) Credit(ctx context.Context, userID, guildID string, c domain.Currency, amount int64, source domain.Source) (*ledger.CreditResult, error) {
	args := m.Called(ctx, userID, guildID, c, amount, source)
	res, _ := args.Get(0).(*ledger.CreditResult)
	return res, args.Error(1)
}

func (m *MockAccountService) Debit(ctx context.Context, userID, guildID string, c domain.Currency, amount int64, source domain.Source) (*ledger.CreditResult, error) {
	args := m.Called(ctx, userID, guildID, c, amount, source)
	res, _ := args.Get(0).(*ledger.CreditResult)
	return res, args.Error(1)
}

func (m *MockAccountService) GiveItem(ctx context.Context, userID, guildID, itemID string, qty int64, source domain.Source) (*ledger.GrantResult, error) {
	args := m.Called(ctx, userID, guildID, itemID, qty, source)
	res, _ := args.Get(0).(*ledger.GrantResult)
	return res, args.Error(1)
}

func (m *MockAccountService) TakeItem(ctx context.Context, userID, guildID, itemID string, qty int64) error {
	return m.Called(ctx, userID, guildID, itemID, qty).Error(0)
}

func (m *MockAccountService) UseItem(ctx context.Context, userID, guildID, itemID string) (*ledger.UseResult, error) {
	args := m.Called(ctx, userID, guildID, itemID)
	res, _ := args.Get(0).(*ledger.UseResult)
	return res, args.Error(1)
}

type MockLootBoxOpener struct {
	mock.Mock
}

func (m *MockLootBoxOpener) OpenLootBoxes(ctx context.Context, userID, guildID, boxID string, count int) (*lootbox.OpenResult, error) {
	args := m.Called(ctx, userID, guildID, boxID, count)
	res, _ := args.Get(0).(*lootbox.OpenResult)
	return res, args.Error(1)
}

type MockBankService struct {
	mock.Mock
}

func (m *MockBankService) Deposit(ctx context.Context, userID, guildID string, c domain.Currency, amount int64) (*bank.TransferResult, error) {
	args := m.Called(ctx, userID, guildID, c, amount)
	res, _ := args.Get(0).(*bank.TransferResult)
	return res, args.Error(1)
}

func (m *MockBankService) Withdraw(ctx context.Context, userID, guildID string, c domain.Currency, amount int64) (*bank.TransferResult, error) {
	args := m.Called(ctx, userID, guildID, c, amount)
	res, _ := args.Get(0).(*bank.TransferResult)
	return res, args.Error(1)
}

func (m *MockBankService) UpgradeTier(ctx context.Context, userID, guildID string) (*bank.UpgradeResult, error) {
	args := m.Called(ctx, userID, guildID)
	res, _ := args.Get(0).(*bank.UpgradeResult)
	return res, args.Error(1)
}

func (m *MockBankService) GetBank(ctx context.Context, userID, guildID string) (*bank.Info, error) {
	args := m.Called(ctx, userID, guildID)
	res, _ := args.Get(0).(*bank.Info)
	return res, args.Error(1)
}

type MockShopService struct {
	mock.Mock
}

func (m *MockShopService) Slots(ctx context.Context, guildID string) ([]domain.ShopSlot, error) {
	args := m.Called(ctx, guildID)
	slots, _ := args.Get(0).([]domain.ShopSlot)
	return slots, args.Error(1)
}

func (m *MockShopService) Restock(ctx context.Context, guildID string, forced bool) (*shop.RestockResult, error) {
	args := m.Called(ctx, guildID, forced)
	res, _ := args.Get(0).(*shop.RestockResult)
	return res, args.Error(1)
}

func (m *MockShopService) Purchase(ctx context.Context, userID, guildID, itemID string, qty int, opts shop.PurchaseOptions) (*shop.PurchaseResult, error) {
	args := m.Called(ctx, userID, guildID, itemID, qty, opts)
	res, _ := args.Get(0).(*shop.PurchaseResult)
	return res, args.Error(1)
}

type MockProgressionService struct {
	mock.Mock
}

func (m *MockProgressionService) AddXP(ctx context.Context, userID, guildID string, raw int64, passiveOrManual bool) (*progression.XPResult, error) {
	args := m.Called(ctx, userID, guildID, raw, passiveOrManual)
	res, _ := args.Get(0).(*progression.XPResult)
	return res, args.Error(1)
}

func (m *MockProgressionService) SetLevel(ctx context.Context, userID, guildID string, level int) (*progression.XPResult, error) {
	args := m.Called(ctx, userID, guildID, level)
	res, _ := args.Get(0).(*progression.XPResult)
	return res, args.Error(1)
}

func (m *MockProgressionService) AddLevels(ctx context.Context, userID, guildID string, delta int) (*progression.XPResult, error) {
	args := m.Called(ctx, userID, guildID, delta)
	res, _ := args.Get(0).(*progression.XPResult)
	return res, args.Error(1)
}

func (m *MockProgressionService) Leaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, guildID, limit)
	res, _ := args.Get(0).([]domain.LeaderboardEntry)
	return res, args.Error(1)
}

func (m *MockProgressionService) GetProgress(ctx context.Context, userID, guildID string) (*progression.Progress, error) {
	args := m.Called(ctx, userID, guildID)
	res, _ := args.Get(0).(*progression.Progress)
	return res, args.Error(1)
}

type MockGuildSettings struct {
	mock.Mock
}

func (m *MockGuildSettings) Get(ctx context.Context, guildID string) (*domain.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	res, _ := args.Get(0).(*domain.GuildSettings)
	return res, args.Error(1)
}

func (m *MockGuildSettings) Update(ctx context.Context, guildID string, u guild.Update) (*domain.GuildSettings, error) {
	args := m.Called(ctx, guildID, u)
	res, _ := args.Get(0).(*domain.GuildSettings)
	return res, args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubGateway bool

func (g stubGateway) Connected() bool { return bool(g) }
