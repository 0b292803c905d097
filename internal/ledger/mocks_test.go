package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/repository"
	"github.com/osse101/EconomyBot_Go/internal/repository/memory"
)

// MockRepository implements repository.Ledger for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetAccount(ctx context.Context, userID, guildID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockRepository) GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventoryEntry, error) {
	args := m.Called(ctx, userID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryEntry), args.Error(1)
}

func (m *MockRepository) GetActiveCharms(ctx context.Context, userID, guildID string, now time.Time) ([]domain.ActiveCharm, error) {
	args := m.Called(ctx, userID, guildID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActiveCharm), args.Error(1)
}

func (m *MockRepository) GetDailyRewards(ctx context.Context, userID, guildID string) ([]domain.DailyReward, error) {
	args := m.Called(ctx, userID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyReward), args.Error(1)
}

func (m *MockRepository) GetLeaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

func (m *MockRepository) ListInterestDue(ctx context.Context, cutoff time.Time) ([]domain.AccountKey, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountKey), args.Error(1)
}

func (m *MockRepository) ListLapsedStreaks(ctx context.Context, cutoff time.Time) ([]domain.AccountKey, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountKey), args.Error(1)
}

func (m *MockRepository) DeleteExpiredCharms(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.LedgerTx), args.Error(1)
}

var errCommitFailed = errors.New("connection reset")

// commitFailStore hands out transactions whose Commit fails after discarding
// every write.
type commitFailStore struct {
	*memory.Store
}

func (s commitFailStore) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	tx, err := s.Store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return commitFailTx{LedgerTx: tx}, nil
}

type commitFailTx struct {
	repository.LedgerTx
}

func (t commitFailTx) Commit(ctx context.Context) error {
	_ = t.LedgerTx.Rollback(ctx)
	return errCommitFailed
}
