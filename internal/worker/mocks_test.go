package worker

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// MockGuilds implements WeekendGuilds for testing
type MockGuilds struct {
	mock.Mock
}

func (m *MockGuilds) List(ctx context.Context) ([]domain.GuildSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GuildSettings), args.Error(1)
}

func (m *MockGuilds) SetWeekend(ctx context.Context, guildID string, active bool) (bool, error) {
	args := m.Called(ctx, guildID, active)
	return args.Bool(0), args.Error(1)
}

// MockShop implements WeekendShop for testing
type MockShop struct {
	mock.Mock
}

func (m *MockShop) ApplyWeekendTransition(ctx context.Context, guildID string, isWeekend bool) ([]domain.ShopSlot, error) {
	args := m.Called(ctx, guildID, isWeekend)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShopSlot), args.Error(1)
}
