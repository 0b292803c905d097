package guild

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// MockRepository implements repository.Guild for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetGuildSettings(ctx context.Context, guildID string) (*domain.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuildSettings), args.Error(1)
}

func (m *MockRepository) UpsertGuildSettings(ctx context.Context, settings *domain.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockRepository) ListGuildSettings(ctx context.Context) ([]domain.GuildSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GuildSettings), args.Error(1)
}
