package activity

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/EconomyBot_Go/internal/lootbox"
)

// MockDropper implements Dropper for testing
type MockDropper struct {
	mock.Mock
}

func (m *MockDropper) DirectDrop(ctx context.Context, userID, guildID string, channel lootbox.DropChannel) (*lootbox.DropResult, error) {
	args := m.Called(ctx, userID, guildID, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lootbox.DropResult), args.Error(1)
}
