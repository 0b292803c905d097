package notify

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/EconomyBot_Go/internal/event"
)

// MockNotifier implements Notifier for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyLevelUp(ctx context.Context, p event.LevelUpPayloadV1) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockNotifier) NotifyRoleSync(ctx context.Context, p event.RoleSyncPayloadV1) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockNotifier) NotifyDrop(ctx context.Context, p event.DropPayloadV1) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockNotifier) NotifyShopRestock(ctx context.Context, p event.ShopRestockedPayloadV1) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockNotifier) NotifyInterestCredited(ctx context.Context, p event.InterestCreditedPayloadV1) error {
	return m.Called(ctx, p).Error(0)
}
