package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var got LevelUpPayloadV1

	bus.Subscribe(LevelUp, func(ctx context.Context, evt Event) error {
		payload, err := DecodePayload[LevelUpPayloadV1](evt.Payload)
		require.NoError(t, err)
		got = payload
		return nil
	})

	err := bus.Publish(context.Background(), NewLevelUpEvent("u1", "g1", 4, 6))
	require.NoError(t, err)
	assert.Equal(t, LevelUpPayloadV1{UserID: "u1", GuildID: "g1", FromLevel: 4, ToLevel: 6}, got)
}

func TestMemoryBus_UnsubscribedTypeIsNoop(t *testing.T) {
	bus := NewMemoryBus()
	assert.NoError(t, bus.Publish(context.Background(), NewWeekendChangedEvent("g1", true)))
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	count := 0

	handler := func(ctx context.Context, evt Event) error {
		count++
		return nil
	}
	bus.Subscribe(RoleSync, handler)
	bus.Subscribe(RoleSync, handler)

	require.NoError(t, bus.Publish(context.Background(), NewRoleSyncEvent("u1", "g1", []string{"r1"}, nil, "level")))
	assert.Equal(t, 2, count)
}

func TestMemoryBus_PublishErrorStillRunsOtherHandlers(t *testing.T) {
	bus := NewMemoryBus()
	ran := false

	bus.Subscribe(ShopRestocked, func(ctx context.Context, evt Event) error {
		return errors.New("handler error")
	})
	bus.Subscribe(ShopRestocked, func(ctx context.Context, evt Event) error {
		ran = true
		return nil
	})

	err := bus.Publish(context.Background(), NewShopRestockedEvent(ShopRestockedPayloadV1{GuildID: "g1"}))
	assert.Error(t, err)
	assert.True(t, ran)
}

func TestNewDropEvent_CarriesSourceMetadata(t *testing.T) {
	evt := NewDropEvent(DropPayloadV1{UserID: "u1", ItemID: "rare_loot_box", Source: domain.SourceMessage})
	assert.Equal(t, string(domain.SourceMessage), evt.GetMetadataValue(MetadataKeySource))
	assert.Nil(t, NewLevelUpEvent("u", "g", 1, 2).GetMetadataValue(MetadataKeySource))
}

func TestDecodePayload_FromMap(t *testing.T) {
	raw := map[string]interface{}{"user_id": "u1", "guild_id": "g1", "currency": "coins", "amount": 12, "new_balance": 112}
	payload, err := DecodePayload[InterestCreditedPayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyCoins, payload.Currency)
	assert.Equal(t, int64(12), payload.Amount)
}
