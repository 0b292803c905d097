package worker

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
)

// Saturday 00:00 to Monday 00:00 at UTC+7
var testWindow = gameconfig.WeekendWindow{StartWeekday: 6, StartHour: 0, EndWeekday: 1, EndHour: 0, UTCOffsetHours: 7}

func newTestWatcher() (*WeekendWatcher, *MockGuilds, *MockShop, *[]event.WeekendChangedPayloadV1) {
	guilds := new(MockGuilds)
	shop := new(MockShop)
	bus := event.NewMemoryBus()
	var published []event.WeekendChangedPayloadV1
	bus.Subscribe(event.WeekendChanged, func(_ context.Context, evt event.Event) error {
		published = append(published, evt.Payload.(event.WeekendChangedPayloadV1))
		return nil
	})
	return NewWeekendWatcher(testWindow, guilds, shop, bus), guilds, shop, &published
}

func TestWeekendWatcher_ApplyOnlyTransitionsChangedGuilds(t *testing.T) {
	ctx := context.Background()
	w, guilds, shop, published := newTestWatcher()

	guilds.On("List", mock.Anything).Return([]domain.GuildSettings{{GuildID: "a"}, {GuildID: "b"}}, nil)
	guilds.On("SetWeekend", mock.Anything, "a", true).Return(true, nil).Once()
	guilds.On("SetWeekend", mock.Anything, "b", true).Return(false, nil).Once()
	shop.On("ApplyWeekendTransition", mock.Anything, "a", true).Return([]domain.ShopSlot{}, nil).Once()

	changed, err := w.Apply(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Equal(t, []event.WeekendChangedPayloadV1{{GuildID: "a", Active: true}}, *published)

	guilds.AssertExpectations(t)
	shop.AssertExpectations(t)
}

func TestWeekendWatcher_ApplyJoinsGuildErrors(t *testing.T) {
	ctx := context.Background()
	w, guilds, shop, _ := newTestWatcher()

	guilds.On("List", mock.Anything).Return([]domain.GuildSettings{{GuildID: "a"}, {GuildID: "b"}}, nil)
	guilds.On("SetWeekend", mock.Anything, "a", false).Return(false, errors.New("db down")).Once()
	guilds.On("SetWeekend", mock.Anything, "b", false).Return(true, nil).Once()
	shop.On("ApplyWeekendTransition", mock.Anything, "b", false).Return(nil, errors.New("lock timeout")).Once()

	changed, err := w.Apply(ctx, false)
	require.Error(t, err)
	assert.Equal(t, 1, changed)
	assert.Contains(t, err.Error(), "guild a")
	assert.Contains(t, err.Error(), "guild b")
}

func TestWeekendWatcher_ReconcileFollowsWindow(t *testing.T) {
	loc := testWindow.Location()
	tests := []struct {
		name   string
		now    time.Time
		active bool
	}{
		{"friday evening", time.Date(2025, 3, 14, 23, 59, 0, 0, loc), false},
		{"saturday midnight", time.Date(2025, 3, 15, 0, 0, 0, 0, loc), true},
		{"sunday night", time.Date(2025, 3, 16, 23, 0, 0, 0, loc), true},
		{"monday midnight", time.Date(2025, 3, 17, 0, 0, 0, 0, loc), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, guilds, _, _ := newTestWatcher()
			w.now = func() time.Time { return tt.now }
			guilds.On("List", mock.Anything).Return([]domain.GuildSettings{{GuildID: "a"}}, nil)
			guilds.On("SetWeekend", mock.Anything, "a", tt.active).Return(false, nil).Once()

			_, err := w.Reconcile(context.Background())
			require.NoError(t, err)
			guilds.AssertExpectations(t)
		})
	}
}

func TestWeekendWatcher_StartSchedulesBoundaries(t *testing.T) {
	w, guilds, _, _ := newTestWatcher()
	w.now = func() time.Time { return time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC) }
	guilds.On("List", mock.Anything).Return([]domain.GuildSettings{}, nil)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.Len(t, w.cron.Entries(), 2)
}
