package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/EconomyBot_Go/internal/cooldown"
	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/ledger"
	"github.com/osse101/EconomyBot_Go/internal/lootbox"
	"github.com/osse101/EconomyBot_Go/internal/progression"
	"github.com/osse101/EconomyBot_Go/internal/repository/memory"
)

var testNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

const (
	testUser  = "user-1"
	testGuild = "guild-1"
)

type harness struct {
	svc   *service
	store *memory.Store
	drops *MockDropper
	clock time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := gameconfig.MustDefault()
	store := memory.NewStore(cfg.Global.DefaultAlertRarityThreshold)
	bus := event.NewMemoryBus()
	ledgerSvc := ledger.NewService(store, cfg, nil, bus)
	progressionSvc := progression.NewService(store, cfg, nil, bus)
	cooldowns := cooldown.NewMemoryService(cooldown.ForActivity(cfg.Global.XPCooldown(), false), 0)

	h := &harness{store: store, drops: new(MockDropper), clock: testNow}
	h.svc = NewService(cfg, cooldowns, progressionSvc, ledgerSvc, h.drops, nil).(*service)
	h.svc.now = func() time.Time { return h.clock }
	// 0.999 rolls the top of every coin range
	h.svc.rnd = func() float64 { return 0.999 }
	return h
}

func (h *harness) account(t *testing.T, userID string) *domain.Account {
	t.Helper()
	acct, err := h.store.GetAccount(context.Background(), userID, testGuild)
	require.NoError(t, err)
	return acct
}

func TestHandleMessage_RewardsThenCoolsDown(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.drops.On("DirectDrop", mock.Anything, testUser, testGuild, lootbox.ChannelChat).
		Return(&lootbox.DropResult{}, nil).Once()

	res, err := h.svc.HandleMessage(ctx, testUser, testGuild)
	require.NoError(t, err)
	assert.False(t, res.OnCooldown)
	require.NotNil(t, res.Reward)
	assert.Equal(t, int64(10), res.Reward.Coins.ActualAdded)
	assert.Equal(t, int64(15), res.Reward.XP.XPEarned)

	acct := h.account(t, testUser)
	assert.Equal(t, int64(10), acct.Coins)
	assert.Equal(t, int64(15), acct.XP)

	res, err = h.svc.HandleMessage(ctx, testUser, testGuild)
	require.NoError(t, err)
	assert.True(t, res.OnCooldown)
	assert.Positive(t, res.Remaining)
	assert.Equal(t, int64(10), h.account(t, testUser).Coins)

	h.drops.AssertExpectations(t)
}

func TestHandleMessage_DropFailureAfterCreditStampsCooldown(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.drops.On("DirectDrop", mock.Anything, testUser, testGuild, lootbox.ChannelChat).
		Return(nil, errors.New("boom")).Once()

	res, err := h.svc.HandleMessage(ctx, testUser, testGuild)
	require.NoError(t, err)
	require.NotNil(t, res.Reward)
	assert.Nil(t, res.Reward.Drop)
	assert.Equal(t, int64(10), h.account(t, testUser).Coins)

	res, err = h.svc.HandleMessage(ctx, testUser, testGuild)
	require.NoError(t, err)
	assert.True(t, res.OnCooldown)
	assert.Equal(t, int64(10), h.account(t, testUser).Coins, "coins are credited once")
	h.drops.AssertExpectations(t)
}

func TestVoiceTick_PartialRewardMarksSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.drops.On("DirectDrop", mock.Anything, "talker", testGuild, lootbox.ChannelVoice).
		Return(nil, errors.New("boom")).Once()

	h.svc.HandleVoiceState(ctx, VoiceState{UserID: "talker", GuildID: testGuild, ChannelID: "vc"})
	h.clock = testNow.Add(5 * time.Minute)

	rewards, err := h.svc.VoiceTick(ctx)
	require.Error(t, err)
	require.Len(t, rewards, 1)
	assert.Equal(t, int64(2), h.account(t, "talker").Coins)

	rewards, err = h.svc.VoiceTick(ctx)
	require.NoError(t, err)
	assert.Empty(t, rewards)
	assert.Equal(t, int64(2), h.account(t, "talker").Coins, "no second credit within the interval")
	h.drops.AssertExpectations(t)
}

func TestVoiceTick(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.drops.On("DirectDrop", mock.Anything, mock.Anything, testGuild, lootbox.ChannelVoice).
		Return(&lootbox.DropResult{}, nil)

	h.svc.HandleVoiceState(ctx, VoiceState{UserID: "talker", GuildID: testGuild, ChannelID: "vc"})
	h.svc.HandleVoiceState(ctx, VoiceState{UserID: "muted", GuildID: testGuild, ChannelID: "vc", Muted: true})
	h.svc.HandleVoiceState(ctx, VoiceState{UserID: "bot", GuildID: testGuild, ChannelID: "vc", Bot: true})
	assert.Equal(t, 1, h.svc.sessions.Len())

	h.clock = testNow.Add(4 * time.Minute)
	rewards, err := h.svc.VoiceTick(ctx)
	require.NoError(t, err)
	assert.Empty(t, rewards)

	h.clock = testNow.Add(5 * time.Minute)
	rewards, err = h.svc.VoiceTick(ctx)
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	assert.Equal(t, "talker", rewards[0].UserID)

	acct := h.account(t, "talker")
	assert.Equal(t, int64(2), acct.Coins)
	assert.Equal(t, int64(2), acct.TotalVoiceCoins)
	assert.Equal(t, int64(5), acct.XP)

	rewards, err = h.svc.VoiceTick(ctx)
	require.NoError(t, err)
	assert.Empty(t, rewards, "rewarded sessions wait a full interval")
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()

	assert.Equal(t, 1, r.Update(VoiceState{UserID: "a", GuildID: "g", ChannelID: "vc"}, testNow))
	assert.Zero(t, r.Update(VoiceState{UserID: "a", GuildID: "g", ChannelID: "other"}, testNow.Add(time.Minute)))
	assert.Equal(t, 1, r.Update(VoiceState{UserID: "b", GuildID: "g", ChannelID: "vc"}, testNow.Add(2*time.Minute)))

	due := r.Due(testNow.Add(5*time.Minute), 5*time.Minute)
	require.Len(t, due, 1)
	assert.Equal(t, "a", due[0].UserID, "switching channels keeps the session")

	assert.Equal(t, -1, r.Update(VoiceState{UserID: "a", GuildID: "g", ChannelID: "vc", Deafened: true}, testNow.Add(6*time.Minute)))
	assert.Equal(t, 1, r.Update(VoiceState{UserID: "a", GuildID: "g", ChannelID: "vc"}, testNow.Add(7*time.Minute)))
	assert.Empty(t, r.Due(testNow.Add(8*time.Minute), 5*time.Minute), "unmuting starts a fresh interval")

	r.MarkRewarded("ghost", "g", testNow)
	assert.Equal(t, 2, r.Len())
}
