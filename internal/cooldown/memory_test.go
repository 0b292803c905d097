package cooldown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

func newMemory(t *testing.T, devMode bool) (*memoryBackend, *time.Time) {
	t.Helper()
	clock := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	b := NewMemoryService(ForActivity(time.Minute, devMode), 16).(*memoryBackend)
	b.now = func() time.Time { return clock }
	return b, &clock
}

func TestMemory_EnforceCooldown(t *testing.T) {
	ctx := context.Background()
	b, clock := newMemory(t, false)
	calls := 0
	fn := func() error { calls++; return nil }

	require.NoError(t, b.EnforceCooldown(ctx, "u1", "g1", domain.ActionChatReward, fn))

	*clock = clock.Add(20 * time.Second)
	err := b.EnforceCooldown(ctx, "u1", "g1", domain.ActionChatReward, fn)
	var cd ErrOnCooldown
	require.ErrorAs(t, err, &cd)
	assert.Equal(t, 40*time.Second, cd.Remaining)

	require.NoError(t, b.EnforceCooldown(ctx, "u1", "g2", domain.ActionChatReward, fn), "guilds are independent")

	*clock = clock.Add(40 * time.Second)
	require.NoError(t, b.EnforceCooldown(ctx, "u1", "g1", domain.ActionChatReward, fn))
	assert.Equal(t, 3, calls)
}

func TestMemory_FailedActionKeepsWindowOpen(t *testing.T) {
	ctx := context.Background()
	b, _ := newMemory(t, false)
	boom := errors.New("boom")

	err := b.EnforceCooldown(ctx, "u1", "g1", domain.ActionChatReward, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	onCooldown, _, err := b.CheckCooldown(ctx, "u1", "g1", domain.ActionChatReward)
	require.NoError(t, err)
	assert.False(t, onCooldown)

	last, err := b.GetLastUsed(ctx, "u1", "g1", domain.ActionChatReward)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestMemory_ResetAndDevMode(t *testing.T) {
	ctx := context.Background()
	b, clock := newMemory(t, false)
	noop := func() error { return nil }

	require.NoError(t, b.EnforceCooldown(ctx, "u1", "g1", domain.ActionChatReward, noop))
	last, err := b.GetLastUsed(ctx, "u1", "g1", domain.ActionChatReward)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, *clock, *last)

	require.NoError(t, b.ResetCooldown(ctx, "u1", "g1", domain.ActionChatReward))
	require.NoError(t, b.EnforceCooldown(ctx, "u1", "g1", domain.ActionChatReward, noop))

	dev, _ := newMemory(t, true)
	require.NoError(t, dev.EnforceCooldown(ctx, "u1", "g1", domain.ActionChatReward, noop))
	require.NoError(t, dev.EnforceCooldown(ctx, "u1", "g1", domain.ActionChatReward, noop))
}
