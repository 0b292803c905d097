package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/EconomyBot_Go/internal/config"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/worker"
)

type scheduledJob struct {
	interval time.Duration
	runNow   bool
}

type recordingScheduler map[string]scheduledJob

func (r recordingScheduler) Schedule(_ context.Context, interval time.Duration, job worker.Job, runNow bool) {
	r[job.(worker.Named).Name()] = scheduledJob{interval: interval, runNow: runNow}
}

type countingBoard struct{ calls int }

func (b *countingBoard) Refresh(context.Context) (int, error) {
	b.calls++
	return 2, nil
}

func testConfig() *config.Config {
	return &config.Config{
		InterestInterval:     time.Hour,
		RestockSweepInterval: time.Minute,
		StreakSweepInterval:  2 * time.Hour,
		CharmSweepInterval:   5 * time.Minute,
		VoiceTickInterval:    30 * time.Second,
		LeaderboardInterval:  15 * time.Minute,
	}
}

func TestJobs_LeaderboardOnlyWithBoard(t *testing.T) {
	assert.Len(t, Jobs(&Services{}, nil), 5)

	board := &countingBoard{}
	jobs := Jobs(&Services{}, board)
	require.Len(t, jobs, 6)

	require.NoError(t, jobs[JobLeaderboardBoard].Process(context.Background()))
	assert.Equal(t, 1, board.calls)
}

func TestScheduleJobs_UsesConfiguredIntervals(t *testing.T) {
	sched := recordingScheduler{}
	ScheduleJobs(context.Background(), sched, testConfig(), Jobs(&Services{}, &countingBoard{}))

	require.Len(t, sched, 6)
	assert.Equal(t, scheduledJob{interval: time.Hour, runNow: true}, sched[JobBankInterest])
	assert.Equal(t, scheduledJob{interval: time.Minute, runNow: true}, sched[JobShopRestock])
	assert.Equal(t, scheduledJob{interval: 2 * time.Hour, runNow: true}, sched[JobStreakSweep])
	assert.Equal(t, scheduledJob{interval: 5 * time.Minute, runNow: true}, sched[JobCharmSweep])
	assert.Equal(t, scheduledJob{interval: 30 * time.Second, runNow: false}, sched[JobVoiceTick])
	assert.Equal(t, scheduledJob{interval: 15 * time.Minute, runNow: true}, sched[JobLeaderboardBoard])
}

func TestInitializeCooldowns_FallsBackToMemory(t *testing.T) {
	cfg := testConfig()
	svc, closeFn, err := InitializeCooldowns(context.Background(), cfg, gameconfig.MustDefault(), nil)

	require.NoError(t, err)
	assert.NotNil(t, svc)
	assert.Nil(t, closeFn)
}

func TestInitializeEventSystem_CreatesDeadLetterDir(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{EventDeadLetterPath: filepath.Join(dir, "events", "dead.jsonl")}

	bus, publisher, err := InitializeEventSystem(cfg)

	require.NoError(t, err)
	require.NotNil(t, bus)
	t.Cleanup(func() { _ = publisher.Shutdown(context.Background()) })
	assert.DirExists(t, filepath.Join(dir, "events"))
}

func TestSetupLogger_WritesSessionFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	closer, err := SetupLogger(&config.Config{LogDir: dir, LogLevel: "info", LogFormat: "text", Environment: "test"})
	require.NoError(t, err)
	slog.Info("hello from the test")
	require.NoError(t, closer.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the test")
}

func TestSetupLogger_NoDirIsStdoutOnly(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	closer, err := SetupLogger(&config.Config{LogLevel: "debug", LogFormat: "json"})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
}

func TestCleanupLogs_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 5; i++ {
		name := fmt.Sprintf(LogFileNamePattern, fmt.Sprintf("2025-01-0%d_00-00-00", i))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o600))

	cleanupLogs(dir, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"notes.txt",
		"session_2025-01-04_00-00-00.log",
		"session_2025-01-05_00-00-00.log",
	}, names)
}
