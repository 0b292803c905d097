package bootstrap

import (
	"context"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/config"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/worker"
)

// Scheduler is the part of *scheduler.Scheduler the jobs need.
type Scheduler interface {
	Schedule(ctx context.Context, interval time.Duration, job worker.Job, runNow bool)
}

// LeaderboardRefresher posts the per-guild leaderboard.
type LeaderboardRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Jobs builds the recurring maintenance jobs for svc. Every job is
// idempotent, so the first run happens at start-up.
func Jobs(svc *Services, board LeaderboardRefresher) map[string]worker.Func {
	jobs := map[string]worker.Func{
		JobBankInterest: {JobName: JobBankInterest, Fn: func(ctx context.Context) error {
			run, err := svc.Bank.ApplyInterest(ctx, time.Now())
			if run != nil {
				logger.FromContext(ctx).Debug(LogMsgJobResult, "job", JobBankInterest, "accounts", run.Accounts, "coins", run.Coins, "gems", run.Gems)
			}
			return err
		}},
		JobShopRestock: {JobName: JobShopRestock, Fn: func(ctx context.Context) error {
			n, err := svc.Shop.RestockDue(ctx)
			logger.FromContext(ctx).Debug(LogMsgJobResult, "job", JobShopRestock, "guilds", n)
			return err
		}},
		JobStreakSweep: {JobName: JobStreakSweep, Fn: func(ctx context.Context) error {
			n, err := svc.Daily.SweepLapsedStreaks(ctx)
			logger.FromContext(ctx).Debug(LogMsgJobResult, "job", JobStreakSweep, "reset", n)
			return err
		}},
		JobCharmSweep: {JobName: JobCharmSweep, Fn: func(ctx context.Context) error {
			n, err := svc.Ledger.SweepExpiredCharms(ctx)
			logger.FromContext(ctx).Debug(LogMsgJobResult, "job", JobCharmSweep, "deleted", n)
			return err
		}},
		JobVoiceTick: {JobName: JobVoiceTick, Fn: func(ctx context.Context) error {
			_, err := svc.Activity.VoiceTick(ctx)
			return err
		}},
	}
	if board != nil {
		jobs[JobLeaderboardBoard] = worker.Func{JobName: JobLeaderboardBoard, Fn: func(ctx context.Context) error {
			n, err := board.Refresh(ctx)
			logger.FromContext(ctx).Debug(LogMsgJobResult, "job", JobLeaderboardBoard, "posted", n)
			return err
		}}
	}
	return jobs
}

// ScheduleJobs registers every job from Jobs at its configured interval.
func ScheduleJobs(ctx context.Context, sched Scheduler, cfg *config.Config, jobs map[string]worker.Func) {
	intervals := map[string]time.Duration{
		JobBankInterest:     cfg.InterestInterval,
		JobShopRestock:      cfg.RestockSweepInterval,
		JobStreakSweep:      cfg.StreakSweepInterval,
		JobCharmSweep:       cfg.CharmSweepInterval,
		JobVoiceTick:        cfg.VoiceTickInterval,
		JobLeaderboardBoard: cfg.LeaderboardInterval,
	}
	for name, job := range jobs {
		interval, ok := intervals[name]
		if !ok {
			continue
		}
		// Voice ticks only matter once sessions exist.
		sched.Schedule(ctx, interval, job, name != JobVoiceTick)
	}
}
