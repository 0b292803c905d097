// Package scheduler enqueues recurring jobs onto the worker pool. Jobs are
// idempotent and decide from stored timestamps whether work is due, so a
// missed or doubled tick is harmless.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/worker"
)

// Log messages
const (
	LogMsgJobScheduled = "Job scheduled"
	LogMsgStopped      = "Scheduler stopped"
)

// Enqueuer accepts jobs; *worker.Pool satisfies it.
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	pool Enqueuer
	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// New creates a new scheduler
func New(pool Enqueuer) *Scheduler {
	return &Scheduler{
		pool: pool,
		quit: make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval. With runNow set the
// job is also enqueued immediately.
func (s *Scheduler) Schedule(ctx context.Context, interval time.Duration, job worker.Job, runNow bool) {
	if n, ok := job.(worker.Named); ok {
		logger.FromContext(ctx).Info(LogMsgJobScheduled, "job", n.Name(), "interval", interval, "run_now", runNow)
	}
	if runNow {
		s.pool.Enqueue(job)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				// Non-blocking: a full queue skips this tick
				s.pool.Enqueue(job)
			case <-s.quit:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs. Jobs already enqueued are left to the pool.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.quit) })
	s.wg.Wait()
	logger.FromContext(context.Background()).Info(LogMsgStopped)
}
