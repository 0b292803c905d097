package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/EconomyBot_Go/internal/worker"
)

// MockJob is a simple job for testing
type MockJob struct {
	RunCount int32
	Done     chan struct{}
}

func (m *MockJob) Process(ctx context.Context) error {
	atomic.AddInt32(&m.RunCount, 1)
	// Signal that job ran
	select {
	case m.Done <- struct{}{}:
	default:
	}
	return nil
}

func TestScheduler(t *testing.T) {
	ctx := context.Background()
	pool := worker.NewPool(1, 10)
	pool.Start(ctx)
	defer pool.Stop()

	sched := New(pool)
	defer sched.Stop()

	job := &MockJob{Done: make(chan struct{}, 10)}
	sched.Schedule(ctx, 10*time.Millisecond, job, false)

	timeout := time.After(time.Second)
	runCount := 0
	for runCount < 2 {
		select {
		case <-job.Done:
			runCount++
		case <-timeout:
			t.Fatal("Timeout waiting for job execution")
		}
	}

	assert.GreaterOrEqual(t, runCount, 2)
}

func TestScheduler_RunNow(t *testing.T) {
	ctx := context.Background()
	pool := worker.NewPool(1, 10)
	pool.Start(ctx)
	defer pool.Stop()

	sched := New(pool)
	defer sched.Stop()

	job := &MockJob{Done: make(chan struct{}, 10)}
	sched.Schedule(ctx, time.Hour, job, true)

	select {
	case <-job.Done:
	case <-time.After(time.Second):
		t.Fatal("runNow job never executed")
	}
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	sched := New(worker.NewPool(1, 1))
	sched.Schedule(context.Background(), time.Hour, &MockJob{Done: make(chan struct{}, 1)}, false)
	sched.Stop()
	sched.Stop()
}
