package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/metrics"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Named jobs are reported under their name in job metrics.
type Named interface {
	Name() string
}

// Func adapts a function into a named Job.
type Func struct {
	JobName string
	Fn      func(ctx context.Context) error
}

// Process runs the function
func (f Func) Process(ctx context.Context) error { return f.Fn(ctx) }

// Name returns the job name
func (f Func) Name() string { return f.JobName }

// Pool represents a worker pool
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		ctx:      context.Background(),
	}
}

// Start starts the workers. ctx is handed to every job and carries the
// process logger.
func (p *Pool) Start(ctx context.Context) {
	p.ctx = ctx
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker is the worker loop; it exits once the queue is closed and drained
func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobQueue {
		p.run(job)
	}
}

func (p *Pool) run(job Job) {
	name := jobName(job)
	log := logger.FromContext(p.ctx)

	start := time.Now()
	err := job.Process(p.ctx)
	metrics.JobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		// Log error but don't crash worker
		metrics.JobRuns.WithLabelValues(name, JobStatusError).Inc()
		log.Error(LogMsgWorkerJobFailed, "job", name, "error", err)
		return
	}
	metrics.JobRuns.WithLabelValues(name, JobStatusSuccess).Inc()
	log.Debug(LogMsgWorkerJobFinished, "job", name, "duration", time.Since(start))
}

// Enqueue adds a job without blocking. It returns false when the queue is
// full or the pool has stopped.
func (p *Pool) Enqueue(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		name := jobName(job)
		metrics.JobRuns.WithLabelValues(name, JobStatusSkipped).Inc()
		logger.FromContext(p.ctx).Warn(LogMsgQueueFull, "job", name)
		return false
	}
}

// Stop closes the queue, lets workers drain what is queued and waits for
// them to finish
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobQueue)
	p.mu.Unlock()

	p.wg.Wait()
	logger.FromContext(p.ctx).Info(LogMsgPoolStopped)
}

func jobName(job Job) string {
	if n, ok := job.(Named); ok {
		return n.Name()
	}
	return "anonymous"
}
