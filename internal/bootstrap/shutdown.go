package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/server"
	"github.com/osse101/EconomyBot_Go/internal/worker"
)

// Stopper is anything with a blocking Stop.
type Stopper interface {
	Stop()
}

// ShutdownComponents holds everything that needs an orderly stop. Nil
// fields are skipped.
type ShutdownComponents struct {
	Server    *server.Server
	Bot       Stopper
	Weekend   Stopper
	Scheduler Stopper
	Pool      *worker.Pool
	Publisher *event.ResilientPublisher
	Closers   []func() error
}

// GracefulShutdown stops components in dependency order:
//  1. HTTP server and gateway (no new requests or activity)
//  2. weekend watcher and scheduler (no new jobs)
//  3. worker pool (drain queued jobs)
//  4. event publisher (flush retries)
//  5. closers such as the Redis client
//
// Errors are logged and never stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDown)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}
	for _, s := range []Stopper{c.Bot, c.Weekend, c.Scheduler} {
		if s != nil {
			s.Stop()
		}
	}
	if c.Pool != nil {
		c.Pool.Stop()
	}
	if c.Publisher != nil {
		if err := c.Publisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgPublisherShutdownErr, "error", err)
		}
	}
	slog.Info(LogMsgStopped)
	for _, closeFn := range c.Closers {
		if closeFn != nil {
			_ = closeFn()
		}
	}
}
