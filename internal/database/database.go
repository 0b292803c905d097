package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/EconomyBot_Go/internal/config"
	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// Pool is the part of the connection pool readiness checks and shutdown use.
type Pool interface {
	Ping(ctx context.Context) error
	Close()
}

// PoolOptions sizes a connection pool.
type PoolOptions struct {
	MaxConns        int
	MinConns        int32
	MaxConnIdleTime time.Duration
	MaxConnLifetime time.Duration
}

// OptionsFromConfig reads pool sizing from the application config.
func OptionsFromConfig(cfg *config.Config) PoolOptions {
	return PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        DefaultMinConnections,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	}
}

// NewPool opens a PostgreSQL pool and pings it once before returning.
func NewPool(ctx context.Context, connString string, opts PoolOptions) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToParseConnString, err)
	}

	maxConns := opts.MaxConns
	if maxConns > math.MaxInt32 {
		maxConns = math.MaxInt32
	}
	if maxConns > 0 {
		pcfg.MaxConns = int32(maxConns)
	}
	if opts.MinConns > 0 && opts.MinConns <= pcfg.MaxConns {
		pcfg.MinConns = opts.MinConns
	}
	if opts.MaxConnLifetime > 0 {
		pcfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		pcfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToCreatePool, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf(ErrMsgFailedToPingDatabase, err)
	}

	logger.FromContext(ctx).Info(LogMsgConnectedToDatabase, "max_conns", pcfg.MaxConns, "min_conns", pcfg.MinConns)
	return pool, nil
}
