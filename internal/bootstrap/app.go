// Package bootstrap assembles the process: storage, services, event
// handlers, background jobs, the HTTP server and the Discord gateway.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/osse101/EconomyBot_Go/internal/config"
	"github.com/osse101/EconomyBot_Go/internal/database"
	"github.com/osse101/EconomyBot_Go/internal/database/migrations"
	"github.com/osse101/EconomyBot_Go/internal/database/postgres"
	"github.com/osse101/EconomyBot_Go/internal/discord"
	"github.com/osse101/EconomyBot_Go/internal/handler"
	"github.com/osse101/EconomyBot_Go/internal/notify"
	"github.com/osse101/EconomyBot_Go/internal/scheduler"
	"github.com/osse101/EconomyBot_Go/internal/server"
	"github.com/osse101/EconomyBot_Go/internal/worker"
)

// Run starts every component and blocks until ctx is cancelled or the HTTP
// server fails. Shutdown is bounded by server.DefaultShutdownWindow.
func Run(ctx context.Context, cfg *config.Config) error {
	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.Up(ctx, pool); err != nil {
		return err
	}

	gcfg, err := LoadGameConfig(cfg.GameConfigPath)
	if err != nil {
		return err
	}

	bus, publisher, err := InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	cooldowns, closeCooldowns, err := InitializeCooldowns(ctx, cfg, gcfg, pool)
	if err != nil {
		_ = publisher.Shutdown(ctx)
		return err
	}

	store := postgres.NewStore(pool, gcfg.Global.DefaultAlertRarityThreshold)
	svc := InitializeServices(store, gcfg, publisher, cooldowns)

	var (
		bot      *discord.Bot
		gateway  handler.GatewayStatus
		notifier notify.Notifier
		board    LeaderboardRefresher
	)
	if cfg.DiscordEnabled() {
		bot, err = discord.New(discord.Config{Token: cfg.DiscordToken, AppID: cfg.DiscordAppID}, svc.Activity, svc.Guilds)
		if err != nil {
			_ = publisher.Shutdown(ctx)
			return err
		}
		gateway = bot
		notifier = discord.NewNotifier(bot.Session, svc.Guilds, svc.Progression, cfg.DiscordAnnouncementChannelID)
		board = discord.NewLeaderboardPoster(bot.Session, svc.Guilds, svc.Progression, discord.DefaultLeaderboardSize)
	}
	RegisterEventHandlers(ctx, bus, notifier)

	workers := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	workers.Start(ctx)
	sched := scheduler.New(workers)
	ScheduleJobs(ctx, sched, cfg, Jobs(svc, board))

	weekend := worker.NewWeekendWatcher(gcfg.Global.Weekend, svc.Guilds, svc.Shop, publisher)
	components := ShutdownComponents{
		Scheduler: sched,
		Pool:      workers,
		Publisher: publisher,
		Closers:   []func() error{closeCooldowns},
	}
	if err := weekend.Start(ctx); err != nil {
		shutdown(components)
		return err
	}
	components.Weekend = weekend

	srv := server.NewServer(server.Options{
		Port:               cfg.Port,
		APIKey:             cfg.APIKey,
		TrustedProxies:     cfg.TrustedProxies,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Version:            cfg.Version,
		Environment:        cfg.Environment,
	}, server.Services{
		DB:          pool,
		Gateway:     gateway,
		Accounts:    svc.Ledger,
		LootBoxes:   svc.LootBoxes,
		Bank:        svc.Bank,
		Daily:       svc.Daily,
		Shop:        svc.Shop,
		Progression: svc.Progression,
		Guilds:      svc.Guilds,
	})

	components.Server = srv

	if bot != nil {
		if err := bot.Start(ctx); err != nil {
			shutdown(components)
			return fmt.Errorf(ErrMsgStartBot, err)
		}
		components.Bot = bot
	}

	serverErr := make(chan error, 1)
	go func() { serverErr <- srv.Start(ctx) }()

	select {
	case <-ctx.Done():
		shutdown(components)
		return nil
	case err := <-serverErr:
		components.Server = nil
		shutdown(components)
		return err
	}
}

func shutdown(c ShutdownComponents) {
	ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownWindow)
	defer cancel()
	GracefulShutdown(ctx, c)
}
