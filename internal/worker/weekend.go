package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// WeekendGuilds is the guild settings surface the watcher flips.
type WeekendGuilds interface {
	List(ctx context.Context) ([]domain.GuildSettings, error)
	SetWeekend(ctx context.Context, guildID string, active bool) (bool, error)
}

// WeekendShop rescales shop stock when a guild crosses the boundary.
type WeekendShop interface {
	ApplyWeekendTransition(ctx context.Context, guildID string, isWeekend bool) ([]domain.ShopSlot, error)
}

// WeekendWatcher keeps every guild's weekend flag in step with the
// configured window. Cron entries fire at the window boundaries; Start also
// reconciles once so a restart mid-weekend picks up the right state.
type WeekendWatcher struct {
	window gameconfig.WeekendWindow
	guilds WeekendGuilds
	shop   WeekendShop
	bus    event.Bus
	cron   *cron.Cron
	now    func() time.Time

	mu  sync.Mutex
	ctx context.Context
}

// NewWeekendWatcher creates a watcher for window. bus may be nil.
func NewWeekendWatcher(window gameconfig.WeekendWindow, guilds WeekendGuilds, shop WeekendShop, bus event.Bus) *WeekendWatcher {
	return &WeekendWatcher{
		window: window,
		guilds: guilds,
		shop:   shop,
		bus:    bus,
		cron:   cron.NewWithLocation(window.Location()),
		now:    time.Now,
		ctx:    context.Background(),
	}
}

// Start reconciles the current state and schedules the boundary entries.
func (w *WeekendWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()

	if _, err := w.Reconcile(ctx); err != nil {
		logger.FromContext(ctx).Warn(LogMsgWeekendReconciled, "error", err)
	}

	boundaries := []struct {
		spec   string
		active bool
	}{
		{w.window.StartSpec(), true},
		{w.window.EndSpec(), false},
	}
	for _, b := range boundaries {
		active := b.active
		if err := w.cron.AddFunc(b.spec, func() { w.boundary(active) }); err != nil {
			return fmt.Errorf(ErrMsgAddCronFailed, b.spec, err)
		}
	}
	w.cron.Start()

	logger.FromContext(ctx).Info(LogMsgWeekendWatcherStarted,
		"start", w.window.StartSpec(),
		"end", w.window.EndSpec(),
		"zone", w.window.Location().String())
	return nil
}

// Stop halts the cron scheduler. Transitions already running finish.
func (w *WeekendWatcher) Stop() {
	w.cron.Stop()
	logger.FromContext(w.baseContext()).Info(LogMsgWeekendWatcherStopped)
}

func (w *WeekendWatcher) baseContext() context.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ctx
}

func (w *WeekendWatcher) boundary(active bool) {
	ctx := w.baseContext()
	logger.FromContext(ctx).Info(LogMsgWeekendBoundary, "active", active)
	if _, err := w.Apply(ctx, active); err != nil {
		logger.FromContext(ctx).Error(LogMsgWeekendGuildFailed, "error", err)
	}
}

// Reconcile applies the state the window prescribes for the current time.
func (w *WeekendWatcher) Reconcile(ctx context.Context) (int, error) {
	return w.Apply(ctx, w.window.Contains(w.now()))
}

// Apply sets every known guild's weekend flag to active. Guilds whose flag
// changed get the shop transition and a WeekendChanged event. It returns
// the number of guilds that changed; per-guild failures are joined.
func (w *WeekendWatcher) Apply(ctx context.Context, active bool) (int, error) {
	log := logger.FromContext(ctx)

	guilds, err := w.guilds.List(ctx)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgListGuildsFailed, err)
	}

	changed := 0
	var errs []error
	for _, g := range guilds {
		flipped, err := w.guilds.SetWeekend(ctx, g.GuildID, active)
		if err != nil {
			log.Warn(LogMsgWeekendGuildFailed, "guild_id", g.GuildID, "error", err)
			errs = append(errs, fmt.Errorf(ErrMsgGuildTransitionFmt, g.GuildID, err))
			continue
		}
		if !flipped {
			continue
		}
		changed++

		if _, err := w.shop.ApplyWeekendTransition(ctx, g.GuildID, active); err != nil {
			log.Warn(LogMsgWeekendGuildFailed, "guild_id", g.GuildID, "error", err)
			errs = append(errs, fmt.Errorf(ErrMsgGuildTransitionFmt, g.GuildID, err))
		}
		if w.bus != nil {
			if err := w.bus.Publish(ctx, event.NewWeekendChangedEvent(g.GuildID, active)); err != nil {
				log.Warn(LogMsgPublishFailed, "guild_id", g.GuildID, "error", err)
			}
		}
	}

	log.Info(LogMsgWeekendReconciled, "active", active, "guilds", len(guilds), "changed", changed)
	return changed, errors.Join(errs...)
}
