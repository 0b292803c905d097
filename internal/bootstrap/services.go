package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/EconomyBot_Go/internal/activity"
	"github.com/osse101/EconomyBot_Go/internal/bank"
	"github.com/osse101/EconomyBot_Go/internal/config"
	"github.com/osse101/EconomyBot_Go/internal/cooldown"
	"github.com/osse101/EconomyBot_Go/internal/daily"
	"github.com/osse101/EconomyBot_Go/internal/database/postgres"
	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/guild"
	"github.com/osse101/EconomyBot_Go/internal/ledger"
	"github.com/osse101/EconomyBot_Go/internal/lootbox"
	"github.com/osse101/EconomyBot_Go/internal/progression"
	"github.com/osse101/EconomyBot_Go/internal/shop"
)

// Services holds every engine service, wired to one store and one bus.
type Services struct {
	Guilds      guild.Service
	Ledger      ledger.Service
	Progression progression.Service
	Bank        bank.Service
	LootBoxes   lootbox.Service
	Daily       daily.Service
	Shop        shop.Service
	Activity    activity.Service
}

// LoadGameConfig reads the tunables file, falling back to the embedded
// defaults when path is empty.
func LoadGameConfig(path string) (*gameconfig.Config, error) {
	gcfg, err := gameconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadGameConfig, err)
	}
	slog.Info(LogMsgGameConfigLoaded,
		"path", path,
		"items", len(gcfg.Items()),
		"bank_tiers", len(gcfg.BankTiers),
		"level_roles", len(gcfg.LevelRoles))
	return gcfg, nil
}

// InitializeServices builds the service graph. The guild service doubles as
// the weekend checker for every boosted credit.
func InitializeServices(store *postgres.Store, gcfg *gameconfig.Config, bus event.Bus, cooldowns cooldown.Service) *Services {
	guildSvc := guild.NewService(store, gcfg)
	ledgerSvc := ledger.NewService(store, gcfg, guildSvc, bus)
	progressionSvc := progression.NewService(store, gcfg, guildSvc, bus)
	lootboxSvc := lootbox.NewService(store, gcfg, ledgerSvc, bus)

	return &Services{
		Guilds:      guildSvc,
		Ledger:      ledgerSvc,
		Progression: progressionSvc,
		Bank:        bank.NewService(store, gcfg, bus),
		LootBoxes:   lootboxSvc,
		Daily:       daily.NewService(store, gcfg, ledgerSvc, bus),
		Shop:        shop.NewService(store, store, gcfg, ledgerSvc, guildSvc, bus),
		Activity:    activity.NewService(gcfg, cooldowns, progressionSvc, ledgerSvc, lootboxSvc, nil),
	}
}

// InitializeCooldowns picks the cooldown store: Redis when REDIS_ADDR is
// set, otherwise Postgres, otherwise process memory. The returned closer
// releases the Redis client and may be nil.
func InitializeCooldowns(ctx context.Context, cfg *config.Config, gcfg *gameconfig.Config, pool *pgxpool.Pool) (cooldown.Service, func() error, error) {
	cdCfg := cooldown.ForActivity(gcfg.Global.XPCooldown(), cfg.CooldownDevMode)

	backend := CooldownBackendMemory
	switch {
	case cfg.RedisAddr != "":
		backend = CooldownBackendRedis
	case pool != nil:
		backend = CooldownBackendPostgres
	}
	slog.Info(LogMsgCooldownBackend, "backend", backend, "dev_mode", cfg.CooldownDevMode)

	switch backend {
	case CooldownBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, RedisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf(ErrMsgConnectRedis, cfg.RedisAddr, err)
		}
		return cooldown.NewRedisService(client, cdCfg), client.Close, nil
	case CooldownBackendPostgres:
		return cooldown.NewPostgresService(pool, cdCfg), nil, nil
	case CooldownBackendMemory:
		return cooldown.NewMemoryService(cdCfg, CooldownMemoryCapacity), nil, nil
	}
	return nil, nil, fmt.Errorf(ErrMsgUnknownCooldownBackend, backend)
}
