// Package guild owns per-guild settings: display overrides, notification
// channels, the restock interval override and the weekend boost flag.
package guild

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/repository"
)

// Update is a partial settings change; nil fields are left alone.
type Update struct {
	CoinEmoji              *string `json:"coin_emoji,omitempty" validate:"omitempty,max=64"`
	GemEmoji               *string `json:"gem_emoji,omitempty" validate:"omitempty,max=64"`
	RobuxEmoji             *string `json:"robux_emoji,omitempty" validate:"omitempty,max=64"`
	NotificationChannelID  *string `json:"notification_channel_id,omitempty" validate:"omitempty,numeric"`
	LevelUpChannelID       *string `json:"level_up_channel_id,omitempty" validate:"omitempty,numeric"`
	RestockIntervalMinutes *int    `json:"restock_interval_minutes,omitempty" validate:"omitempty,min=0,max=10080"`
	ShopRestockDMEnabled   *bool   `json:"shop_restock_dm_enabled,omitempty"`
}

// Service defines guild settings operations. It also satisfies
// ledger.WeekendChecker.
type Service interface {
	// Get returns the stored settings or defaults for an unknown guild.
	Get(ctx context.Context, guildID string) (*domain.GuildSettings, error)
	// Register stores default settings for a guild seen for the first time.
	Register(ctx context.Context, guildID string) error
	Update(ctx context.Context, guildID string, u Update) (*domain.GuildSettings, error)
	// SetWeekend stores the weekend flag and reports whether it changed.
	SetWeekend(ctx context.Context, guildID string, active bool) (bool, error)
	SetLeaderboardMessage(ctx context.Context, guildID, messageID string, at time.Time) error
	List(ctx context.Context) ([]domain.GuildSettings, error)
	IsWeekend(ctx context.Context, guildID string) bool
	// Emoji resolves the display emoji of a currency for a guild.
	Emoji(ctx context.Context, guildID string, c domain.Currency) string
}

type service struct {
	repo  repository.Guild
	cfg   *gameconfig.Config
	cache *settingsCache
}

// NewService creates a new guild settings service
func NewService(repo repository.Guild, cfg *gameconfig.Config) Service {
	return &service{
		repo:  repo,
		cfg:   cfg,
		cache: newSettingsCache(DefaultCacheSize, DefaultCacheTTL),
	}
}

func (s *service) Get(ctx context.Context, guildID string) (*domain.GuildSettings, error) {
	if cached, ok := s.cache.Get(guildID); ok {
		return &cached, nil
	}

	settings, err := s.repo.GetGuildSettings(ctx, guildID)
	if errors.Is(err, domain.ErrGuildSettingsNotFound) {
		return &domain.GuildSettings{GuildID: guildID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetSettingsFailed, err)
	}
	s.cache.Set(*settings)
	return settings, nil
}

func (s *service) Register(ctx context.Context, guildID string) error {
	if guildID == "" {
		return fmt.Errorf(ErrMsgMissingGuildID, domain.ErrValidation)
	}
	_, err := s.repo.GetGuildSettings(ctx, guildID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrGuildSettingsNotFound) {
		return fmt.Errorf(ErrMsgGetSettingsFailed, err)
	}
	if err := s.save(ctx, &domain.GuildSettings{GuildID: guildID}); err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgGuildRegistered, "guild_id", guildID)
	return nil
}

func (s *service) Update(ctx context.Context, guildID string, u Update) (*domain.GuildSettings, error) {
	settings, err := s.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&settings.CoinEmoji, u.CoinEmoji)
	setString(&settings.GemEmoji, u.GemEmoji)
	setString(&settings.RobuxEmoji, u.RobuxEmoji)
	setString(&settings.NotificationChannelID, u.NotificationChannelID)
	setString(&settings.LevelUpChannelID, u.LevelUpChannelID)
	if u.RestockIntervalMinutes != nil {
		if *u.RestockIntervalMinutes < 0 {
			return nil, fmt.Errorf(ErrMsgInvalidIntervalFmt, *u.RestockIntervalMinutes, domain.ErrValidation)
		}
		settings.RestockIntervalMinutes = *u.RestockIntervalMinutes
	}
	if u.ShopRestockDMEnabled != nil {
		settings.ShopRestockDMEnabled = *u.ShopRestockDMEnabled
	}

	if err := s.save(ctx, settings); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info(LogMsgSettingsUpdated, "guild_id", guildID)
	return settings, nil
}

func (s *service) SetWeekend(ctx context.Context, guildID string, active bool) (bool, error) {
	settings, err := s.Get(ctx, guildID)
	if err != nil {
		return false, err
	}
	if settings.WeekendBoostActive == active {
		return false, nil
	}
	settings.WeekendBoostActive = active
	if err := s.save(ctx, settings); err != nil {
		return false, err
	}
	logger.FromContext(ctx).Info(LogMsgWeekendToggled, "guild_id", guildID, "active", active)
	return true, nil
}

func (s *service) SetLeaderboardMessage(ctx context.Context, guildID, messageID string, at time.Time) error {
	settings, err := s.Get(ctx, guildID)
	if err != nil {
		return err
	}
	settings.LeaderboardMessageID = messageID
	settings.LeaderboardUpdatedAt = at
	return s.save(ctx, settings)
}

func (s *service) List(ctx context.Context) ([]domain.GuildSettings, error) {
	list, err := s.repo.ListGuildSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListSettingsFailed, err)
	}
	return list, nil
}

func (s *service) IsWeekend(ctx context.Context, guildID string) bool {
	settings, err := s.Get(ctx, guildID)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgWeekendLookupErr, "guild_id", guildID, "error", err)
		return false
	}
	return settings.WeekendBoostActive
}

func (s *service) Emoji(ctx context.Context, guildID string, c domain.Currency) string {
	if settings, err := s.Get(ctx, guildID); err == nil {
		var override string
		switch c {
		case domain.CurrencyCoins:
			override = settings.CoinEmoji
		case domain.CurrencyGems:
			override = settings.GemEmoji
		case domain.CurrencyRobux:
			override = settings.RobuxEmoji
		}
		if override != "" {
			return override
		}
	}
	if item, err := s.cfg.Item(string(c)); err == nil {
		return item.Info().Emoji
	}
	return ""
}

func (s *service) save(ctx context.Context, settings *domain.GuildSettings) error {
	s.cache.Invalidate(settings.GuildID)
	if err := s.repo.UpsertGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf(ErrMsgSaveSettingsFailed, err)
	}
	s.cache.Set(*settings)
	return nil
}
