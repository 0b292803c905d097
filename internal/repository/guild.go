package repository

import (
	"context"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// Guild persists per-guild settings.
type Guild interface {
	// GetGuildSettings returns domain.ErrGuildSettingsNotFound when no row exists.
	GetGuildSettings(ctx context.Context, guildID string) (*domain.GuildSettings, error)
	UpsertGuildSettings(ctx context.Context, settings *domain.GuildSettings) error
	ListGuildSettings(ctx context.Context) ([]domain.GuildSettings, error)
}
