package handler

import (
	"context"
	"net/http"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/guild"
	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// GuildSettingsService is implemented by guild.Service.
type GuildSettingsService interface {
	Get(ctx context.Context, guildID string) (*domain.GuildSettings, error)
	Update(ctx context.Context, guildID string, u guild.Update) (*domain.GuildSettings, error)
}

type GuildHandler struct {
	guilds GuildSettingsService
}

func NewGuildHandler(svc GuildSettingsService) *GuildHandler {
	return &GuildHandler{guilds: svc}
}

func (h *GuildHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	guildID, ok := snowflakeParam(w, r, ParamGuildID)
	if !ok {
		return
	}
	settings, err := h.guilds.Get(r.Context(), guildID)
	if err != nil {
		respondServiceError(w, r, "get guild settings", err)
		return
	}
	respondJSON(w, r, http.StatusOK, settings)
}

// HandleUpdateSettings applies a partial update; absent fields keep their
// stored values.
func (h *GuildHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	guildID, ok := snowflakeParam(w, r, ParamGuildID)
	if !ok {
		return
	}
	var req guild.Update
	if !DecodeAndValidateRequest(w, r, &req, "update guild settings") {
		return
	}
	settings, err := h.guilds.Update(r.Context(), guildID, req)
	if err != nil {
		respondServiceError(w, r, "update guild settings", err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgSettingsViaAPI, "guild_id", guildID)
	respondJSON(w, r, http.StatusOK, settings)
}
