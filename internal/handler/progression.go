package handler

import (
	"context"
	"net/http"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/progression"
)

// ProgressionService is implemented by progression.Service.
type ProgressionService interface {
	AddXP(ctx context.Context, userID, guildID string, raw int64, passiveOrManual bool) (*progression.XPResult, error)
	SetLevel(ctx context.Context, userID, guildID string, level int) (*progression.XPResult, error)
	AddLevels(ctx context.Context, userID, guildID string, delta int) (*progression.XPResult, error)
	Leaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error)
	GetProgress(ctx context.Context, userID, guildID string) (*progression.Progress, error)
}

type ProgressionHandler struct {
	progression ProgressionService
}

func NewProgressionHandler(svc ProgressionService) *ProgressionHandler {
	return &ProgressionHandler{progression: svc}
}

// AwardXPRequest is a manual XP change; negative amounts remove XP.
type AwardXPRequest struct {
	Amount int64 `json:"amount" validate:"required,min=-1000000,max=1000000"`
}

// LevelRequest sets the level outright or moves it by delta. Exactly one
// of the two must be present.
type LevelRequest struct {
	Level *int `json:"level,omitempty" validate:"omitempty,min=0"`
	Delta *int `json:"delta,omitempty" validate:"omitempty,ne=0"`
}

func (h *ProgressionHandler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	progress, err := h.progression.GetProgress(r.Context(), userID, guildID)
	if err != nil {
		respondServiceError(w, r, "get progress", err)
		return
	}
	respondJSON(w, r, http.StatusOK, progress)
}

func (h *ProgressionHandler) HandleAwardXP(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	var req AwardXPRequest
	if !DecodeAndValidateRequest(w, r, &req, "award xp") {
		return
	}
	res, err := h.progression.AddXP(r.Context(), userID, guildID, req.Amount, true)
	if err != nil {
		respondServiceError(w, r, "award xp", err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}

func (h *ProgressionHandler) HandleSetLevel(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	var req LevelRequest
	if !DecodeAndValidateRequest(w, r, &req, "set level") {
		return
	}
	if (req.Level == nil) == (req.Delta == nil) {
		respondError(w, r, http.StatusBadRequest, ErrMsgLevelOrDelta)
		return
	}

	var (
		res *progression.XPResult
		err error
	)
	if req.Level != nil {
		res, err = h.progression.SetLevel(r.Context(), userID, guildID, *req.Level)
	} else {
		res, err = h.progression.AddLevels(r.Context(), userID, guildID, *req.Delta)
	}
	if err != nil {
		respondServiceError(w, r, "set level", err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgAdminLevelChange, "user_id", userID, "guild_id", guildID,
		"from_level", res.FromLevel, "to_level", res.Account.Level)
	respondJSON(w, r, http.StatusOK, res)
}

func (h *ProgressionHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	guildID, ok := snowflakeParam(w, r, ParamGuildID)
	if !ok {
		return
	}
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	entries, err := h.progression.Leaderboard(r.Context(), guildID, limit)
	if err != nil {
		respondServiceError(w, r, "leaderboard", err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	respondJSON(w, r, http.StatusOK, entries)
}
