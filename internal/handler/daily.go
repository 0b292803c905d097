package handler

import (
	"context"
	"net/http"

	"github.com/osse101/EconomyBot_Go/internal/daily"
	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// DailyService is implemented by daily.Service.
type DailyService interface {
	GetRewards(ctx context.Context, userID, guildID string) ([]domain.DailyReward, error)
	Claim(ctx context.Context, userID, guildID string) (*daily.ClaimResult, error)
	RestoreStreak(ctx context.Context, userID, guildID string) (*daily.RestoreResult, error)
	Status(ctx context.Context, userID, guildID string) (*daily.Status, error)
}

type DailyHandler struct {
	daily DailyService
}

func NewDailyHandler(svc DailyService) *DailyHandler {
	return &DailyHandler{daily: svc}
}

// DailyResponse is the streak status plus the upcoming rewards.
type DailyResponse struct {
	Status  *daily.Status        `json:"status"`
	Rewards []domain.DailyReward `json:"rewards"`
}

func (h *DailyHandler) HandleGetDaily(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	rewards, err := h.daily.GetRewards(r.Context(), userID, guildID)
	if err != nil {
		respondServiceError(w, r, "get daily rewards", err)
		return
	}
	status, err := h.daily.Status(r.Context(), userID, guildID)
	if err != nil {
		respondServiceError(w, r, "get daily status", err)
		return
	}
	respondJSON(w, r, http.StatusOK, DailyResponse{Status: status, Rewards: rewards})
}

func (h *DailyHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	res, err := h.daily.Claim(r.Context(), userID, guildID)
	if err != nil {
		respondServiceError(w, r, "claim daily", err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}

func (h *DailyHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	res, err := h.daily.RestoreStreak(r.Context(), userID, guildID)
	if err != nil {
		respondServiceError(w, r, "restore streak", err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}
