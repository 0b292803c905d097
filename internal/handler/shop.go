package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/shop"
)

// ShopService is implemented by shop.Service.
type ShopService interface {
	Slots(ctx context.Context, guildID string) ([]domain.ShopSlot, error)
	Restock(ctx context.Context, guildID string, forced bool) (*shop.RestockResult, error)
	Purchase(ctx context.Context, userID, guildID, itemID string, qty int, opts shop.PurchaseOptions) (*shop.PurchaseResult, error)
}

type ShopHandler struct {
	shop ShopService
}

func NewShopHandler(svc ShopService) *ShopHandler {
	return &ShopHandler{shop: svc}
}

// PurchaseRequest buys (or quotes, with simulate) qty of one shop item.
type PurchaseRequest struct {
	ItemID               string  `json:"item_id" validate:"required,max=64"`
	Quantity             int     `json:"quantity" validate:"gt=0"`
	Simulate             bool    `json:"simulate,omitempty"`
	ExtraDiscountPercent float64 `json:"extra_discount_percent,omitempty" validate:"gte=0,lte=100"`
}

func (h *ShopHandler) HandleGetShop(w http.ResponseWriter, r *http.Request) {
	guildID, ok := snowflakeParam(w, r, ParamGuildID)
	if !ok {
		return
	}
	slots, err := h.shop.Slots(r.Context(), guildID)
	if err != nil {
		respondServiceError(w, r, "get shop", err)
		return
	}
	if slots == nil {
		slots = []domain.ShopSlot{}
	}
	respondJSON(w, r, http.StatusOK, slots)
}

func (h *ShopHandler) HandleRestock(w http.ResponseWriter, r *http.Request) {
	guildID, ok := snowflakeParam(w, r, ParamGuildID)
	if !ok {
		return
	}
	// ?force=true restocks even when the guild is not due.
	force, _ := strconv.ParseBool(r.URL.Query().Get(QueryForce))
	res, err := h.shop.Restock(r.Context(), guildID, force)
	if err != nil {
		respondServiceError(w, r, "restock", err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgManualRestock, "guild_id", guildID, "forced", force, "restocked", res.Restocked)
	respondJSON(w, r, http.StatusOK, res)
}

func (h *ShopHandler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	var req PurchaseRequest
	if !DecodeAndValidateRequest(w, r, &req, "purchase") {
		return
	}
	res, err := h.shop.Purchase(r.Context(), userID, guildID, req.ItemID, req.Quantity, shop.PurchaseOptions{
		SimulateOnly:         req.Simulate,
		ExtraDiscountPercent: req.ExtraDiscountPercent,
	})
	if err != nil {
		respondServiceError(w, r, "purchase", err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}
