package handler

import (
	"context"
	"net/http"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/ledger"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/lootbox"
)

// AccountService is the part of the ledger the account routes use.
type AccountService interface {
	GetAccount(ctx context.Context, userID, guildID string) (*domain.Account, error)
	GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventoryEntry, error)
	GetActiveCharms(ctx context.Context, userID, guildID string) ([]domain.ActiveCharm, error)
	SetAlertThreshold(ctx context.Context, userID, guildID string, threshold int64) error
	SetItemAlertMuted(ctx context.Context, userID, guildID, itemID string, muted bool) error
	ResetAccount(ctx context.Context, userID, guildID string) error

	Credit(ctx context.Context, userID, guildID string, c domain.Currency, amount int64, source domain.Source) (*ledger.CreditResult, error)
	Debit(ctx context.Context, userID, guildID string, c domain.Currency, amount int64, source domain.Source) (*ledger.CreditResult, error)
	GiveItem(ctx context.Context, userID, guildID, itemID string, qty int64, source domain.Source) (*ledger.GrantResult, error)
	TakeItem(ctx context.Context, userID, guildID, itemID string, qty int64) error
	UseItem(ctx context.Context, userID, guildID, itemID string) (*ledger.UseResult, error)
}

// LootBoxOpener opens boxes from an inventory.
type LootBoxOpener interface {
	OpenLootBoxes(ctx context.Context, userID, guildID, boxID string, count int) (*lootbox.OpenResult, error)
}

// AccountHandler serves balances, inventories and admin adjustments.
type AccountHandler struct {
	ledger AccountService
	boxes  LootBoxOpener
}

func NewAccountHandler(ledger AccountService, boxes LootBoxOpener) *AccountHandler {
	return &AccountHandler{ledger: ledger, boxes: boxes}
}

// AlertSettingsRequest changes who gets pinged for rare finds.
type AlertSettingsRequest struct {
	RarityThreshold *int64   `json:"rarity_threshold,omitempty" validate:"omitempty,min=1"`
	Mute            []string `json:"mute,omitempty" validate:"omitempty,dive,required,max=64"`
	Unmute          []string `json:"unmute,omitempty" validate:"omitempty,dive,required,max=64"`
}

// BalanceChangeRequest is an admin credit or debit.
type BalanceChangeRequest struct {
	Currency string `json:"currency" validate:"required,currency"`
	Amount   int64  `json:"amount" validate:"gt=0"`
}

// ItemChangeRequest grants or removes items.
type ItemChangeRequest struct {
	ItemID   string `json:"item_id" validate:"required,max=64"`
	Quantity int64  `json:"quantity" validate:"gt=0,max=1000000"`
}

// UseItemRequest uses one item from the inventory.
type UseItemRequest struct {
	ItemID string `json:"item_id" validate:"required,max=64"`
}

// OpenLootBoxRequest opens count boxes at once.
type OpenLootBoxRequest struct {
	BoxID string `json:"box_id" validate:"required,max=64"`
	Count int    `json:"count" validate:"omitempty,min=1"`
}

// AccountResponse bundles the account row with its inventory and charms.
type AccountResponse struct {
	Account   *domain.Account         `json:"account"`
	Inventory []domain.InventoryEntry `json:"inventory"`
	Charms    []domain.ActiveCharm    `json:"charms"`
}

// HandleGetAccount returns the account with inventory and active charms.
func (h *AccountHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	acct, err := h.ledger.GetAccount(ctx, userID, guildID)
	if err != nil {
		respondServiceError(w, r, "get account", err)
		return
	}
	inv, err := h.ledger.GetInventory(ctx, userID, guildID)
	if err != nil {
		respondServiceError(w, r, "get inventory", err)
		return
	}
	charms, err := h.ledger.GetActiveCharms(ctx, userID, guildID)
	if err != nil {
		respondServiceError(w, r, "get charms", err)
		return
	}
	respondJSON(w, r, http.StatusOK, AccountResponse{Account: acct, Inventory: inv, Charms: charms})
}

func (h *AccountHandler) HandleResetAccount(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	if err := h.ledger.ResetAccount(r.Context(), userID, guildID); err != nil {
		respondServiceError(w, r, "reset account", err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgAccountReset, "user_id", userID, "guild_id", guildID)
	respondJSON(w, r, http.StatusOK, SuccessResponse{Message: MsgAccountReset})
}

func (h *AccountHandler) HandleUpdateAlerts(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	var req AlertSettingsRequest
	if !DecodeAndValidateRequest(w, r, &req, "update alerts") {
		return
	}
	ctx := r.Context()

	if req.RarityThreshold != nil {
		if err := h.ledger.SetAlertThreshold(ctx, userID, guildID, *req.RarityThreshold); err != nil {
			respondServiceError(w, r, "set alert threshold", err)
			return
		}
	}
	for _, itemID := range req.Mute {
		if err := h.ledger.SetItemAlertMuted(ctx, userID, guildID, itemID, true); err != nil {
			respondServiceError(w, r, "mute item alert", err)
			return
		}
	}
	for _, itemID := range req.Unmute {
		if err := h.ledger.SetItemAlertMuted(ctx, userID, guildID, itemID, false); err != nil {
			respondServiceError(w, r, "unmute item alert", err)
			return
		}
	}
	respondJSON(w, r, http.StatusOK, SuccessResponse{Message: MsgAlertsUpdated})
}

// HandleCredit adds currency as an admin grant: no weekend boost and no
// earned-total telemetry.
func (h *AccountHandler) HandleCredit(w http.ResponseWriter, r *http.Request) {
	h.balanceChange(w, r, "credit", h.ledger.Credit)
}

func (h *AccountHandler) HandleDebit(w http.ResponseWriter, r *http.Request) {
	h.balanceChange(w, r, "debit", h.ledger.Debit)
}

type balanceFunc func(ctx context.Context, userID, guildID string, c domain.Currency, amount int64, source domain.Source) (*ledger.CreditResult, error)

func (h *AccountHandler) balanceChange(w http.ResponseWriter, r *http.Request, op string, apply balanceFunc) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	var req BalanceChangeRequest
	if !DecodeAndValidateRequest(w, r, &req, op) {
		return
	}

	res, err := apply(r.Context(), userID, guildID, domain.Currency(req.Currency), req.Amount, domain.SourceAdmin)
	if err != nil {
		respondServiceError(w, r, op, err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgAdminCredit, "op", op, "user_id", userID, "guild_id", guildID,
		"currency", req.Currency, "amount", req.Amount, "applied", res.ActualAdded)
	respondJSON(w, r, http.StatusOK, res)
}

func (h *AccountHandler) HandleGiveItem(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	var req ItemChangeRequest
	if !DecodeAndValidateRequest(w, r, &req, "give item") {
		return
	}

	res, err := h.ledger.GiveItem(r.Context(), userID, guildID, req.ItemID, req.Quantity, domain.SourceAdminGive)
	if err != nil {
		respondServiceError(w, r, "give item", err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgAdminItemChange, "op", "give", "user_id", userID, "guild_id", guildID,
		"item_id", req.ItemID, "quantity", req.Quantity)
	respondJSON(w, r, http.StatusOK, res)
}

func (h *AccountHandler) HandleTakeItem(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	var req ItemChangeRequest
	if !DecodeAndValidateRequest(w, r, &req, "take item") {
		return
	}

	if err := h.ledger.TakeItem(r.Context(), userID, guildID, req.ItemID, req.Quantity); err != nil {
		respondServiceError(w, r, "take item", err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgAdminItemChange, "op", "take", "user_id", userID, "guild_id", guildID,
		"item_id", req.ItemID, "quantity", req.Quantity)
	respondJSON(w, r, http.StatusOK, SuccessResponse{Message: MsgItemTaken})
}

func (h *AccountHandler) HandleUseItem(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	var req UseItemRequest
	if !DecodeAndValidateRequest(w, r, &req, "use item") {
		return
	}

	res, err := h.ledger.UseItem(r.Context(), userID, guildID, req.ItemID)
	if err != nil {
		respondServiceError(w, r, "use item", err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}

func (h *AccountHandler) HandleOpenLootBoxes(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	var req OpenLootBoxRequest
	if !DecodeAndValidateRequest(w, r, &req, "open loot boxes") {
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}

	res, err := h.boxes.OpenLootBoxes(r.Context(), userID, guildID, req.BoxID, req.Count)
	if err != nil {
		respondServiceError(w, r, "open loot boxes", err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}
