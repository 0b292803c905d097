package handler

import (
	"context"
	"net/http"

	"github.com/osse101/EconomyBot_Go/internal/bank"
	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// BankService is implemented by bank.Service.
type BankService interface {
	Deposit(ctx context.Context, userID, guildID string, c domain.Currency, amount int64) (*bank.TransferResult, error)
	Withdraw(ctx context.Context, userID, guildID string, c domain.Currency, amount int64) (*bank.TransferResult, error)
	UpgradeTier(ctx context.Context, userID, guildID string) (*bank.UpgradeResult, error)
	GetBank(ctx context.Context, userID, guildID string) (*bank.Info, error)
}

type BankHandler struct {
	bank BankService
}

func NewBankHandler(svc BankService) *BankHandler {
	return &BankHandler{bank: svc}
}

// BankTransferRequest moves currency between wallet and bank.
type BankTransferRequest struct {
	Currency string `json:"currency" validate:"required,bankable"`
	Amount   int64  `json:"amount" validate:"gt=0"`
}

func (h *BankHandler) HandleGetBank(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	info, err := h.bank.GetBank(r.Context(), userID, guildID)
	if err != nil {
		respondServiceError(w, r, "get bank", err)
		return
	}
	respondJSON(w, r, http.StatusOK, info)
}

func (h *BankHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	h.transfer(w, r, "deposit", h.bank.Deposit)
}

func (h *BankHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	h.transfer(w, r, "withdraw", h.bank.Withdraw)
}

type transferFunc func(ctx context.Context, userID, guildID string, c domain.Currency, amount int64) (*bank.TransferResult, error)

func (h *BankHandler) transfer(w http.ResponseWriter, r *http.Request, op string, move transferFunc) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	var req BankTransferRequest
	if !DecodeAndValidateRequest(w, r, &req, op) {
		return
	}
	res, err := move(r.Context(), userID, guildID, domain.Currency(req.Currency), req.Amount)
	if err != nil {
		respondServiceError(w, r, op, err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}

func (h *BankHandler) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	userID, guildID, ok := accountParams(w, r)
	if !ok {
		return
	}
	res, err := h.bank.UpgradeTier(r.Context(), userID, guildID)
	if err != nil {
		respondServiceError(w, r, "upgrade bank", err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}
