package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// SuccessResponse is a plain acknowledgement.
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse lists the offending fields.
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

var bufferPool = sync.Pool{
	New: func() any { return bytes.NewBuffer(make([]byte, 0, 512)) },
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	buf, ok := bufferPool.Get().(*bytes.Buffer)
	if !ok {
		logger.FromContext(r.Context()).Error(LogMsgBufferPoolTypeErr)
		buf = new(bytes.Buffer)
	}
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error(LogMsgEncodeFailed, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Error(LogMsgWriteFailed, "error", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and answers with the status and message
// its domain error maps to.
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := mapServiceError(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "op", op, "error", err)
	} else {
		log.Debug(LogMsgServiceError, "op", op, "error", err, "status", status)
	}
	respondError(w, r, status, msg)
}

// mapServiceError converts a service error into an HTTP status and a
// message safe to show to callers.
func mapServiceError(err error) (int, string) {
	var funds *domain.InsufficientFundsError
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	case errors.As(err, &funds):
		return http.StatusConflict, ErrMsgNotEnoughMoney
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusConflict, ErrMsgNotEnoughMoney
	case errors.Is(err, domain.ErrInsufficientItems):
		return http.StatusConflict, ErrMsgNotEnoughItems
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, ErrMsgOutOfStock
	case errors.Is(err, domain.ErrNotInShop):
		return http.StatusNotFound, ErrMsgNotInShop
	case errors.Is(err, domain.ErrDestinationFull):
		return http.StatusConflict, ErrMsgDestinationFull
	case errors.Is(err, domain.ErrMaxBankTier):
		return http.StatusConflict, ErrMsgMaxBankTier
	case errors.Is(err, domain.ErrAlreadyClaimed):
		return http.StatusConflict, ErrMsgAlreadyClaimed
	case errors.Is(err, domain.ErrNoLostStreak):
		return http.StatusConflict, ErrMsgNoLostStreak
	case errors.Is(err, domain.ErrRestoreExpired):
		return http.StatusGone, ErrMsgRestoreExpired
	case errors.Is(err, domain.ErrOnCooldown):
		return http.StatusTooManyRequests, ErrMsgOnCooldown
	case errors.Is(err, domain.ErrNotDue):
		return http.StatusConflict, ErrMsgNotDue
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, ErrMsgAccountNotFound
	case errors.Is(err, domain.ErrUnknownItem):
		return http.StatusNotFound, ErrMsgUnknownItem
	case errors.Is(err, domain.ErrItemNotUsable), errors.Is(err, domain.ErrNotALootBox):
		return http.StatusUnprocessableEntity, ErrMsgItemNotUsable
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ErrMsgValidationError
	case errors.Is(err, domain.ErrConfigurationMissing):
		return http.StatusInternalServerError, ErrMsgConfigurationError
	case errors.Is(err, domain.ErrTransactionFailed):
		return http.StatusInternalServerError, ErrMsgTransactionError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
