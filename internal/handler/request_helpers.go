package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// DecodeAndValidateRequest decodes a JSON body into req and validates it.
// On failure the response has already been written and the handler should
// return.
func DecodeAndValidateRequest(w http.ResponseWriter, r *http.Request, req any, op string) bool {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		log.Debug(LogMsgDecodeFailed, "op", op, "error", err)
		respondError(w, r, http.StatusBadRequest, ErrMsgInvalidRequest)
		return false
	}
	log.Debug(LogMsgRequestDecoded, "op", op)

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, r, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return false
	}
	return true
}

// snowflakeParam reads a chi URL parameter that must be a Discord ID.
func snowflakeParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := chi.URLParam(r, name)
	if err := GetValidator().ValidateVar(value, TagSnowflake); err != nil {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidPathParam, name))
		return "", false
	}
	return value, true
}

// accountParams reads the guild and user IDs of an account route.
func accountParams(w http.ResponseWriter, r *http.Request) (userID, guildID string, ok bool) {
	if guildID, ok = snowflakeParam(w, r, ParamGuildID); !ok {
		return "", "", false
	}
	if userID, ok = snowflakeParam(w, r, ParamUserID); !ok {
		return "", "", false
	}
	return userID, guildID, true
}

// limitParam parses the optional limit query parameter.
func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get(QueryLimit)
	if raw == "" {
		return DefaultLeaderboardLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > MaxLeaderboardLimit {
		respondError(w, r, http.StatusBadRequest, ErrMsgInvalidLimit)
		return 0, false
	}
	return limit, true
}
