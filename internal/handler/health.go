package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// HealthResponse is the body of the liveness and readiness probes
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Pinger is satisfied by the database pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GatewayStatus reports whether the Discord gateway is connected. A nil
// GatewayStatus means the bot is disabled.
type GatewayStatus interface {
	Connected() bool
}

// HandleHealthz is the liveness probe
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, HealthResponse{Status: MsgHealthStatusOK})
	}
}

// HandleReadyz reports ready when the database answers and, if the bot is
// enabled, the gateway is connected.
func HandleReadyz(db Pinger, gateway GatewayStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeoutSeconds*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logReadiness(r, err)
			respondJSON(w, r, http.StatusServiceUnavailable, HealthResponse{Status: MsgHealthUnavailable, Message: ErrMsgReadinessDBFailed})
			return
		}
		if gateway != nil && !gateway.Connected() {
			logReadiness(r, nil)
			respondJSON(w, r, http.StatusServiceUnavailable, HealthResponse{Status: MsgHealthUnavailable, Message: ErrMsgReadinessBotOffline})
			return
		}
		respondJSON(w, r, http.StatusOK, HealthResponse{Status: MsgHealthStatusOK})
	}
}

func logReadiness(r *http.Request, err error) {
	if err != nil {
		logger.FromContext(r.Context()).Error(LogMsgReadinessFailed, "error", err)
		return
	}
	logger.FromContext(r.Context()).Warn(LogMsgReadinessFailed, "reason", ErrMsgReadinessBotOffline)
}
