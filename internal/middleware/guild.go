// Package middleware holds HTTP middleware that needs domain services.
package middleware

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// GuildRegistrar stores default settings for a guild seen for the first
// time. guild.Service satisfies it.
type GuildRegistrar interface {
	Register(ctx context.Context, guildID string) error
}

// GuildTracker registers every guild addressed through the API so the
// restock sweep and the weekend watcher pick it up, even when the bot has
// never joined it.
type GuildTracker struct {
	guilds GuildRegistrar
	seen   sync.Map
}

func NewGuildTracker(guilds GuildRegistrar) *GuildTracker {
	return &GuildTracker{guilds: guilds}
}

// Track registers the route's guild after a successful (2xx) response.
// Must be mounted inside a route that declares {guildID}.
func (g *GuildTracker) Track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		guildID := chi.URLParam(r, GuildIDParam)
		if guildID == "" || rec.status >= http.StatusMultipleChoices {
			return
		}
		if _, loaded := g.seen.LoadOrStore(guildID, struct{}{}); loaded {
			return
		}
		if err := g.guilds.Register(r.Context(), guildID); err != nil {
			g.seen.Delete(guildID)
			logger.FromContext(r.Context()).Warn(LogMsgGuildRegisterFailed, "guild_id", guildID, "error", err)
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}
