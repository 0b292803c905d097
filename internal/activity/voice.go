package activity

import (
	"sort"
	"sync"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/metrics"
)

// VoiceState is the part of a gateway voice state update the registry needs.
type VoiceState struct {
	UserID    string
	GuildID   string
	ChannelID string
	Muted     bool
	Deafened  bool
	Bot       bool
}

// Eligible reports whether the member currently earns voice rewards.
func (v VoiceState) Eligible() bool {
	return v.ChannelID != "" && !v.Muted && !v.Deafened && !v.Bot
}

// Session is one member's uninterrupted eligible stretch in voice.
type Session struct {
	UserID       string
	GuildID      string
	JoinedAt     time.Time
	LastRewardAt time.Time
}

// SessionRegistry tracks eligible voice members per (user, guild). It is
// safe for concurrent use by the gateway handler and the scheduler.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[domain.AccountKey]*Session
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[domain.AccountKey]*Session)}
}

// Update applies a voice state change. It returns +1 when a session started,
// -1 when one ended and 0 otherwise. Muting ends the session; unmuting
// starts a new one.
func (r *SessionRegistry) Update(state VoiceState, now time.Time) int {
	key := domain.AccountKey{UserID: state.UserID, GuildID: state.GuildID}

	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() { metrics.VoiceSessions.Set(float64(len(r.sessions))) }()

	_, tracked := r.sessions[key]
	switch {
	case state.Eligible() && !tracked:
		r.sessions[key] = &Session{UserID: state.UserID, GuildID: state.GuildID, JoinedAt: now, LastRewardAt: now}
		return 1
	case !state.Eligible() && tracked:
		delete(r.sessions, key)
		return -1
	}
	return 0
}

// Due returns copies of the sessions whose last reward is at least interval
// old, ordered by guild then user.
func (r *SessionRegistry) Due(now time.Time, interval time.Duration) []Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Session
	for _, s := range r.sessions {
		if now.Sub(s.LastRewardAt) >= interval {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GuildID != out[j].GuildID {
			return out[i].GuildID < out[j].GuildID
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// MarkRewarded stamps a session. Sessions that ended meanwhile are ignored.
func (r *SessionRegistry) MarkRewarded(userID, guildID string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[domain.AccountKey{UserID: userID, GuildID: guildID}]; ok {
		s.LastRewardAt = at
	}
}

// Len is the number of tracked sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
