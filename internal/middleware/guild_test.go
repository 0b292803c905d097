package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) Register(ctx context.Context, guildID string) error {
	return m.Called(ctx, guildID).Error(0)
}

func newRouter(tracker *GuildTracker, status int) http.Handler {
	r := chi.NewRouter()
	r.Route("/guilds/{guildID}", func(r chi.Router) {
		r.Use(tracker.Track)
		r.Get("/shop", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(status) })
	})
	return r
}

func get(h http.Handler, path string) {
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
}

func TestGuildTracker_RegistersOnce(t *testing.T) {
	reg := new(MockRegistrar)
	reg.On("Register", mock.Anything, "42").Return(nil).Once()
	h := newRouter(NewGuildTracker(reg), http.StatusOK)

	get(h, "/guilds/42/shop")
	get(h, "/guilds/42/shop")

	reg.AssertExpectations(t)
}

func TestGuildTracker_SkipsFailedRequests(t *testing.T) {
	reg := new(MockRegistrar)
	h := newRouter(NewGuildTracker(reg), http.StatusBadRequest)

	get(h, "/guilds/42/shop")

	reg.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestGuildTracker_RetriesAfterRegisterError(t *testing.T) {
	reg := new(MockRegistrar)
	reg.On("Register", mock.Anything, "42").Return(errors.New("db down")).Once()
	reg.On("Register", mock.Anything, "42").Return(nil).Once()
	h := newRouter(NewGuildTracker(reg), http.StatusOK)

	get(h, "/guilds/42/shop")
	get(h, "/guilds/42/shop")
	get(h, "/guilds/42/shop")

	reg.AssertNumberOfCalls(t, "Register", 2)
	assert.True(t, reg.AssertExpectations(t))
}
