// Package server wires the HTTP routes, middleware and lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/EconomyBot_Go/internal/handler"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/metrics"
	"github.com/osse101/EconomyBot_Go/internal/middleware"
)

// Options configures the HTTP surface
type Options struct {
	Port               int
	APIKey             string
	TrustedProxies     []string
	CORSAllowedOrigins []string
	Version            string
	Environment        string
}

// Services are the collaborators the routes call.
type Services struct {
	DB          handler.Pinger
	Gateway     handler.GatewayStatus
	Accounts    handler.AccountService
	LootBoxes   handler.LootBoxOpener
	Bank        handler.BankService
	Daily       handler.DailyService
	Shop        handler.ShopService
	Progression handler.ProgressionService
	Guilds      GuildService
}

// GuildService covers the guild settings routes and API-side guild
// registration.
type GuildService interface {
	handler.GuildSettingsService
	middleware.GuildRegistrar
}

type Server struct {
	httpServer *http.Server
}

// NewServer builds the router. Public probes and /metrics sit outside the
// API key check; everything under /api/v1 requires it.
func NewServer(opts Options, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, svc),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter returns the fully wired handler tree.
func NewRouter(opts Options, svc Services) http.Handler {
	proxies := NewTrustedProxies(opts.TrustedProxies)
	detector := NewAbuseDetector()

	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(SecurityHeadersMiddleware())
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", HeaderAPIKey, HeaderRequestID},
			ExposedHeaders: []string{HeaderRequestID},
			MaxAge:         CORSMaxAgeSeconds,
		}))
	}
	r.Use(RateLimitMiddleware(proxies, detector))
	r.Use(AuthMiddleware(opts.APIKey, proxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svc.DB, svc.Gateway))
	r.Get("/version", handler.HandleVersion(opts.Version, opts.Environment))
	r.Handle("/metrics", promhttp.Handler())

	accounts := handler.NewAccountHandler(svc.Accounts, svc.LootBoxes)
	bankH := handler.NewBankHandler(svc.Bank)
	dailyH := handler.NewDailyHandler(svc.Daily)
	shopH := handler.NewShopHandler(svc.Shop)
	prog := handler.NewProgressionHandler(svc.Progression)
	guildH := handler.NewGuildHandler(svc.Guilds)
	tracker := middleware.NewGuildTracker(svc.Guilds)

	r.Route("/api/v1/guilds/{guildID}", func(r chi.Router) {
		r.Use(tracker.Track)

		r.Get("/settings", guildH.HandleGetSettings)
		r.Patch("/settings", guildH.HandleUpdateSettings)
		r.Get("/leaderboard", prog.HandleLeaderboard)
		r.Get("/shop", shopH.HandleGetShop)
		r.Post("/shop/restock", shopH.HandleRestock)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", accounts.HandleGetAccount)
			r.Delete("/", accounts.HandleResetAccount)
			r.Put("/alerts", accounts.HandleUpdateAlerts)
			r.Post("/credit", accounts.HandleCredit)
			r.Post("/debit", accounts.HandleDebit)

			r.Post("/items/give", accounts.HandleGiveItem)
			r.Post("/items/take", accounts.HandleTakeItem)
			r.Post("/items/use", accounts.HandleUseItem)
			r.Post("/lootboxes/open", accounts.HandleOpenLootBoxes)

			r.Get("/bank", bankH.HandleGetBank)
			r.Post("/bank/deposit", bankH.HandleDeposit)
			r.Post("/bank/withdraw", bankH.HandleWithdraw)
			r.Post("/bank/upgrade", bankH.HandleUpgrade)

			r.Get("/daily", dailyH.HandleGetDaily)
			r.Post("/daily/claim", dailyH.HandleClaim)
			r.Post("/daily/restore", dailyH.HandleRestore)

			r.Post("/shop/purchase", shopH.HandlePurchase)

			r.Get("/progress", prog.HandleGetProgress)
			r.Post("/xp", prog.HandleAwardXP)
			r.Put("/level", prog.HandleSetLevel)
		})
	})

	return r
}

// Start serves until Stop is called. It returns nil after a graceful stop.
func (s *Server) Start(ctx context.Context) error {
	logger.FromContext(ctx).Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgServerStopped)
	return nil
}

// Stop drains in-flight requests until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
