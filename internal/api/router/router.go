package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/pratik-mahalle/mxcloud/internal/api/handlers"
	"github.com/pratik-mahalle/mxcloud/internal/api/middleware"
	"github.com/pratik-mahalle/mxcloud/internal/config"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/metrics"
)

type Handlers struct {
	Health  *handlers.HealthHandler
	Session *handlers.SessionHandler
	Account *handlers.AccountHandler
	Data    *handlers.DataHandler
	Alert   *handlers.AlertHandler
	Proxy   *handlers.ProxyHandler
}

// New builds the HTTP handler. ctx bounds background work owned by middleware.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, h *Handlers, sessions middleware.TokenValidator) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.EchoRequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.RateLimit(ctx, 100, 200)) // 100 req/sec, burst of 200

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
		r.Handle("/metrics", metrics.Handler())

		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)
	})

	if h.Proxy != nil {
		r.Route("/api/proxy", func(r chi.Router) {
			r.Use(middleware.RelayCORS())
			r.Get("/", h.Proxy.Relay)
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
		r.Use(middleware.SecurityHeaders)

		// Session endpoints are reachable while locked
		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.Session.Status)
			r.Post("/setup", h.Session.Setup)
			r.Post("/unlock", h.Session.Unlock)
			r.Post("/lock", h.Session.Lock)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(sessions))

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", h.Account.List)
				r.Post("/", h.Account.Create)
				r.Get("/{id}", h.Account.Get)
				r.Put("/{id}", h.Account.Update)
				r.Delete("/{id}", h.Account.Delete)
				r.Post("/{id}/enable", h.Account.Enable)
				r.Post("/{id}/disable", h.Account.Disable)
				r.Post("/{id}/refresh", h.Data.RefreshAccount)
				r.Get("/{id}/snapshot", h.Data.Snapshot)
			})

			r.Post("/refresh", h.Data.RefreshAll)
			r.Post("/regions/refresh", h.Data.RefreshRegions)
			r.Get("/dashboard", h.Data.Dashboard)

			r.Route("/alerts", func(r chi.Router) {
				r.Get("/rules", h.Alert.ListRules)
				r.Post("/rules", h.Alert.CreateRule)
				r.Put("/rules/{id}", h.Alert.UpdateRule)
				r.Delete("/rules/{id}", h.Alert.DeleteRule)
				r.Post("/check", h.Alert.Check)
				r.Get("/notifications", h.Alert.ListNotifications)
				r.Post("/notifications/read-all", h.Alert.MarkAllRead)
				r.Post("/notifications/{id}/read", h.Alert.MarkRead)
				r.Delete("/notifications/{id}", h.Alert.DeleteNotification)
			})
		})
	})

	return r
}
