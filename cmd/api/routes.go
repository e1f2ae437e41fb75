package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	httphandlers "horizon/internal/interfaces/http"
	"horizon/internal/shared/config"
	"horizon/internal/shared/middleware"
)

const requestTimeout = 60 * time.Second

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	if cfg.Telemetry.Enabled {
		r.Use(middleware.Telemetry(cfg.Telemetry.ServiceName))
		r.Use(middleware.Tracing)
	}
	if cfg.TLS.Enabled {
		r.Use(middleware.HSTS)
		r.Use(middleware.SecureCookies)
		logger.Info("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	r.Get("/health", httphandlers.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/sign-up", deps.AuthHandler.HandleSignUp)
		r.Post("/auth/sign-in", deps.AuthHandler.HandleSignIn)
		r.Post("/auth/logout", deps.AuthHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(deps.JWT, cfg.Session.CookieName))

			r.Get("/users/me", deps.UserHandler.HandleMe)
			r.Post("/link/token", deps.LinkHandler.HandleCreateLinkToken)
			r.Post("/link/exchange", deps.LinkHandler.HandleExchange)
			r.Get("/accounts", deps.AccountHandler.HandleListAccounts)
			r.Get("/accounts/{id}", deps.AccountHandler.HandleGetAccount)
			r.Post("/transfers", deps.TransferHandler.HandleCreateTransfer)
		})
	})

	return r
}
