// Package router assembles the HTTP surface of the landing page backend.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/solargearltd/solar-platform/internal/analytics"
	"github.com/solargearltd/solar-platform/internal/chat"
	httpmiddleware "github.com/solargearltd/solar-platform/internal/http/middleware"
	"github.com/solargearltd/solar-platform/internal/leads"
	"github.com/solargearltd/solar-platform/internal/site"
	"github.com/solargearltd/solar-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	SiteHandler        *site.Handler
	LeadsHandler       *leads.Handler
	ChatHandler        *chat.Handler
	AnalyticsHandler   *analytics.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)

	if cfg.SiteHandler != nil {
		r.Route("/site", func(r chi.Router) {
			r.Get("/config", cfg.SiteHandler.HandleConfig)
			r.Post("/estimate", cfg.SiteHandler.HandleEstimate)
			r.Post("/package-click", cfg.SiteHandler.HandlePackageClick)
		})
	}

	if cfg.LeadsHandler != nil {
		r.Route("/leads", func(r chi.Router) {
			r.Post("/audit", cfg.LeadsHandler.HandleAudit)
			r.Post("/purchase", cfg.LeadsHandler.HandlePurchase)
		})
	}

	if cfg.ChatHandler != nil {
		r.Route("/chat", func(r chi.Router) {
			r.Get("/ws", cfg.ChatHandler.HandleWebSocket)
			r.Post("/message", cfg.ChatHandler.HandleMessage)
			r.Get("/history", cfg.ChatHandler.HandleHistory)
			r.Post("/escalate", cfg.ChatHandler.HandleEscalate)
			r.Post("/close", cfg.ChatHandler.HandleClose)
		})
	}

	if cfg.AnalyticsHandler != nil {
		r.Post("/analytics/events", cfg.AnalyticsHandler.Track)
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
