package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/crewsight/crewsight-platform/internal/chatsession"
	httpmiddleware "github.com/crewsight/crewsight-platform/internal/http/middleware"
	"github.com/crewsight/crewsight-platform/internal/intake"
	"github.com/crewsight/crewsight-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	IntakeHandler  *intake.Handler
	ChatHandler    *chatsession.Handler
	MetricsHandler http.Handler

	CRMAPIKey       string
	AdminAuthSecret string

	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
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

	// Public endpoints (site forms, chat widget, health checks)
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.RateLimitPerSecond > 0 {
			public.With(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst)).
				Post("/api/leads", cfg.IntakeHandler.CreateLead)
		} else {
			public.Post("/api/leads", cfg.IntakeHandler.CreateLead)
		}
		if cfg.ChatHandler != nil {
			public.Post("/api/chat/sessions/{sessionID}/turns", cfg.ChatHandler.AppendTurn)
		}
	})

	// Lead management (CRM integration or admin dashboard)
	r.Group(func(protected chi.Router) {
		protected.With(httpmiddleware.APIKey(cfg.CRMAPIKey)).
			Get("/api/leads", cfg.IntakeHandler.ListLeads)

		guard := httpmiddleware.APIKeyOrAdminJWT(cfg.CRMAPIKey, cfg.AdminAuthSecret)
		protected.With(guard).Put("/api/leads/{leadID}/status", cfg.IntakeHandler.UpdateStatus)
		protected.With(guard).Delete("/api/leads", cfg.IntakeHandler.EraseLead)
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
