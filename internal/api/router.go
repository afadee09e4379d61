package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/carelink/patient-portal/internal/auth"
)

type RouterConfig struct {
	Portal   Portal
	Resolver auth.Resolver
	PgPool   *pgxpool.Pool
	Redis    *redis.Client
	Env      string
	Version  string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health and metrics stay outside auth.
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Resolver))

		r.Get("/doctors", getDoctorsHandler(cfg.Portal))
		r.Get("/available-slots", getSlotsHandler(cfg.Portal))
		r.Post("/appointments", createBookingHandler(cfg.Portal))
		r.Get("/appointments", listBookingsHandler(cfg.Portal))
		r.Post("/chat", sendChatHandler(cfg.Portal))
		r.Get("/chat/history", chatHistoryHandler(cfg.Portal))
	})

	return r
}
