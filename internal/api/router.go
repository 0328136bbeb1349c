package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/agendly/booking-engine/internal/booking"
	"github.com/agendly/booking-engine/internal/schedule"
)

type RouterConfig struct {
	Schedule *schedule.Service
	Bookings *booking.Service
	PgPool   *pgxpool.Pool
	Redis    *redis.Client
	Env      string
	Version  string
	Metrics  bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	if cfg.Metrics {
		r.Use(MetricsMiddleware)
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Public storefront: slot listing and booking creation.
	r.Get("/tenants/{tenantID}/services/{serviceID}/slots", getSlotsHandler(cfg.Schedule))
	r.Post("/tenants/{tenantID}/bookings", createBookingHandler(cfg.Bookings))

	// Bookings.
	r.Get("/bookings/{id}", getBookingHandler(cfg.Bookings))
	r.Post("/bookings/{id}/transition", transitionBookingHandler(cfg.Bookings))
	r.Post("/bookings/{id}/cancel", cancelBookingHandler(cfg.Bookings))
	r.Get("/tenants/{tenantID}/bookings", listTenantBookingsHandler(cfg.Bookings))
	r.Get("/customers/{customerID}/bookings", listCustomerBookingsHandler(cfg.Bookings))

	// Tenant staff: availability rules and policy.
	r.Get("/tenants/{tenantID}/availability-rules", listRulesHandler(cfg.Schedule))
	r.Post("/tenants/{tenantID}/availability-rules", createRuleHandler(cfg.Schedule))
	r.Put("/tenants/{tenantID}/availability-rules/{ruleID}", updateRuleHandler(cfg.Schedule))
	r.Delete("/tenants/{tenantID}/availability-rules/{ruleID}", deleteRuleHandler(cfg.Schedule))
	r.Get("/tenants/{tenantID}/policy", getPolicyHandler(cfg.Schedule))
	r.Put("/tenants/{tenantID}/policy", updatePolicyHandler(cfg.Schedule))

	return r
}
