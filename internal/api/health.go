package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler exposes liveness and readiness probes. Liveness never touches
// dependencies; readiness pings Postgres and Redis with short timeouts.
type HealthHandler struct {
	pg      *pgxpool.Pool
	redis   *redis.Client
	env     string
	version string
}

func NewHealthHandler(pg *pgxpool.Pool, redis *redis.Client, env, version string) *HealthHandler {
	return &HealthHandler{pg: pg, redis: redis, env: env, version: version}
}

type healthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: h.version, Env: h.env})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	deps := map[string]string{
		"postgres": "ok",
		"redis":    "ok",
	}
	status := "ok"

	if err := pingWithTimeout(r.Context(), func(ctx context.Context) error {
		return h.pg.Ping(ctx)
	}); err != nil {
		deps["postgres"] = "down"
		status = "error"
	}

	if err := pingWithTimeout(r.Context(), func(ctx context.Context) error {
		return h.redis.Ping(ctx).Err()
	}); err != nil {
		deps["redis"] = "down"
		// Booking writes need the lock, but reads still work.
		if status == "ok" {
			status = "degraded"
		}
	}

	code := http.StatusOK
	if status == "error" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, healthResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	})
}

func pingWithTimeout(parent context.Context, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, time.Second)
	defer cancel()
	return ping(ctx)
}
