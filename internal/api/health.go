package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// dependency is a backing service the API needs. Critical dependencies take
// readiness to "error"; non-critical ones only degrade it.
type dependency struct {
	name     string
	critical bool
	ping     func(ctx context.Context) error
}

type HealthHandler struct {
	deps    []dependency
	env     string
	version string
	log     zerolog.Logger
}

// NewHealthHandler wires the dependency probes. Redis is non-critical: the
// booking lock is an optimization and the database constraints still guard
// double booking when it is gone.
func NewHealthHandler(pgPool *pgxpool.Pool, rdb *redis.Client, env, version string, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		deps: []dependency{
			{name: "postgres", critical: true, ping: pgPool.Ping},
			{name: "redis", ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
		env:     env,
		version: version,
		log:     log,
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string, len(h.deps))
	status := "ok"

	for _, dep := range h.deps {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		err := dep.ping(ctx)
		cancel()

		if err == nil {
			deps[dep.name] = "ok"
			continue
		}

		deps[dep.name] = "down"
		h.log.Warn().Err(err).Str("dependency", dep.name).Msg("readiness probe failed")

		if dep.critical {
			status = "error"
		} else if status == "ok" {
			status = "degraded"
		}
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	})
}
