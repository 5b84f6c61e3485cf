package handlers

import (
	"context"
	"log"
	"net/http"
	"time"
)

// Pinger checks connectivity to a backing service
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health including backing dependencies
type HealthHandler struct {
	dependencies map[string]Pinger
	logger       *log.Logger
}

// NewHealthHandler creates a new health handler. Nil pingers are skipped.
func NewHealthHandler(dependencies map[string]Pinger, logger *log.Logger) *HealthHandler {
	return &HealthHandler{
		dependencies: dependencies,
		logger:       logger,
	}
}

// HealthResponse is the health endpoint body
type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Health reports readiness of the service and its dependencies
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:       "ok",
		Dependencies: make(map[string]string, len(h.dependencies)),
	}

	status := http.StatusOK
	for name, dep := range h.dependencies {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			h.logger.Printf("Health check failed for %s: %v", name, err)
			resp.Dependencies[name] = "unreachable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		} else {
			resp.Dependencies[name] = "ok"
		}
	}

	sendJSON(w, status, resp)
}
