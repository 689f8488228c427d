package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prepwise/prepwise/server/internal/api/respond"
	"github.com/prepwise/prepwise/server/internal/health"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	storePinger health.HealthPinger
}

func NewHealthHandler(storePinger health.HealthPinger) *HealthHandler {
	return &HealthHandler{storePinger: storePinger}
}

// serviceIsHealthy is injected by run.go once the aggregate checker exists.
var serviceIsHealthy func() bool = func() bool { return false }

// BindServiceHealth wires the aggregate service health function.
func BindServiceHealth(f func() bool) { serviceIsHealthy = f }

// CheckHealth handles GET /api/health. Always 200; the body reports
// healthy/unhealthy.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if serviceIsHealthy() {
		status = "healthy"
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// CheckStoreHealth handles GET /api/health/store with a live probe.
func (h *HealthHandler) CheckStoreHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.storePinger.HealthPing(ctx); err != nil {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}
