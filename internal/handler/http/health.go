package http

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/windfall/gong_studio/pkg/response"
)

// Pinger is a dependency whose reachability is reported by the ready probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	ready    atomic.Bool
	provider string
	checks   map[string]Pinger
}

// NewHealthHandler creates a new health handler. provider is reported as-is
// and is empty when no model credentials are configured.
func NewHealthHandler(provider string) *HealthHandler {
	h := &HealthHandler{
		provider: provider,
		checks:   make(map[string]Pinger),
	}
	h.ready.Store(true)
	return h
}

// AddCheck registers a dependency for the ready probe.
func (h *HealthHandler) AddCheck(name string, p Pinger) {
	h.checks[name] = p
}

// SetReady sets the ready state.
func (h *HealthHandler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Health checks if the service is healthy.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"service":  "gong_studio",
		"provider": h.provider,
	})
}

// Ready checks if the service is ready to receive traffic.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		response.JSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not_ready",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string, len(h.checks))
	status := http.StatusOK
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "degraded"
	}
	response.JSON(w, status, map[string]interface{}{
		"status":       state,
		"dependencies": deps,
	})
}

// Live checks if the service is alive (for Kubernetes liveness probe).
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status": "alive",
	})
}
