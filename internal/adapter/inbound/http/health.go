package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"

	"github.com/shopfront/shopfront/internal/adapter/outbound/state"
	"github.com/shopfront/shopfront/internal/domain/session"
)

// HealthResponse is the JSON response from the /health endpoint.
type HealthResponse struct {
	Status  string            `json:"status"`            // "healthy" or "unhealthy"
	Checks  map[string]string `json:"checks"`            // Component check results
	Version string            `json:"version,omitempty"` // Optional version info
}

// HealthChecker verifies component health.
type HealthChecker struct {
	stateStore   state.Store
	sessionStore *session.Store
	version      string
}

// NewHealthChecker creates a HealthChecker with optional components.
// Pass nil for components that aren't available.
func NewHealthChecker(stateStore state.Store, sessionStore *session.Store, version string) *HealthChecker {
	return &HealthChecker{
		stateStore:   stateStore,
		sessionStore: sessionStore,
		version:      version,
	}
}

// Check performs health checks on all components.
func (h *HealthChecker) Check() HealthResponse {
	checks := make(map[string]string)
	healthy := true

	// The state backend must be readable; a corrupt or unreachable record
	// means cart and credential persistence are broken.
	if h.stateStore != nil {
		if _, err := h.stateStore.Load(); err != nil {
			checks["state_store"] = fmt.Sprintf("error: %v", err)
			healthy = false
		} else {
			checks["state_store"] = "ok"
		}
	} else {
		checks["state_store"] = "not configured"
	}

	if h.sessionStore != nil {
		_, status := h.sessionStore.Current()
		checks["session"] = string(status)
	} else {
		checks["session"] = "not configured"
	}

	checks["goroutines"] = fmt.Sprintf("%d", runtime.NumGoroutine())

	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	return HealthResponse{
		Status:  status,
		Checks:  checks,
		Version: h.version,
	}
}

// Handler returns an HTTP handler for the health endpoint.
func (h *HealthChecker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		health := h.Check()

		w.Header().Set("Content-Type", "application/json")
		if health.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable) // 503
		} else {
			w.WriteHeader(http.StatusOK) // 200
		}

		_ = json.NewEncoder(w).Encode(health)
	})
}
