// Package http serves the status endpoints of the countries service:
// liveness, readiness backed by the catalog, and Prometheus metrics.
// It exposes no country data.
package http

import (
	"errors"
	"net/http"
	"time"

	"countryquiz/internal/handler/http/respond"
	"countryquiz/internal/usecase/catalog"

	"github.com/sony/gobreaker"
)

// Check statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

var errNotLoaded = errors.New("no countries loaded")

// CatalogSource provides catalog snapshots. *catalog.Catalog implements it.
type CatalogSource interface {
	Snapshot() catalog.State
}

// BreakerSource reports circuit breaker state. *circuitbreaker.CircuitBreaker implements it.
type BreakerSource interface {
	Name() string
	State() gobreaker.State
}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`           // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"`        // RFC 3339
	Checks    map[string]CheckStatus `json:"checks,omitempty"` // Status of each check item
	Version   string                 `json:"version,omitempty"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	Catalog CatalogSource
	Breaker BreakerSource // optional
	Version string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Liveness always returns 200 OK while the process can serve requests.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:    StatusHealthy,
		Timestamp: h.timestamp(),
		Version:   h.Version,
	})
}

// Readiness returns 200 when the catalog holds countries and 503 otherwise.
// An open circuit breaker makes the overall status degraded but does not
// fail the probe, since the countries already loaded can still be served.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus, 2)

	catalogCheck := h.checkCatalog()
	checks["catalog"] = catalogCheck

	if h.Breaker != nil {
		checks["circuit_breaker"] = h.checkBreaker()
	}

	status := StatusHealthy
	code := http.StatusOK
	for _, check := range checks {
		if check.Status == StatusDegraded {
			status = StatusDegraded
		}
	}
	if catalogCheck.Status == StatusUnhealthy {
		status = StatusUnhealthy
		code = http.StatusServiceUnavailable
	}

	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: h.timestamp(),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkCatalog() CheckStatus {
	if h.Catalog == nil {
		return CheckStatus{Status: StatusUnhealthy, Message: "not configured"}
	}

	s := h.Catalog.Snapshot()
	details := map[string]any{
		"countries":  len(s.Countries),
		"loading":    s.IsLoading,
		"generation": s.Generation,
		"criterion":  s.Criterion.String(),
		"ascending":  s.Ascending,
	}
	if !s.LoadedAt.IsZero() {
		details["loaded_at"] = s.LoadedAt.UTC().Format(time.RFC3339)
	}

	switch {
	case s.Ready():
		return CheckStatus{Status: StatusHealthy, Details: details}
	case s.IsLoading:
		return CheckStatus{Status: StatusUnhealthy, Message: "loading", Details: details}
	case s.LastError != nil:
		return CheckStatus{Status: StatusUnhealthy, Message: s.LastError.Error(), Details: details}
	default:
		return CheckStatus{Status: StatusUnhealthy, Message: errNotLoaded.Error(), Details: details}
	}
}

func (h *HealthHandler) checkBreaker() CheckStatus {
	state := h.Breaker.State()
	details := map[string]any{
		"name":  h.Breaker.Name(),
		"state": state.String(),
	}
	if state == gobreaker.StateOpen {
		return CheckStatus{Status: StatusDegraded, Message: "circuit open, refreshes are rejected", Details: details}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

func (h *HealthHandler) timestamp() string {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return now().UTC().Format(time.RFC3339)
}
