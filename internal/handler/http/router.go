package http

import (
	"errors"
	"net/http"
	"time"

	"countryquiz/internal/handler/http/respond"
	"countryquiz/internal/observability/tracing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

// Routes served by the status server.
const (
	PathLiveness  = "/healthz"
	PathReadiness = "/readyz"
	PathMetrics   = "/metrics"
)

// NewRouter builds the status server routes:
//   - GET /healthz: liveness
//   - GET /readyz: readiness, 503 until the catalog has countries
//   - GET /metrics: Prometheus exposition
//
// tp may be nil to use the global tracer provider.
func NewRouter(health *HealthHandler, tp trace.TracerProvider) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(tracing.Middleware(tp))
	r.Use(MetricsMiddleware)

	r.Get(PathLiveness, health.Liveness)
	r.Get(PathReadiness, health.Readiness)
	r.Method(http.MethodGet, PathMetrics, MetricsHandler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, errors.New("not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	})

	return r
}
